// Package entry persists domain entries in a KV store (Redis / Valkey) or a SQL database.
package entry

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/docintel/internal/db"
	"github.com/kailas-cloud/docintel/internal/domain"
	domentry "github.com/kailas-cloud/docintel/internal/domain/entry"
	"github.com/kailas-cloud/docintel/internal/domain/lifedomain"
)

// kvStore is the consumer interface for the KV-backed repository (ISP).
type kvStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	MGet(ctx context.Context, keys []string) ([][]byte, error)
	SetIndexed(ctx context.Context, item db.IndexedItem) error
	DelIndexed(ctx context.Context, key string, indexes []db.ZEntry) error
	ZRem(ctx context.Context, key, member string) error
	ZRevRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	ZCard(ctx context.Context, key string) (int64, error)
}

// RedisRepo stores each entry as a JSON value and keeps two sorted-set indexes
// per owner (all domains, one domain) scored by creation time.
type RedisRepo struct {
	store kvStore
}

// NewRedis creates a KV-backed entry repository.
func NewRedis(s kvStore) *RedisRepo {
	return &RedisRepo{store: s}
}

// Create stores a new entry and its index memberships.
func (r *RedisRepo) Create(ctx context.Context, e *domentry.Entry) error {
	return r.put(ctx, e)
}

// Get returns an entry by owner and ID.
func (r *RedisRepo) Get(ctx context.Context, ownerID, id string) (domentry.Entry, error) {
	key := entryKey(ownerID, id)
	raw, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domentry.Entry{}, domain.ErrEntryNotFound
		}
		return domentry.Entry{}, fmt.Errorf("get %s: %w", key, err)
	}
	return decodeEntry(raw)
}

// List returns up to limit entries, most recent first. limit <= 0 returns all.
func (r *RedisRepo) List(
	ctx context.Context, ownerID string, d *lifedomain.Domain, limit int,
) ([]domentry.Entry, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}
	return r.rangeEntries(ctx, ownerID, indexKey(ownerID, d), 0, stop)
}

// Page returns one page of entries with an offset cursor.
func (r *RedisRepo) Page(
	ctx context.Context, ownerID string, d *lifedomain.Domain, cursor string, limit int,
) ([]domentry.Entry, string, error) {
	if limit <= 0 {
		limit = 20
	}
	offset, err := parseCursor(cursor)
	if err != nil {
		return nil, "", err
	}

	// one extra member tells whether another page exists
	start := int64(offset)
	entries, err := r.rangeEntries(ctx, ownerID, indexKey(ownerID, d), start, start+int64(limit))
	if err != nil {
		return nil, "", err
	}

	var next string
	if len(entries) > limit {
		entries = entries[:limit]
		next = strconv.Itoa(offset + limit)
	}
	return entries, next, nil
}

// Update rewrites an entry. A domain change moves it between domain indexes.
func (r *RedisRepo) Update(ctx context.Context, e *domentry.Entry) error {
	old, err := r.Get(ctx, e.OwnerID(), e.ID())
	if err != nil {
		return err
	}

	if err := r.put(ctx, e); err != nil {
		return err
	}

	if old.Domain() != e.Domain() {
		prev := old.Domain()
		if err := r.store.ZRem(ctx, indexKey(e.OwnerID(), &prev), e.ID()); err != nil {
			return fmt.Errorf("zrem %s: %w", indexKey(e.OwnerID(), &prev), err)
		}
	}
	return nil
}

// Delete removes an entry and its index memberships.
func (r *RedisRepo) Delete(ctx context.Context, ownerID, id string) error {
	existing, err := r.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}

	key := entryKey(ownerID, id)
	if err := r.store.DelIndexed(ctx, key, indexes(&existing)); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// Count returns the number of entries for the owner, optionally in one domain.
func (r *RedisRepo) Count(ctx context.Context, ownerID string, d *lifedomain.Domain) (int, error) {
	key := indexKey(ownerID, d)
	n, err := r.store.ZCard(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("zcard %s: %w", key, err)
	}
	return int(n), nil
}

func (r *RedisRepo) put(ctx context.Context, e *domentry.Entry) error {
	data, err := encodeEntry(e)
	if err != nil {
		return err
	}
	item := db.IndexedItem{
		Key:     entryKey(e.OwnerID(), e.ID()),
		Value:   data,
		Indexes: indexes(e),
	}
	if err := r.store.SetIndexed(ctx, item); err != nil {
		return fmt.Errorf("set %s: %w", item.Key, err)
	}
	return nil
}

func (r *RedisRepo) rangeEntries(
	ctx context.Context, ownerID, index string, start, stop int64,
) ([]domentry.Entry, error) {
	ids, err := r.store.ZRevRange(ctx, index, start, stop)
	if err != nil {
		return nil, fmt.Errorf("zrevrange %s: %w", index, err)
	}
	if len(ids) == 0 {
		return []domentry.Entry{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = entryKey(ownerID, id)
	}
	values, err := r.store.MGet(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("mget %s: %w", index, err)
	}

	entries := make([]domentry.Entry, 0, len(values))
	for i, raw := range values {
		// index member without a value: deleted between ZREVRANGE and MGET
		if raw == nil {
			continue
		}
		e, err := decodeEntry(raw)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", keys[i], err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func indexes(e *domentry.Entry) []db.ZEntry {
	score := float64(e.CreatedAt().UnixMilli())
	d := e.Domain()
	return []db.ZEntry{
		{Key: indexKey(e.OwnerID(), nil), Score: score, Member: e.ID()},
		{Key: indexKey(e.OwnerID(), &d), Score: score, Member: e.ID()},
	}
}

func entryKey(ownerID, id string) string {
	return fmt.Sprintf("%sentry:%s:%s", domain.KeyPrefix, ownerID, id)
}

func indexKey(ownerID string, d *lifedomain.Domain) string {
	if d == nil {
		return fmt.Sprintf("%sentries:%s", domain.KeyPrefix, ownerID)
	}
	return fmt.Sprintf("%sentries:%s:%s", domain.KeyPrefix, ownerID, *d)
}

func parseCursor(cursor string) (int, error) {
	if cursor == "" {
		return 0, nil
	}
	offset, err := strconv.Atoi(cursor)
	if err != nil || offset < 0 {
		return 0, fmt.Errorf("%w: invalid cursor %q", domain.ErrInvalidInput, cursor)
	}
	return offset, nil
}
