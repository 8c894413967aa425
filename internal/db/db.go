package db

import (
	"context"
	"time"
)

// Store is the key-value database facade.
//
//nolint:interfacebloat // consumers use narrow sub-interfaces (ISP)
type Store interface {
	Pinger
	KVStore
	SortedSetStore
	IndexedStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	MGet(ctx context.Context, keys []string) ([][]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// SortedSetStore provides ordered secondary indexes.
type SortedSetStore interface {
	ZAdd(ctx context.Context, key string, score float64, member string) error
	ZRem(ctx context.Context, key, member string) error
	// ZRevRange returns members by descending score; stop = -1 means to the end.
	ZRevRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	ZCard(ctx context.Context, key string) (int64, error)
}

// ZEntry is one sorted-set membership.
type ZEntry struct {
	Key    string
	Score  float64
	Member string
}

// IndexedItem is a value plus the sorted sets that reference it.
type IndexedItem struct {
	Key     string
	Value   []byte
	Indexes []ZEntry
}

// IndexedStore writes and removes a value together with its index memberships
// in a single round-trip.
type IndexedStore interface {
	SetIndexed(ctx context.Context, item IndexedItem) error
	DelIndexed(ctx context.Context, key string, indexes []ZEntry) error
}
