package entry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/docintel/internal/db"
	"github.com/kailas-cloud/docintel/internal/domain"
	domentry "github.com/kailas-cloud/docintel/internal/domain/entry"
	"github.com/kailas-cloud/docintel/internal/domain/lifedomain"
)

// sqlStore is the consumer interface for the SQL-backed repository (ISP).
type sqlStore interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	Rebind(query string) string
}

// schema is portable between SQLite and PostgreSQL.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS entries (
		owner_id    TEXT   NOT NULL,
		id          TEXT   NOT NULL,
		domain      TEXT   NOT NULL,
		title       TEXT   NOT NULL,
		description TEXT   NOT NULL,
		metadata    TEXT   NOT NULL,
		created_at  BIGINT NOT NULL,
		updated_at  BIGINT NOT NULL,
		PRIMARY KEY (owner_id, id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_entries_owner_created ON entries (owner_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_entries_owner_domain_created ON entries (owner_id, domain, created_at)`,
}

const entryColumns = "id, owner_id, domain, title, description, metadata, created_at, updated_at"

// SQLRepo stores entries in a relational table.
type SQLRepo struct {
	db sqlStore
}

// NewSQL creates a SQL-backed entry repository. Call Migrate before first use.
func NewSQL(s sqlStore) *SQLRepo {
	return &SQLRepo{db: s}
}

// Migrate creates the entries table and its indexes if missing.
func (r *SQLRepo) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return &db.Error{Op: db.OpMigrate, Err: err}
		}
	}
	return nil
}

// Create inserts a new entry.
func (r *SQLRepo) Create(ctx context.Context, e *domentry.Entry) error {
	meta, err := encodeMetadata(e.Metadata())
	if err != nil {
		return err
	}
	q := r.db.Rebind(`INSERT INTO entries (` + entryColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err = r.db.ExecContext(ctx, q,
		e.ID(), e.OwnerID(), e.Domain().String(), e.Title(), e.Description(), meta,
		e.CreatedAt().UnixNano(), e.UpdatedAt().UnixNano(),
	)
	if err != nil {
		return &db.Error{Op: db.OpInsert, Err: err}
	}
	return nil
}

// Get returns an entry by owner and ID.
func (r *SQLRepo) Get(ctx context.Context, ownerID, id string) (domentry.Entry, error) {
	q := r.db.Rebind(`SELECT ` + entryColumns + ` FROM entries WHERE owner_id = ? AND id = ?`)
	e, err := scanEntry(r.db.QueryRowContext(ctx, q, ownerID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domentry.Entry{}, domain.ErrEntryNotFound
		}
		return domentry.Entry{}, &db.Error{Op: db.OpSelect, Err: err}
	}
	return e, nil
}

// List returns up to limit entries, most recent first. limit <= 0 returns all.
func (r *SQLRepo) List(
	ctx context.Context, ownerID string, d *lifedomain.Domain, limit int,
) ([]domentry.Entry, error) {
	return r.query(ctx, ownerID, d, 0, limit)
}

// Page returns one page of entries with an offset cursor.
func (r *SQLRepo) Page(
	ctx context.Context, ownerID string, d *lifedomain.Domain, cursor string, limit int,
) ([]domentry.Entry, string, error) {
	if limit <= 0 {
		limit = 20
	}
	offset, err := parseCursor(cursor)
	if err != nil {
		return nil, "", err
	}

	entries, err := r.query(ctx, ownerID, d, offset, limit+1)
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

// Update rewrites the mutable columns of an existing entry.
func (r *SQLRepo) Update(ctx context.Context, e *domentry.Entry) error {
	meta, err := encodeMetadata(e.Metadata())
	if err != nil {
		return err
	}
	q := r.db.Rebind(`UPDATE entries
		SET domain = ?, title = ?, description = ?, metadata = ?, updated_at = ?
		WHERE owner_id = ? AND id = ?`)
	res, err := r.db.ExecContext(ctx, q,
		e.Domain().String(), e.Title(), e.Description(), meta, e.UpdatedAt().UnixNano(),
		e.OwnerID(), e.ID(),
	)
	if err != nil {
		return &db.Error{Op: db.OpUpdate, Err: err}
	}
	return affectedOne(res, db.OpUpdate)
}

// Delete removes an entry.
func (r *SQLRepo) Delete(ctx context.Context, ownerID, id string) error {
	q := r.db.Rebind(`DELETE FROM entries WHERE owner_id = ? AND id = ?`)
	res, err := r.db.ExecContext(ctx, q, ownerID, id)
	if err != nil {
		return &db.Error{Op: db.OpDelete, Err: err}
	}
	return affectedOne(res, db.OpDelete)
}

// Count returns the number of entries for the owner, optionally in one domain.
func (r *SQLRepo) Count(ctx context.Context, ownerID string, d *lifedomain.Domain) (int, error) {
	where, args := ownerFilter(ownerID, d)
	var n int
	err := r.db.QueryRowContext(ctx, r.db.Rebind(`SELECT COUNT(*) FROM entries WHERE `+where), args...).Scan(&n)
	if err != nil {
		return 0, &db.Error{Op: db.OpSelect, Err: err}
	}
	return n, nil
}

func (r *SQLRepo) query(
	ctx context.Context, ownerID string, d *lifedomain.Domain, offset, limit int,
) ([]domentry.Entry, error) {
	where, args := ownerFilter(ownerID, d)

	var b strings.Builder
	b.WriteString(`SELECT ` + entryColumns + ` FROM entries WHERE ` + where)
	b.WriteString(` ORDER BY created_at DESC, id DESC`)
	if limit > 0 {
		b.WriteString(` LIMIT ? OFFSET ?`)
		args = append(args, limit, offset)
	}

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(b.String()), args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	defer func() { _ = rows.Close() }()

	entries := make([]domentry.Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, &db.Error{Op: db.OpSelect, Err: err}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSelect, Err: err}
	}
	return entries, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (domentry.Entry, error) {
	var (
		id, ownerID, dom, title, description, meta string
		createdAt, updatedAt                       int64
	)
	if err := s.Scan(&id, &ownerID, &dom, &title, &description, &meta, &createdAt, &updatedAt); err != nil {
		return domentry.Entry{}, err
	}
	metadata, err := decodeMetadata(meta)
	if err != nil {
		return domentry.Entry{}, err
	}
	return domentry.Reconstruct(
		id, ownerID, lifedomain.Domain(dom), title, description, metadata,
		time.Unix(0, createdAt).UTC(), time.Unix(0, updatedAt).UTC(),
	), nil
}

func ownerFilter(ownerID string, d *lifedomain.Domain) (string, []any) {
	if d == nil {
		return `owner_id = ?`, []any{ownerID}
	}
	return `owner_id = ? AND domain = ?`, []any{ownerID, d.String()}
}

func affectedOne(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return &db.Error{Op: op, Err: err}
	}
	if n == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}
