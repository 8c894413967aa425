package sqldb

import (
	"context"
	"testing"
)

// OpenMemory opens an in-memory SQLite database closed on test cleanup.
func OpenMemory(tb testing.TB) *DB {
	tb.Helper()
	db, err := Open(context.Background(), SQLite, ":memory:", Options{})
	if err != nil {
		tb.Fatalf("sqldb.OpenMemory: %v", err)
	}
	tb.Cleanup(db.Close)
	return db
}
