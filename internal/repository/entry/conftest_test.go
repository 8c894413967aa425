package entry

import (
	"context"
	"testing"
	"time"

	"github.com/kailas-cloud/docintel/internal/db"
	domentry "github.com/kailas-cloud/docintel/internal/domain/entry"
	"github.com/kailas-cloud/docintel/internal/domain/lifedomain"
)

// mockStore is an in-memory kvStore with sorted-set semantics close enough for repo tests.
type mockStore struct {
	values map[string][]byte
	zsets  map[string]map[string]float64

	getErr    error
	setErr    error
	rangeErr  error
	setCalls  []db.IndexedItem
	delCalls  []string
	zremCalls []string
}

func newMockStore() *mockStore {
	return &mockStore{values: map[string][]byte{}, zsets: map[string]map[string]float64{}}
}

func (m *mockStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.values[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockStore) MGet(_ context.Context, keys []string) ([][]byte, error) {
	out := make([][]byte, len(keys))
	for i, k := range keys {
		out[i] = m.values[k]
	}
	return out, nil
}

func (m *mockStore) SetIndexed(_ context.Context, item db.IndexedItem) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.setCalls = append(m.setCalls, item)
	m.values[item.Key] = item.Value
	for _, z := range item.Indexes {
		if m.zsets[z.Key] == nil {
			m.zsets[z.Key] = map[string]float64{}
		}
		m.zsets[z.Key][z.Member] = z.Score
	}
	return nil
}

func (m *mockStore) DelIndexed(_ context.Context, key string, indexes []db.ZEntry) error {
	m.delCalls = append(m.delCalls, key)
	delete(m.values, key)
	for _, z := range indexes {
		delete(m.zsets[z.Key], z.Member)
	}
	return nil
}

func (m *mockStore) ZRem(_ context.Context, key, member string) error {
	m.zremCalls = append(m.zremCalls, key)
	delete(m.zsets[key], member)
	return nil
}

func (m *mockStore) ZRevRange(_ context.Context, key string, start, stop int64) ([]string, error) {
	if m.rangeErr != nil {
		return nil, m.rangeErr
	}
	set := m.zsets[key]
	members := make([]string, 0, len(set))
	for member := range set {
		members = append(members, member)
	}
	// descending score, ties by descending member like Redis
	for i := 1; i < len(members); i++ {
		for j := i; j > 0; j-- {
			a, b := members[j-1], members[j]
			if set[a] > set[b] || (set[a] == set[b] && a > b) {
				break
			}
			members[j-1], members[j] = b, a
		}
	}
	n := int64(len(members))
	if stop < 0 || stop >= n {
		stop = n - 1
	}
	if start >= n || start > stop {
		return []string{}, nil
	}
	return members[start : stop+1], nil
}

func (m *mockStore) ZCard(_ context.Context, key string) (int64, error) {
	return int64(len(m.zsets[key])), nil
}

var baseTime = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func testEntry(t *testing.T, id string, d lifedomain.Domain, minutes int) domentry.Entry {
	t.Helper()
	e, err := domentry.New(id, "user-1", d, "Entry "+id, "body of "+id,
		map[string]any{domentry.MetaDocumentType: "receipt", "amount": "42.00"},
		baseTime.Add(time.Duration(minutes)*time.Minute),
	)
	if err != nil {
		t.Fatalf("entry.New: %v", err)
	}
	return e
}

func ids(entries []domentry.Entry) []string {
	out := make([]string, len(entries))
	for i := range entries {
		out[i] = entries[i].ID()
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
