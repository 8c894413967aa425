package entry

import (
	"encoding/json"
	"fmt"
	"time"

	domentry "github.com/kailas-cloud/docintel/internal/domain/entry"
	"github.com/kailas-cloud/docintel/internal/domain/lifedomain"
)

// record is the stored shape of an entry. Timestamps are unix nanoseconds.
type record struct {
	ID          string         `json:"id"`
	OwnerID     string         `json:"owner_id"`
	Domain      string         `json:"domain"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   int64          `json:"created_at"`
	UpdatedAt   int64          `json:"updated_at"`
}

func toRecord(e *domentry.Entry) record {
	return record{
		ID:          e.ID(),
		OwnerID:     e.OwnerID(),
		Domain:      e.Domain().String(),
		Title:       e.Title(),
		Description: e.Description(),
		Metadata:    e.Metadata(),
		CreatedAt:   e.CreatedAt().UnixNano(),
		UpdatedAt:   e.UpdatedAt().UnixNano(),
	}
}

func (r record) toEntry() domentry.Entry {
	meta := r.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	return domentry.Reconstruct(
		r.ID, r.OwnerID, lifedomain.Domain(r.Domain), r.Title, r.Description, meta,
		time.Unix(0, r.CreatedAt).UTC(), time.Unix(0, r.UpdatedAt).UTC(),
	)
}

func encodeEntry(e *domentry.Entry) ([]byte, error) {
	data, err := json.Marshal(toRecord(e))
	if err != nil {
		return nil, fmt.Errorf("marshal entry: %w", err)
	}
	return data, nil
}

func decodeEntry(data []byte) (domentry.Entry, error) {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return domentry.Entry{}, fmt.Errorf("unmarshal entry: %w", err)
	}
	return r.toEntry(), nil
}

func encodeMetadata(meta map[string]any) (string, error) {
	if len(meta) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("marshal metadata: %w", err)
	}
	return string(data), nil
}

func decodeMetadata(s string) (map[string]any, error) {
	meta := map[string]any{}
	if s == "" {
		return meta, nil
	}
	if err := json.Unmarshal([]byte(s), &meta); err != nil {
		return nil, fmt.Errorf("unmarshal metadata: %w", err)
	}
	return meta, nil
}
