// Package store provides CRUD access to games, players, and rosters
// through the query execution bridge. Entities are mutable in place and
// hard-deleted; every entity carries a time-ordered snowflake alongside
// its internal sequential key.
package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pinebranch-games/tally/internal/bridge"
)

// Store executes entity operations over the bridge. It holds no entity
// state of its own.
type Store struct {
	bridge *bridge.Bridge
}

// New creates a Store over the given bridge.
func New(b *bridge.Bridge) *Store {
	return &Store{bridge: b}
}

// Tuple value helpers. The bridge delivers positional values typed by
// the channel (int64 for INTEGER, string for TEXT, nil for NULL).

func tupleString(v any) string {
	s, _ := v.(string)
	return s
}

func tupleInt64(v any) int64 {
	n, _ := v.(int64)
	return n
}

func tupleTime(v any) time.Time {
	t, err := time.Parse(time.RFC3339, tupleString(v))
	if err != nil {
		return time.Time{}
	}
	return t
}

// marshalBlob encodes a JSON attribute blob for storage. A nil map is
// stored as NULL.
func marshalBlob(m map[string]any) (any, error) {
	if m == nil {
		return nil, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encoding attribute blob: %w", err)
	}
	return string(data), nil
}

func unmarshalBlob(v any) (map[string]any, error) {
	s := tupleString(v)
	if s == "" {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, fmt.Errorf("parsing attribute blob: %w", err)
	}
	return m, nil
}

// marshalList encodes a snowflake list for storage. A nil list is stored
// as an empty JSON array, never NULL, so list columns always parse.
func marshalList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("encoding list: %w", err)
	}
	return string(data), nil
}

func unmarshalList(v any) ([]string, error) {
	s := tupleString(v)
	if s == "" {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal([]byte(s), &list); err != nil {
		return nil, fmt.Errorf("parsing list: %w", err)
	}
	return list, nil
}

// now returns the timestamp written to created_at/updated_at columns.
func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
