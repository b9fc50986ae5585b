// Package store provides durable key/value persistence for screening records
// with bounded recency indices. Two interchangeable backends implement the KV
// contract: a PostgreSQL table and a local JSON snapshot file. The store is
// last-write-wins with no optimistic locking; at this system's scale there is
// almost always a single writer per record.
package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Kind identifies a top-level record type.
type Kind string

// Record kinds persisted by the platform.
const (
	KindRole    Kind = "role"
	KindSession Kind = "candidate_session"
)

// IndexCap bounds every recency list.
const IndexCap = 25

// KV is the raw persistence contract shared by both backends.
type KV interface {
	// Get returns the value for key; found is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	// Put upserts the value for key. Last write wins.
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// Store layers record and recency-index semantics over a KV backend.
type Store struct {
	kv KV
}

// New creates a Store over the given backend.
func New(kv KV) *Store {
	return &Store{kv: kv}
}

func recordKey(kind Kind, id string) string {
	return fmt.Sprintf("%s:%s", kind, id)
}

func indexKey(kind Kind, scope string) string {
	if scope == "" {
		return fmt.Sprintf("recent:%s", kind)
	}
	return fmt.Sprintf("recent:%s:%s", kind, scope)
}

// Put upserts a record. When indexed is true, the id is prepended to the
// global recency list for the kind plus one list per extra scope, deduplicated
// and truncated to IndexCap. Updates to existing records must pass
// indexed=false so list order stays by creation, not by last edit.
func Put[T any](ctx context.Context, s *Store, kind Kind, id string, record T, indexed bool, scopes ...string) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal %s %s: %w", kind, id, err)
	}
	if err := s.kv.Put(ctx, recordKey(kind, id), data); err != nil {
		return err
	}
	if !indexed {
		return nil
	}
	if err := s.pushIndex(ctx, indexKey(kind, ""), id); err != nil {
		return err
	}
	for _, scope := range scopes {
		if err := s.pushIndex(ctx, indexKey(kind, scope), id); err != nil {
			return err
		}
	}
	return nil
}

// Get fetches a record by id. Returns (nil, nil) when it does not exist.
func Get[T any](ctx context.Context, s *Store, kind Kind, id string) (*T, error) {
	data, found, err := s.kv.Get(ctx, recordKey(kind, id))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	var record T
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s %s: %w", kind, id, err)
	}
	return &record, nil
}

// Update applies mutate to the stored record in a read-modify-write cycle.
// Returns (nil, nil) when the record does not exist. The rewrite never
// re-indexes, preserving the original recency-list ordering.
func Update[T any](ctx context.Context, s *Store, kind Kind, id string, mutate func(*T)) (*T, error) {
	record, err := Get[T](ctx, s, kind, id)
	if err != nil || record == nil {
		return nil, err
	}
	mutate(record)
	if err := Put(ctx, s, kind, id, *record, false); err != nil {
		return nil, err
	}
	return record, nil
}

// ListRecent returns up to limit most-recently-indexed records for a kind,
// optionally scoped. Ids whose underlying record has vanished are skipped.
func ListRecent[T any](ctx context.Context, s *Store, kind Kind, limit int, scope string) ([]T, error) {
	ids, err := s.indexIDs(ctx, indexKey(kind, scope))
	if err != nil {
		return nil, err
	}
	records := make([]T, 0, limit)
	for _, id := range ids {
		if len(records) >= limit {
			break
		}
		record, err := Get[T](ctx, s, kind, id)
		if err != nil {
			return nil, err
		}
		if record == nil {
			continue
		}
		records = append(records, *record)
	}
	return records, nil
}

// Delete removes a record. Stale index entries are tolerated; ListRecent
// filters them out.
func (s *Store) Delete(ctx context.Context, kind Kind, id string) error {
	return s.kv.Delete(ctx, recordKey(kind, id))
}

func (s *Store) indexIDs(ctx context.Context, key string) ([]string, error) {
	data, found, err := s.kv.Get(ctx, key)
	if err != nil || !found {
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("failed to unmarshal index %s: %w", key, err)
	}
	return ids, nil
}

func (s *Store) pushIndex(ctx context.Context, key, id string) error {
	ids, err := s.indexIDs(ctx, key)
	if err != nil {
		return err
	}
	next := make([]string, 0, len(ids)+1)
	next = append(next, id)
	for _, existing := range ids {
		if existing == id {
			continue
		}
		next = append(next, existing)
	}
	if len(next) > IndexCap {
		next = next[:IndexCap]
	}
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to marshal index %s: %w", key, err)
	}
	return s.kv.Put(ctx, key, data)
}

// RoleScope returns the per-role index scope for session records.
func RoleScope(roleID string) string {
	return "role:" + roleID
}
