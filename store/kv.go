package store

import (
	"context"
)

// KeyValue is a small per-owner string entry, used for client-side style preferences
// such as the encouragement message history.
type KeyValue struct {
	OwnerID string
	Key     string
	Value   string
}

// FindKeyValue is the find condition for key-value entries.
type FindKeyValue struct {
	OwnerID string
	Key     string
}

// DeleteKeyValue is the delete request for key-value entries.
type DeleteKeyValue struct {
	OwnerID string
	Key     string
}

// GetKeyValue returns the entry, or nil when it does not exist.
func (s *Store) GetKeyValue(ctx context.Context, find *FindKeyValue) (*KeyValue, error) {
	return s.driver.GetKeyValue(ctx, find)
}

// UpsertKeyValue creates or replaces an entry.
func (s *Store) UpsertKeyValue(ctx context.Context, upsert *KeyValue) (*KeyValue, error) {
	return s.driver.UpsertKeyValue(ctx, upsert)
}

// DeleteKeyValue removes an entry. Deleting a missing entry is not an error.
func (s *Store) DeleteKeyValue(ctx context.Context, delete *DeleteKeyValue) error {
	return s.driver.DeleteKeyValue(ctx, delete)
}

// OwnerKeyValue exposes the key-value entries of a single owner with
// getItem/setItem/removeItem semantics.
type OwnerKeyValue struct {
	store   *Store
	ownerID string
}

// KeyValueFor returns the key-value view of an owner.
func (s *Store) KeyValueFor(ownerID string) *OwnerKeyValue {
	return &OwnerKeyValue{store: s, ownerID: ownerID}
}

// GetItem returns the value and whether the key exists.
func (kv *OwnerKeyValue) GetItem(ctx context.Context, key string) (string, bool, error) {
	entry, err := kv.store.GetKeyValue(ctx, &FindKeyValue{OwnerID: kv.ownerID, Key: key})
	if err != nil {
		return "", false, err
	}
	if entry == nil {
		return "", false, nil
	}
	return entry.Value, true, nil
}

// SetItem stores value under key.
func (kv *OwnerKeyValue) SetItem(ctx context.Context, key, value string) error {
	_, err := kv.store.UpsertKeyValue(ctx, &KeyValue{OwnerID: kv.ownerID, Key: key, Value: value})
	return err
}

// RemoveItem deletes key.
func (kv *OwnerKeyValue) RemoveItem(ctx context.Context, key string) error {
	return kv.store.DeleteKeyValue(ctx, &DeleteKeyValue{OwnerID: kv.ownerID, Key: key})
}
