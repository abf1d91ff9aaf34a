package firestore

import (
	"context"
	"fmt"

	"github.com/hrygo/toeicplanner/store"
)

type valueDocument struct {
	Value string `firestore:"value"`
}

func (d *DB) GetKeyValue(ctx context.Context, find *store.FindKeyValue) (*store.KeyValue, error) {
	snapshot, err := d.owner(find.OwnerID).Collection(kvCollection).Doc(find.Key).Get(ctx)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key value: %w", err)
	}
	var doc valueDocument
	if err := snapshot.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode key value: %w", err)
	}
	return &store.KeyValue{OwnerID: find.OwnerID, Key: find.Key, Value: doc.Value}, nil
}

func (d *DB) UpsertKeyValue(ctx context.Context, upsert *store.KeyValue) (*store.KeyValue, error) {
	if _, err := d.owner(upsert.OwnerID).Collection(kvCollection).Doc(upsert.Key).Set(ctx, valueDocument{Value: upsert.Value}); err != nil {
		return nil, fmt.Errorf("failed to upsert key value: %w", err)
	}
	return upsert, nil
}

func (d *DB) DeleteKeyValue(ctx context.Context, delete *store.DeleteKeyValue) error {
	// Deleting a missing document succeeds in Firestore.
	if _, err := d.owner(delete.OwnerID).Collection(kvCollection).Doc(delete.Key).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete key value: %w", err)
	}
	return nil
}

func (d *DB) UpsertSystemSetting(ctx context.Context, upsert *store.SystemSetting) (*store.SystemSetting, error) {
	if _, err := d.client.Collection(systemCollection).Doc(upsert.Name).Set(ctx, valueDocument{Value: upsert.Value}); err != nil {
		return nil, fmt.Errorf("failed to upsert system setting: %w", err)
	}
	return upsert, nil
}

func (d *DB) ListSystemSettings(ctx context.Context, find *store.FindSystemSetting) ([]*store.SystemSetting, error) {
	list := []*store.SystemSetting{}
	if find.Name != "" {
		snapshot, err := d.client.Collection(systemCollection).Doc(find.Name).Get(ctx)
		if isNotFound(err) {
			return list, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get system setting: %w", err)
		}
		var doc valueDocument
		if err := snapshot.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode system setting: %w", err)
		}
		return append(list, &store.SystemSetting{Name: find.Name, Value: doc.Value}), nil
	}

	snapshots, err := d.client.Collection(systemCollection).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list system settings: %w", err)
	}
	for _, snapshot := range snapshots {
		var doc valueDocument
		if err := snapshot.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode system setting %s: %w", snapshot.Ref.ID, err)
		}
		list = append(list, &store.SystemSetting{Name: snapshot.Ref.ID, Value: doc.Value})
	}
	return list, nil
}
