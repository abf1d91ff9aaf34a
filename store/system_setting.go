package store

import (
	"context"
)

// SystemSettingSchemaVersionName is the setting holding the applied schema version.
const SystemSettingSchemaVersionName = "schema_version"

// SystemSetting is an instance-wide setting.
type SystemSetting struct {
	Name  string
	Value string
}

// FindSystemSetting is the find condition for system settings.
type FindSystemSetting struct {
	Name string
}

func (s *Store) UpsertSystemSetting(ctx context.Context, upsert *SystemSetting) (*SystemSetting, error) {
	return s.driver.UpsertSystemSetting(ctx, upsert)
}

func (s *Store) ListSystemSettings(ctx context.Context, find *FindSystemSetting) ([]*SystemSetting, error) {
	return s.driver.ListSystemSettings(ctx, find)
}

// GetSystemSetting returns the setting, or nil when it does not exist.
func (s *Store) GetSystemSetting(ctx context.Context, find *FindSystemSetting) (*SystemSetting, error) {
	list, err := s.driver.ListSystemSettings(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}
