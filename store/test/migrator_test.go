package test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hrygo/toeicplanner/store"
)

func TestGetCurrentSchemaVersion(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	currentSchemaVersion, err := ts.GetCurrentSchemaVersion()
	require.NoError(t, err)
	require.Equal(t, "0.2.1", currentSchemaVersion)
}

func TestMigrateRecordsSchemaVersion(t *testing.T) {
	ctx := context.Background()
	ts := NewTestingStore(ctx, t)

	setting, err := ts.GetSystemSetting(ctx, &store.FindSystemSetting{Name: store.SystemSettingSchemaVersionName})
	require.NoError(t, err)
	require.NotNil(t, setting)
	require.Equal(t, "0.2.1", setting.Value)

	// Migrating twice is a no-op.
	require.NoError(t, ts.Migrate(ctx))
	setting, err = ts.GetSystemSetting(ctx, &store.FindSystemSetting{Name: store.SystemSettingSchemaVersionName})
	require.NoError(t, err)
	require.Equal(t, "0.2.1", setting.Value)
}
