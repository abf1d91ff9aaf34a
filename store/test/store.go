package test

import (
	"context"
	"os"
	"testing"

	"github.com/hrygo/toeicplanner/internal/profile"
	"github.com/hrygo/toeicplanner/internal/version"
	"github.com/hrygo/toeicplanner/store"
	"github.com/hrygo/toeicplanner/store/db"
)

// NewTestingStore returns a migrated store backed by the driver named in the
// DRIVER environment variable (sqlite by default).
func NewTestingStore(ctx context.Context, t *testing.T) *store.Store {
	t.Helper()

	profile := getTestingProfile(t)
	dbDriver, err := db.NewDBDriver(ctx, profile)
	if err != nil {
		t.Fatalf("failed to create db driver: %v", err)
	}

	ts := store.New(dbDriver, profile)
	if err := ts.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	t.Cleanup(func() {
		ts.Close()
	})
	return ts
}

func getTestingProfile(t *testing.T) *profile.Profile {
	driver := getDriverFromEnv()
	p := &profile.Profile{
		Mode:        "prod",
		Data:        t.TempDir(),
		Driver:      driver,
		Version:     version.GetCurrentVersion("prod"),
		DefaultUser: "default",
		Timezone:    "UTC",
	}
	switch driver {
	case profile.DriverPostgres:
		p.DSN = GetPostgresDSN(t)
	case profile.DriverSQLite:
		p.DSN = p.Data + "/toeicplanner_test.db"
	}
	return p
}

func getDriverFromEnv() string {
	driver := os.Getenv("DRIVER")
	if driver == "" {
		driver = profile.DriverSQLite
	}
	return driver
}
