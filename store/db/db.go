package db

import (
	"context"

	"github.com/pkg/errors"

	"github.com/hrygo/toeicplanner/internal/profile"
	"github.com/hrygo/toeicplanner/store"
	"github.com/hrygo/toeicplanner/store/db/firestore"
	"github.com/hrygo/toeicplanner/store/db/memory"
	"github.com/hrygo/toeicplanner/store/db/postgres"
	"github.com/hrygo/toeicplanner/store/db/sqlite"
)

// ============================================================================
// DATABASE SUPPORT POLICY
// ============================================================================
// SQLite: default, single user, also used by the test suite.
// PostgreSQL: shared server deployments.
// Firestore: hosted deployments, users/{uid}/... document layout.
// Memory: tests and throwaway demos.
//
// Every driver implements the full store.Driver interface.
// ============================================================================

// NewDBDriver creates new db driver based on profile.
func NewDBDriver(ctx context.Context, profile *profile.Profile) (store.Driver, error) {
	var driver store.Driver
	var err error

	switch profile.Driver {
	case "sqlite":
		driver, err = sqlite.NewDB(profile)
	case "postgres":
		driver, err = postgres.NewDB(profile)
	case "firestore":
		driver, err = firestore.NewDB(ctx, profile)
	case "memory":
		driver = memory.NewDB()
	default:
		return nil, errors.Errorf("unknown db driver %q: supported drivers are sqlite, postgres, firestore and memory", profile.Driver)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to create db driver")
	}
	return driver, nil
}
