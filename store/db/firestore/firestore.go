package firestore

import (
	"context"
	"database/sql"
	"log/slog"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hrygo/toeicplanner/internal/profile"
	"github.com/hrygo/toeicplanner/store"
)

// ============================================================================
// FIRESTORE SUPPORT (Hosted)
// ============================================================================
// Document layout, one subtree per owner:
//
//	users/{ownerID}/tasks/{taskID}
//	users/{ownerID}/profile/goals
//	users/{ownerID}/kv/{key}
//	system/{name}
//
// There is no SQL schema; the migrator only records the schema version.
// ============================================================================

const (
	usersCollection   = "users"
	tasksCollection   = "tasks"
	profileCollection = "profile"
	goalsDocument     = "goals"
	kvCollection      = "kv"
	systemCollection  = "system"
)

type DB struct {
	client  *firestore.Client
	profile *profile.Profile
}

// NewDB connects to the Firestore database of the configured project.
func NewDB(ctx context.Context, profile *profile.Profile) (store.Driver, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}

	opts := []option.ClientOption{}
	if profile.FirestoreCredentials != "" {
		opts = append(opts, option.WithCredentialsFile(profile.FirestoreCredentials))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: profile.FirestoreProjectID}, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize firebase app")
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get firestore client")
	}

	slog.Info("firestore initialized", slog.String("project", profile.FirestoreProjectID))

	var driver store.Driver = &DB{
		client:  client,
		profile: profile,
	}
	return driver, nil
}

// GetDB returns nil: Firestore is not a SQL database.
func (d *DB) GetDB() *sql.DB {
	return nil
}

func (d *DB) Close() error {
	return d.client.Close()
}

func (d *DB) IsInitialized(ctx context.Context) (bool, error) {
	_, err := d.client.Collection(systemCollection).Doc(store.SystemSettingSchemaVersionName).Get(ctx)
	if isNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "failed to check if database is initialized")
	}
	return true, nil
}

func (d *DB) owner(ownerID string) *firestore.DocumentRef {
	return d.client.Collection(usersCollection).Doc(ownerID)
}

func (d *DB) tasks(ownerID string) *firestore.CollectionRef {
	return d.owner(ownerID).Collection(tasksCollection)
}

func isNotFound(err error) bool {
	return err != nil && status.Code(err) == codes.NotFound
}
