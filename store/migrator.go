package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/hrygo/toeicplanner/internal/version"
)

// Migration System Overview:
//
// Schema version is stored in system_setting (name = schema_version).
//
// 1. preMigrate: if the database is not initialized, apply LATEST.sql and record the
//    current schema version.
// 2. Migrate (prod mode): apply the versioned patches between the recorded and the
//    current schema version, in one transaction.
// 3. Migrate (demo mode): seed the default owner with sample tasks.
//
// Migration files live in migration/{driver}/{major.minor}/NN__description.sql and
// resolve to schema version major.minor.NN. Drivers without a SQL handle (firestore,
// memory) have no schema; only the version is recorded.

//go:embed migration
var migrationFS embed.FS

const (
	// MigrateFileNameSplit is the split character between the patch version and the description in the migration file name.
	MigrateFileNameSplit = "__"
	// LatestSchemaFileName is the name of the latest schema file.
	LatestSchemaFileName = "LATEST.sql"

	defaultSchemaVersion = "0.0.0"

	modeProd = "prod"
	modeDemo = "demo"
)

func getSchemaVersionOrDefault(schemaVersion string) string {
	if schemaVersion == "" {
		return defaultSchemaVersion
	}
	return schemaVersion
}

func shouldApplyMigration(fileVersion, currentDBVersion, targetVersion string) bool {
	currentDBVersionSafe := getSchemaVersionOrDefault(currentDBVersion)
	return version.IsVersionGreaterThan(fileVersion, currentDBVersionSafe) &&
		version.IsVersionGreaterOrEqualThan(targetVersion, fileVersion)
}

// Migrate migrates the database schema to the latest version.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.preMigrate(ctx); err != nil {
		return errors.Wrap(err, "failed to pre-migrate")
	}

	switch s.profile.Mode {
	case modeProd:
		recorded, err := s.getRecordedSchemaVersion(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to get recorded schema version")
		}
		current, err := s.GetCurrentSchemaVersion()
		if err != nil {
			return errors.Wrap(err, "failed to get current schema version")
		}
		if recorded != "" && version.IsVersionGreaterThan(recorded, current) {
			slog.Error("cannot downgrade schema version",
				slog.String("databaseVersion", recorded),
				slog.String("currentVersion", current),
			)
			return errors.Errorf("cannot downgrade schema version from %s to %s", recorded, current)
		}
		if recorded == "" || version.IsVersionGreaterThan(current, recorded) {
			if err := s.applyMigrations(ctx, recorded, current); err != nil {
				return errors.Wrap(err, "failed to apply migrations")
			}
		}
	case modeDemo:
		if err := s.seed(ctx); err != nil {
			return errors.Wrap(err, "failed to seed")
		}
	default:
	}
	return nil
}

func (s *Store) preMigrate(ctx context.Context) error {
	initialized, err := s.driver.IsInitialized(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to check if database is initialized")
	}
	if initialized {
		return nil
	}

	if db := s.driver.GetDB(); db != nil {
		filePath := s.getMigrationBasePath() + LatestSchemaFileName
		bytes, err := migrationFS.ReadFile(filePath)
		if err != nil {
			return errors.Wrapf(err, "failed to read latest schema file: %s", filePath)
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return errors.Wrap(err, "failed to start transaction")
		}
		defer tx.Rollback()

		if err := s.execute(ctx, tx, string(bytes)); err != nil {
			return errors.Wrapf(err, "failed to execute SQL file %s", filePath)
		}
		if err := tx.Commit(); err != nil {
			return errors.Wrap(err, "failed to commit transaction")
		}
	}

	schemaVersion, err := s.GetCurrentSchemaVersion()
	if err != nil {
		return errors.Wrap(err, "failed to get current schema version")
	}
	if err := s.updateSchemaVersion(ctx, schemaVersion); err != nil {
		return errors.Wrap(err, "failed to update schema version")
	}
	slog.Info("database initialized", slog.String("driver", s.profile.Driver), slog.String("schemaVersion", schemaVersion))
	return nil
}

// applyMigrations applies the migration files between current and target schema versions
// in a single transaction.
func (s *Store) applyMigrations(ctx context.Context, currentSchemaVersion, targetSchemaVersion string) error {
	db := s.driver.GetDB()
	if db == nil {
		return s.updateSchemaVersion(ctx, targetSchemaVersion)
	}

	filePaths, err := fs.Glob(migrationFS, fmt.Sprintf("%s*/*.sql", s.getMigrationBasePath()))
	if err != nil {
		return errors.Wrap(err, "failed to read migration files")
	}
	versions := make(map[string]string, len(filePaths))
	for _, filePath := range filePaths {
		fileVersion, err := s.getSchemaVersionOfMigrateScript(filePath)
		if err != nil {
			return errors.Wrap(err, "failed to get schema version of migrate script")
		}
		versions[filePath] = fileVersion
	}
	sort.SliceStable(filePaths, func(i, j int) bool {
		return version.IsVersionGreaterThan(versions[filePaths[j]], versions[filePaths[i]])
	})

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to start transaction")
	}
	defer tx.Rollback()

	slog.Info("start migration",
		slog.String("currentSchemaVersion", getSchemaVersionOrDefault(currentSchemaVersion)),
		slog.String("targetSchemaVersion", targetSchemaVersion))

	migrationsApplied := 0
	for _, filePath := range filePaths {
		fileSchemaVersion := versions[filePath]
		if !shouldApplyMigration(fileSchemaVersion, currentSchemaVersion, targetSchemaVersion) {
			continue
		}

		slog.Info("applying migration",
			slog.String("file", filePath),
			slog.String("version", fileSchemaVersion))

		bytes, err := migrationFS.ReadFile(filePath)
		if err != nil {
			return errors.Wrapf(err, "failed to read migration file: %s", filePath)
		}
		if err := s.execute(ctx, tx, string(bytes)); err != nil {
			return errors.Wrapf(err, "failed to execute migration %s", filePath)
		}
		migrationsApplied++
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit migration transaction")
	}

	slog.Info("migration completed", slog.Int("migrationsApplied", migrationsApplied))

	return s.updateSchemaVersion(ctx, targetSchemaVersion)
}

// seed creates sample tasks for the default owner when it has none.
func (s *Store) seed(ctx context.Context) error {
	ownerID := s.profile.DefaultUser
	if ownerID == "" {
		ownerID = "default"
	}
	existing, err := s.ListTasks(ctx, &FindTask{OwnerID: &ownerID})
	if err != nil {
		return errors.Wrap(err, "failed to list tasks")
	}
	if len(existing) > 0 {
		return nil
	}

	now := time.Now()
	samples := []struct {
		title    string
		category TaskCategory
		offset   int
	}{
		{"Part 5 短文穴埋め 30問", CategoryGrammar, 0},
		{"Part 2 応答問題 25問", CategoryListening, 0},
		{"金のフレーズ 100語", CategoryVocabulary, 1},
		{"Part 7 長文読解 2セット", CategoryReading, 2},
		{"公式問題集 模試1回分", CategoryMockTest, 6},
	}
	for i, sample := range samples {
		if _, err := s.CreateTask(ctx, &Task{
			ID:        fmt.Sprintf("demo-%d", i+1),
			OwnerID:   ownerID,
			Title:     sample.title,
			Category:  sample.category,
			DueDate:   now.AddDate(0, 0, sample.offset).Format(DueDateLayout),
			CreatedTs: now.Unix(),
			UpdatedTs: now.Unix(),
		}); err != nil {
			return errors.Wrapf(err, "failed to seed task %q", sample.title)
		}
	}
	return nil
}

func (s *Store) getMigrationBasePath() string {
	return fmt.Sprintf("migration/%s/", s.profile.Driver)
}

// GetCurrentSchemaVersion returns the schema version this build expects.
func (s *Store) GetCurrentSchemaVersion() (string, error) {
	currentVersion := version.GetCurrentVersion(s.profile.Mode)
	minorVersion := version.GetMinorVersion(currentVersion)
	filePaths, err := fs.Glob(migrationFS, fmt.Sprintf("%s%s/*.sql", s.getMigrationBasePath(), minorVersion))
	if err != nil {
		return "", errors.Wrap(err, "failed to read migration files")
	}

	sort.Strings(filePaths)
	if len(filePaths) == 0 {
		return fmt.Sprintf("%s.0", minorVersion), nil
	}
	return s.getSchemaVersionOfMigrateScript(filePaths[len(filePaths)-1])
}

// getSchemaVersionOfMigrateScript extracts "major.minor.patch" from a migration file path.
func (s *Store) getSchemaVersionOfMigrateScript(filePath string) (string, error) {
	if strings.HasSuffix(filePath, LatestSchemaFileName) {
		return s.GetCurrentSchemaVersion()
	}

	normalizedPath := filepath.ToSlash(filePath)
	elements := strings.Split(normalizedPath, "/")
	if len(elements) < 2 {
		return "", errors.Errorf("invalid file path: %s", filePath)
	}
	minorVersion := elements[len(elements)-2]
	rawPatchVersion := strings.Split(elements[len(elements)-1], MigrateFileNameSplit)[0]
	patchVersion, err := strconv.Atoi(rawPatchVersion)
	if err != nil {
		return "", errors.Wrapf(err, "failed to convert patch version to int: %s", rawPatchVersion)
	}
	return fmt.Sprintf("%s.%d", minorVersion, patchVersion), nil
}

func (s *Store) getRecordedSchemaVersion(ctx context.Context) (string, error) {
	setting, err := s.GetSystemSetting(ctx, &FindSystemSetting{Name: SystemSettingSchemaVersionName})
	if err != nil {
		return "", err
	}
	if setting == nil {
		return "", nil
	}
	return setting.Value, nil
}

func (s *Store) updateSchemaVersion(ctx context.Context, schemaVersion string) error {
	_, err := s.UpsertSystemSetting(ctx, &SystemSetting{
		Name:  SystemSettingSchemaVersionName,
		Value: schemaVersion,
	})
	return err
}

// execute runs a multi-statement SQL script inside tx, one statement at a time.
func (s *Store) execute(ctx context.Context, tx *sql.Tx, script string) error {
	for i, stmt := range splitSQL(script) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "failed to execute statement %d: %s", i+1, stmt)
		}
	}
	return nil
}

// splitSQL splits a script on statement-terminating semicolons, dropping
// line comments. Semicolons inside single-quoted strings are kept.
func splitSQL(script string) []string {
	var (
		statements []string
		current    strings.Builder
	)
	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		inQuote := false
		for _, ch := range line {
			switch {
			case ch == '\'':
				inQuote = !inQuote
				current.WriteRune(ch)
			case ch == ';' && !inQuote:
				if stmt := strings.TrimSpace(current.String()); stmt != "" {
					statements = append(statements, stmt)
				}
				current.Reset()
			default:
				current.WriteRune(ch)
			}
		}
		current.WriteString("\n")
	}
	if stmt := strings.TrimSpace(current.String()); stmt != "" {
		statements = append(statements, stmt)
	}
	return statements
}
