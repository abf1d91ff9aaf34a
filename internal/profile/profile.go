package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Supported database drivers.
const (
	DriverSQLite    = "sqlite"
	DriverPostgres  = "postgres"
	DriverFirestore = "firestore"
	DriverMemory    = "memory"
)

// Profile is the configuration to start main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where toeicplanner stores its own data
	DSN string
	// Driver is the database driver (sqlite, postgres, firestore or memory)
	Driver string
	// Version is the current version of server
	Version string
	// InstanceURL is the public url of the instance, used for feed links.
	InstanceURL string

	// DefaultUser owns requests that carry no X-User-ID header.
	DefaultUser string // TOEIC_DEFAULT_USER (default: default)
	// Timezone is the IANA zone used to decide "today".
	Timezone string // TOEIC_TIMEZONE (default: Local)

	// Firestore configuration
	FirestoreProjectID   string // TOEIC_FIRESTORE_PROJECT_ID
	FirestoreCredentials string // TOEIC_FIRESTORE_CREDENTIALS (service account json path)

	// Background jobs and limits
	DigestSchedule string  // TOEIC_DIGEST_SCHEDULE (default: "0 7 * * *", empty disables)
	RateLimit      float64 // TOEIC_RATE_LIMIT requests per second per owner (default: 10)
	RateBurst      int     // TOEIC_RATE_BURST (default: 20)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// Location returns the configured timezone, falling back to the local zone.
func (p *Profile) Location() *time.Location {
	if p.Timezone == "" || p.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads the optional settings from TOEIC_* environment variables.
// Values already set on the profile win over defaults but not over the environment.
func (p *Profile) FromEnv() {
	p.DefaultUser = getEnvOrDefault("TOEIC_DEFAULT_USER", firstNonEmpty(p.DefaultUser, "default"))
	p.Timezone = getEnvOrDefault("TOEIC_TIMEZONE", firstNonEmpty(p.Timezone, "Local"))
	p.InstanceURL = getEnvOrDefault("TOEIC_INSTANCE_URL", p.InstanceURL)
	p.FirestoreProjectID = getEnvOrDefault("TOEIC_FIRESTORE_PROJECT_ID", p.FirestoreProjectID)
	p.FirestoreCredentials = getEnvOrDefault("TOEIC_FIRESTORE_CREDENTIALS", p.FirestoreCredentials)

	if value, ok := os.LookupEnv("TOEIC_DIGEST_SCHEDULE"); ok {
		p.DigestSchedule = value
	} else if p.DigestSchedule == "" {
		p.DigestSchedule = "0 7 * * *"
	}

	p.RateLimit = 10
	if value := os.Getenv("TOEIC_RATE_LIMIT"); value != "" {
		if limit, err := strconv.ParseFloat(value, 64); err == nil && limit > 0 {
			p.RateLimit = limit
		} else {
			slog.Warn("ignoring invalid TOEIC_RATE_LIMIT", slog.String("value", value))
		}
	}
	p.RateBurst = 20
	if value := os.Getenv("TOEIC_RATE_BURST"); value != "" {
		if burst, err := strconv.Atoi(value); err == nil && burst > 0 {
			p.RateBurst = burst
		} else {
			slog.Warn("ignoring invalid TOEIC_RATE_BURST", slog.String("value", value))
		}
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	switch p.Driver {
	case DriverSQLite, DriverPostgres, DriverFirestore, DriverMemory:
	case "":
		p.Driver = DriverSQLite
	default:
		return errors.Errorf("unknown driver %q", p.Driver)
	}

	if p.Timezone != "" && p.Timezone != "Local" {
		if _, err := time.LoadLocation(p.Timezone); err != nil {
			return errors.Wrapf(err, "invalid timezone %q", p.Timezone)
		}
	}

	if p.Driver == DriverFirestore && p.FirestoreProjectID == "" {
		return errors.New("firestore driver requires a project id")
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "toeicplanner")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
					return err
				}
			}
		} else {
			p.Data = "/var/opt/toeicplanner"
		}
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check dsn", slog.String("data", dataDir), slog.String("error", err.Error()))
		return err
	}

	p.Data = dataDir
	if p.Driver == DriverSQLite && p.DSN == "" {
		dbFile := fmt.Sprintf("toeicplanner_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}

	return nil
}
