package profile

import (
	"os"
	"path/filepath"
	"testing"
)

var profileEnvVars = []string{
	"TOEIC_DEFAULT_USER",
	"TOEIC_TIMEZONE",
	"TOEIC_INSTANCE_URL",
	"TOEIC_FIRESTORE_PROJECT_ID",
	"TOEIC_FIRESTORE_CREDENTIALS",
	"TOEIC_DIGEST_SCHEDULE",
	"TOEIC_RATE_LIMIT",
	"TOEIC_RATE_BURST",
}

func clearProfileEnvVars(t *testing.T) {
	for _, key := range profileEnvVars {
		if value, ok := os.LookupEnv(key); ok {
			os.Unsetenv(key)
			t.Cleanup(func() { os.Setenv(key, value) })
		}
	}
}

// TestProfileDefaults checks the defaults applied by FromEnv.
func TestProfileDefaults(t *testing.T) {
	clearProfileEnvVars(t)

	profile := &Profile{}
	profile.FromEnv()

	tests := []struct {
		name     string
		expected any
		actual   any
	}{
		{"DefaultUser", "default", profile.DefaultUser},
		{"Timezone", "Local", profile.Timezone},
		{"DigestSchedule", "0 7 * * *", profile.DigestSchedule},
		{"RateLimit", 10.0, profile.RateLimit},
		{"RateBurst", 20, profile.RateBurst},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.actual != tt.expected {
				t.Errorf("%s: expected %v, got %v", tt.name, tt.expected, tt.actual)
			}
		})
	}
}

// TestProfileFromEnv checks that environment variables override defaults.
func TestProfileFromEnv(t *testing.T) {
	clearProfileEnvVars(t)

	t.Setenv("TOEIC_DEFAULT_USER", "alice")
	t.Setenv("TOEIC_TIMEZONE", "Asia/Tokyo")
	t.Setenv("TOEIC_DIGEST_SCHEDULE", "")
	t.Setenv("TOEIC_RATE_LIMIT", "2.5")
	t.Setenv("TOEIC_RATE_BURST", "not-a-number")

	profile := &Profile{}
	profile.FromEnv()

	if profile.DefaultUser != "alice" {
		t.Errorf("DefaultUser: expected alice, got %q", profile.DefaultUser)
	}
	if profile.Timezone != "Asia/Tokyo" {
		t.Errorf("Timezone: expected Asia/Tokyo, got %q", profile.Timezone)
	}
	if profile.DigestSchedule != "" {
		t.Errorf("DigestSchedule: expected empty (disabled), got %q", profile.DigestSchedule)
	}
	if profile.RateLimit != 2.5 {
		t.Errorf("RateLimit: expected 2.5, got %v", profile.RateLimit)
	}
	if profile.RateBurst != 20 {
		t.Errorf("RateBurst: invalid value should keep default 20, got %d", profile.RateBurst)
	}
}

func TestProfileValidate(t *testing.T) {
	dataDir := t.TempDir()

	t.Run("sqlite DSN is derived from data dir", func(t *testing.T) {
		profile := &Profile{Mode: "dev", Data: dataDir}
		if err := profile.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if profile.Driver != DriverSQLite {
			t.Errorf("expected default driver sqlite, got %q", profile.Driver)
		}
		expected := filepath.Join(dataDir, "toeicplanner_dev.db")
		if profile.DSN != expected {
			t.Errorf("expected DSN %q, got %q", expected, profile.DSN)
		}
	})

	t.Run("unknown mode falls back to demo", func(t *testing.T) {
		profile := &Profile{Mode: "staging", Data: dataDir, Driver: DriverMemory}
		if err := profile.Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if profile.Mode != "demo" {
			t.Errorf("expected demo mode, got %q", profile.Mode)
		}
	})

	t.Run("unknown driver is rejected", func(t *testing.T) {
		profile := &Profile{Mode: "dev", Data: dataDir, Driver: "mysql"}
		if err := profile.Validate(); err == nil {
			t.Error("expected error for mysql driver")
		}
	})

	t.Run("firestore requires a project", func(t *testing.T) {
		profile := &Profile{Mode: "dev", Data: dataDir, Driver: DriverFirestore}
		if err := profile.Validate(); err == nil {
			t.Error("expected error for firestore without project id")
		}
	})

	t.Run("invalid timezone is rejected", func(t *testing.T) {
		profile := &Profile{Mode: "dev", Data: dataDir, Driver: DriverMemory, Timezone: "Mars/Olympus"}
		if err := profile.Validate(); err == nil {
			t.Error("expected error for invalid timezone")
		}
	})

	t.Run("missing data dir", func(t *testing.T) {
		profile := &Profile{Mode: "dev", Data: filepath.Join(dataDir, "missing")}
		if err := profile.Validate(); err == nil {
			t.Error("expected error for missing data dir")
		}
	})
}

func TestProfileLocation(t *testing.T) {
	profile := &Profile{Timezone: "Asia/Tokyo"}
	if got := profile.Location().String(); got != "Asia/Tokyo" {
		t.Errorf("expected Asia/Tokyo, got %q", got)
	}
	profile.Timezone = "Local"
	if profile.Location() != nil && profile.Location().String() != "Local" {
		t.Errorf("expected Local location, got %q", profile.Location().String())
	}
}
