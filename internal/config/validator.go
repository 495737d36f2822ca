package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/osse101/XPEngine_Go/internal/leveling"
)

// ExpectedEnvSchemaVersion is the schema version that the application expects
const ExpectedEnvSchemaVersion = "1.0"

// RequiredEnvVars lists all environment variables that must be set
var RequiredEnvVars = []string{
	"ENV_SCHEMA_VERSION",
	"DB_USER",
	"DB_PASSWORD",
	"DB_HOST",
	"DB_PORT",
	"DB_NAME",
	"API_KEY",
}

// Optional settings that must parse when present
var (
	positiveIntEnvVars = []string{"MAX_LEVEL", "CACHE_SIZE", "LEADERBOARD_SIZE", "WORKER_COUNT", "WORKER_QUEUE_SIZE", "DB_MAX_CONNS"}
	durationEnvVars    = []string{"CACHE_TTL", "LEADERBOARD_REFRESH", "DB_MAX_CONN_IDLE_TIME", "DB_MAX_CONN_LIFETIME"}
)

// Example values shipped in .env.example
const (
	exampleDBPassword = "change_this_secure_password"
	exampleAPIKey     = "generate_with_openssl_rand_hex_32"
)

// SlowMaxLevel is the level bound above which a single resolution walks enough
// thresholds to show up in request latency.
const SlowMaxLevel = 100000

// ValidateEnv checks the schema version, required variables and the format of
// optional numeric settings. All problems are reported together.
func ValidateEnv() error {
	schemaVersion := os.Getenv("ENV_SCHEMA_VERSION")
	switch {
	case schemaVersion == "":
		return fmt.Errorf("ENV_SCHEMA_VERSION is not set (expected %s)", ExpectedEnvSchemaVersion)
	case schemaVersion != ExpectedEnvSchemaVersion:
		return fmt.Errorf("ENV_SCHEMA_VERSION mismatch: expected %s, got %s", ExpectedEnvSchemaVersion, schemaVersion)
	}

	var errs []error
	if missing := missingEnvVars(RequiredEnvVars); len(missing) > 0 {
		errs = append(errs, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", ")))
	}
	for _, key := range positiveIntEnvVars {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			if n, err := strconv.Atoi(v); err != nil || n < 1 {
				errs = append(errs, fmt.Errorf("%s must be a positive integer, got %q", key, v))
			}
		}
	}
	if v := os.Getenv("MAX_LEVEL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > leveling.MaxSafeLevel {
			errs = append(errs, fmt.Errorf("MAX_LEVEL %d is above %d, cumulative XP would overflow", n, leveling.MaxSafeLevel))
		}
	}
	for _, key := range durationEnvVars {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			if d, err := time.ParseDuration(v); err != nil || d <= 0 {
				errs = append(errs, fmt.Errorf("%s must be a positive duration, got %q", key, v))
			}
		}
	}

	return errors.Join(errs...)
}

func missingEnvVars(keys []string) []string {
	var missing []string
	for _, key := range keys {
		if os.Getenv(key) == "" {
			missing = append(missing, key)
		}
	}
	return missing
}

// ValidateEnvWithWarnings runs ValidateEnv and then reports settings that work
// but are probably not what the operator wants.
func ValidateEnvWithWarnings() ([]string, error) {
	if err := ValidateEnv(); err != nil {
		return nil, err
	}

	var warnings []string

	if os.Getenv("DB_PASSWORD") == exampleDBPassword {
		warnings = append(warnings, "DB_PASSWORD is still the example value")
	}
	if os.Getenv("API_KEY") == exampleAPIKey {
		warnings = append(warnings, "API_KEY is still the example value, generate one with: openssl rand -hex 32")
	}
	if (os.Getenv("DISCORD_WEBHOOK_ID") == "") != (os.Getenv("DISCORD_WEBHOOK_TOKEN") == "") {
		warnings = append(warnings, "DISCORD_WEBHOOK_ID and DISCORD_WEBHOOK_TOKEN must be set together, milestone notifications go to the log")
	}
	if v := os.Getenv("MAX_LEVEL"); v != "" {
		if n, _ := strconv.Atoi(v); n > SlowMaxLevel {
			warnings = append(warnings, fmt.Sprintf("MAX_LEVEL %d is above %d, level resolution for large totals will be slow", n, SlowMaxLevel))
		}
	}
	if path := os.Getenv("REWARDS_FILE"); path != "" {
		if _, err := os.Stat(path); err != nil {
			warnings = append(warnings, fmt.Sprintf("REWARDS_FILE %s is not readable, built-in reward amounts will be used", path))
		}
	}

	return warnings, nil
}
