package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

type Config struct {
	DBDriver       string
	DatabaseURL    string
	MigrationsDir  string
	Port           int
	AllowedOrigins []string
	Archive        ArchiveConfig
}

// ArchiveConfig points at an S3 compatible bucket. An empty Bucket disables exports.
type ArchiveConfig struct {
	Bucket          string
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

func (a ArchiveConfig) Enabled() bool {
	return a.Bucket != ""
}

// Load reads a .env file when present and then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	driver := getEnv("SWISS_DB_DRIVER", DriverSQLite)
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported SWISS_DB_DRIVER %q", driver)
	}

	dbURL := os.Getenv("SWISS_DATABASE_URL")
	if dbURL == "" {
		if driver == DriverPostgres {
			return nil, fmt.Errorf("SWISS_DATABASE_URL environment variable is not set")
		}
		dbURL = "swiss.db?_journal_mode=WAL&_busy_timeout=5000"
	}

	port, err := strconv.Atoi(getEnv("SWISS_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SWISS_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SWISS_PORT must be between 1 and 65535, got %d", port)
	}

	cfg := &Config{
		DBDriver:       driver,
		DatabaseURL:    dbURL,
		MigrationsDir:  getEnv("SWISS_MIGRATIONS_DIR", "migrations"),
		Port:           port,
		AllowedOrigins: splitList(getEnv("SWISS_ALLOWED_ORIGINS", "*")),
		Archive: ArchiveConfig{
			Bucket:          os.Getenv("SWISS_ARCHIVE_BUCKET"),
			Endpoint:        os.Getenv("SWISS_ARCHIVE_ENDPOINT"),
			Region:          getEnv("SWISS_ARCHIVE_REGION", "auto"),
			AccessKeyID:     os.Getenv("SWISS_ARCHIVE_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("SWISS_ARCHIVE_SECRET_ACCESS_KEY"),
		},
	}

	if cfg.Archive.Enabled() && (cfg.Archive.AccessKeyID == "" || cfg.Archive.SecretAccessKey == "") {
		return nil, fmt.Errorf("SWISS_ARCHIVE_BUCKET is set but archive credentials are missing")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
