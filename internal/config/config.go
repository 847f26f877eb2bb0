// Package config loads run settings from the environment.
//
// Values can come from a dotenv file; variables already set in the process
// environment take precedence over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Defaults
const (
	DefaultMongoDatabase = "teesheet"
	DefaultSettleDelay   = 2 * time.Second
)

// ErrMissingConfig means required settings are absent
var ErrMissingConfig = errors.New("missing required configuration")

// Config holds everything a run needs from the environment
type Config struct {
	ClubID string

	StoreDriver   string
	DatabaseURL   string
	MongoURI      string
	MongoDatabase string
	AutoMigrate   bool

	SheetURL string
	LoginURL string
	Username string
	Password string

	SettleDelay time.Duration
}

// Load reads envFile when given, then the process environment
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("loading env file %s: %w", envFile, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function such as os.Getenv
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		ClubID:        strings.TrimSpace(getenv("CLUB_ID")),
		StoreDriver:   strings.ToLower(strings.TrimSpace(getenv("STORE_DRIVER"))),
		DatabaseURL:   getenv("DATABASE_URL"),
		MongoURI:      getenv("MONGODB_URI"),
		MongoDatabase: getenv("MONGODB_DATABASE"),
		SheetURL:      getenv("TEESHEET_URL"),
		LoginURL:      getenv("TEESHEET_LOGIN_URL"),
		Username:      getenv("GOLF_CLUB_USERNAME"),
		Password:      getenv("GOLF_CLUB_PASSWORD"),
		SettleDelay:   DefaultSettleDelay,
	}

	if cfg.StoreDriver == "" {
		cfg.StoreDriver = DriverPostgres
	}
	if cfg.MongoDatabase == "" {
		cfg.MongoDatabase = DefaultMongoDatabase
	}

	if v := getenv("SETTLE_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return nil, fmt.Errorf("invalid SETTLE_DELAY %q", v)
		}
		cfg.SettleDelay = d
	}

	if v := getenv("AUTO_MIGRATE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid AUTO_MIGRATE %q: %w", v, err)
		}
		cfg.AutoMigrate = b
	}

	return cfg, nil
}

// Validate reports every missing setting at once. The tee sheet URL is only
// required when the run talks to the live tee sheet, and credentials only
// when that tee sheet has a login URL to send them to.
func (c *Config) Validate(live bool) error {
	var missing []string

	if c.ClubID == "" {
		missing = append(missing, "CLUB_ID")
	}

	switch c.StoreDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case DriverMongo:
		if c.MongoURI == "" {
			missing = append(missing, "MONGODB_URI")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (must be %s or %s)", c.StoreDriver, DriverPostgres, DriverMongo)
	}

	if live && c.SheetURL == "" {
		missing = append(missing, "TEESHEET_URL")
	}

	if live && c.LoginURL != "" {
		if c.Username == "" {
			missing = append(missing, "GOLF_CLUB_USERNAME")
		}
		if c.Password == "" {
			missing = append(missing, "GOLF_CLUB_PASSWORD")
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}
	return nil
}
