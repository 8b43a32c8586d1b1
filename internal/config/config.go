// Package config loads server settings from a .env file, the environment and
// command line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

type Config struct {
	Addr        string
	WebDir      string
	StoreDriver string
	DatabaseURL string
	SQLitePath  string
	LogLevel    logger.Level

	AuthDisabled           bool
	SessionCleanupInterval time.Duration

	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string

	SeedPresets bool
}

// Load reads dotenvPath (a missing file is fine), overlays the process
// environment and then the flags in args.
func Load(dotenvPath string, args []string) (*Config, error) {
	fileEnv, err := godotenv.Read(dotenvPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", dotenvPath, err)
	}
	getenv := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return fileEnv[key]
	}
	return Parse(getenv, args)
}

// Parse builds a Config from getenv and flag arguments and validates it.
func Parse(getenv func(string) string, args []string) (*Config, error) {
	cfg, err := fromEnv(getenv)
	if err != nil {
		return nil, err
	}

	fs := pflag.NewFlagSet("pourover", pflag.ContinueOnError)
	cfg.BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromEnv(getenv func(string) string) (*Config, error) {
	env := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Addr:             env("ADDR", ":8080"),
		WebDir:           env("WEB_DIR", "web"),
		StoreDriver:      env("STORE_DRIVER", DriverPostgres),
		DatabaseURL:      getenv("DATABASE_URL"),
		SQLitePath:       env("SQLITE_PATH", "data/pourover.db"),
		LogLevel:         logger.LevelInfo,
		OIDCIssuer:       getenv("OIDC_ISSUER"),
		OIDCClientID:     getenv("OIDC_CLIENT_ID"),
		OIDCClientSecret: getenv("OIDC_CLIENT_SECRET"),
		OIDCRedirectURL:  getenv("OIDC_REDIRECT_URL"),
	}

	var errs *multierror.Error
	if v := getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.Set(v); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("invalid LOG_LEVEL: %w", err))
		}
	}

	var err error
	if cfg.AuthDisabled, err = strconv.ParseBool(env("AUTH_DISABLED", "false")); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("invalid AUTH_DISABLED: %w", err))
	}
	if cfg.SeedPresets, err = strconv.ParseBool(env("SEED_PRESETS", "true")); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("invalid SEED_PRESETS: %w", err))
	}
	if cfg.SessionCleanupInterval, err = time.ParseDuration(env("SESSION_CLEANUP_INTERVAL", "1h")); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("invalid SESSION_CLEANUP_INTERVAL: %w", err))
	}

	return cfg, errs.ErrorOrNil()
}

// BindFlags registers a flag per setting, defaulting to the current values.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.Addr, "addr", c.Addr, "listen address")
	fs.StringVar(&c.WebDir, "web-dir", c.WebDir, "directory of the web UI")
	fs.StringVar(&c.StoreDriver, "store", c.StoreDriver, "storage driver: postgres, sqlite or memory")
	fs.StringVar(&c.DatabaseURL, "database-url", c.DatabaseURL, "postgres connection string")
	fs.StringVar(&c.SQLitePath, "sqlite-path", c.SQLitePath, "sqlite database file")
	fs.Var(&c.LogLevel, "log-level", "log level")
	fs.BoolVar(&c.AuthDisabled, "auth-disabled", c.AuthDisabled, "allow recipe edits without logging in")
	fs.DurationVar(&c.SessionCleanupInterval, "session-cleanup-interval", c.SessionCleanupInterval, "how often expired sessions are purged")
	fs.BoolVar(&c.SeedPresets, "seed-presets", c.SeedPresets, "store the built-in recipes when the catalogue is empty")
}

// Validate reports every inconsistent setting at once.
func (c *Config) Validate() error {
	var errs *multierror.Error
	switch c.StoreDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = multierror.Append(errs, errors.New("DATABASE_URL is required for the postgres store"))
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			errs = multierror.Append(errs, errors.New("SQLITE_PATH is required for the sqlite store"))
		}
	case DriverMemory:
	default:
		errs = multierror.Append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}
	if c.SessionCleanupInterval <= 0 {
		errs = multierror.Append(errs, errors.New("SESSION_CLEANUP_INTERVAL must be positive"))
	}
	if c.OIDCIssuer != "" && (c.OIDCClientID == "" || c.OIDCRedirectURL == "") {
		errs = multierror.Append(errs, errors.New("OIDC_CLIENT_ID and OIDC_REDIRECT_URL are required with OIDC_ISSUER"))
	}
	return errs.ErrorOrNil()
}
