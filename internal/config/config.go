package config // package config loads application configuration from environment variables

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable; see Load for the defaults.
type Config struct {
	Env             string        // application environment (e.g. "dev", "prod")
	Port            string        // HTTP port to listen on
	DB              DBConfig      // database connection settings
	JWTSecret       string        // secret used to sign JWTs
	AccessTTLMin    int           // access token time-to-live in minutes
	RefreshTTLHours int           // refresh token time-to-live in hours
	BcryptCost      int           // bcrypt cost for password hashing
	UploadDir       string        // root directory for uploaded files
	UploadMaxBytes  int64         // request body limit for multipart uploads
	ShutdownTimeout time.Duration // grace period for in-flight requests
}

// AccessTTL returns the access token lifetime as a duration.
func (c Config) AccessTTL() time.Duration { return time.Duration(c.AccessTTLMin) * time.Minute }

// RefreshTTL returns the refresh token lifetime as a duration.
func (c Config) RefreshTTL() time.Duration { return time.Duration(c.RefreshTTLHours) * time.Hour }

// Load reads configuration values from environment variables.  Only
// JWT_SECRET is strictly required; database credentials are required
// for the networked drivers and checked by LoadDB.
func Load() (Config, error) {
	secret, err := must("JWT_SECRET")
	if err != nil {
		return Config{}, err
	}
	db, err := LoadDB()
	if err != nil {
		return Config{}, err
	}
	var env envReader
	cfg := Config{
		Env:             getenv("APP_ENV", "dev"),
		Port:            getenv("APP_PORT", "8080"),
		DB:              db,
		JWTSecret:       secret,
		AccessTTLMin:    env.Int("ACCESS_TOKEN_TTL_MIN", 30),
		RefreshTTLHours: env.Int("REFRESH_TOKEN_TTL_HOURS", 24),
		BcryptCost:      env.Int("BCRYPT_COST", bcrypt.DefaultCost),
		UploadDir:       getenv("UPLOAD_DIR", "./uploads"),
		UploadMaxBytes:  int64(env.Int("UPLOAD_MAX_BYTES", 10<<20)),
		ShutdownTimeout: env.Duration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
	if err := cfg.validate(env.Err()); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadBcryptCost reads BCRYPT_COST on its own, for tools that need no
// other setting.
func LoadBcryptCost() (int, error) {
	var env envReader
	cost := env.Int("BCRYPT_COST", bcrypt.DefaultCost)
	if err := env.Err(); err != nil {
		return 0, err
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return 0, fmt.Errorf("BCRYPT_COST out of range: %d", cost)
	}
	return cost, nil
}

// validate reports parse failures together with out-of-range values.
func (c Config) validate(parsed error) error {
	errs := []error{parsed}
	if c.AccessTTLMin <= 0 {
		errs = append(errs, fmt.Errorf("ACCESS_TOKEN_TTL_MIN must be positive, got %d", c.AccessTTLMin))
	}
	if c.RefreshTTLHours <= 0 {
		errs = append(errs, fmt.Errorf("REFRESH_TOKEN_TTL_HOURS must be positive, got %d", c.RefreshTTLHours))
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST out of range: %d", c.BcryptCost))
	}
	return errors.Join(errs...)
}
