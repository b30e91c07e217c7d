package config

import "fmt"

// Supported values of DB_DRIVER.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DBConfig describes how to reach the relational store.
type DBConfig struct {
	Driver      string
	User        string
	Pass        string
	Host        string
	Port        string
	Name        string
	Path        string // sqlite file path, ":memory:" for tests
	SSLMode     string // postgres only
	AutoMigrate bool
}

// LoadDB reads DB_* variables.  Networked drivers need user, host and
// name; sqlite only needs a path, which has a default.
func LoadDB() (DBConfig, error) {
	var env envReader
	c := DBConfig{
		Driver:      getenv("DB_DRIVER", DriverMySQL),
		User:        getenv("DB_USER", ""),
		Pass:        getenv("DB_PASS", ""),
		Host:        getenv("DB_HOST", "127.0.0.1"),
		Name:        getenv("DB_NAME", ""),
		Path:        getenv("DB_PATH", "marketplace.db"),
		SSLMode:     getenv("DB_SSLMODE", "disable"),
		AutoMigrate: env.Bool("DB_AUTO_MIGRATE", true),
	}
	if err := env.Err(); err != nil {
		return DBConfig{}, err
	}
	switch c.Driver {
	case DriverMySQL:
		c.Port = getenv("DB_PORT", "3306")
	case DriverPostgres:
		c.Port = getenv("DB_PORT", "5432")
	case DriverSQLite:
		return c, nil
	default:
		return DBConfig{}, fmt.Errorf("unsupported DB_DRIVER %q", c.Driver)
	}
	for key, v := range map[string]string{"DB_USER": c.User, "DB_NAME": c.Name} {
		if v == "" {
			return DBConfig{}, fmt.Errorf("missing required env var: %s", key)
		}
	}
	return c, nil
}
