package database

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
)

// Supported storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds local storage configuration
type Config struct {
	Driver string

	// SQLite
	Path string

	// PostgreSQL
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// NewConfig creates a new storage configuration from the environment.
// SQLite under the user's home directory is the default.
func NewConfig() (*Config, error) {
	cfg := &Config{
		Driver:   getEnv("STORE_DRIVER", DriverSQLite),
		Path:     getEnv("STORE_PATH", defaultPath()),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "lumen"),
		Password: getEnv("DB_PASSWORD", "lumen"),
		DBName:   getEnv("DB_NAME", "lumen"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the driver and its required fields.
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverSQLite:
		if c.Path == "" {
			return fmt.Errorf("STORE_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Host == "" || c.DBName == "" {
			return fmt.Errorf("DB_HOST and DB_NAME are required for the postgres driver")
		}
	default:
		return fmt.Errorf("invalid STORE_DRIVER %q: must be sqlite or postgres", c.Driver)
	}
	return nil
}

// DSN returns the PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// MigrateURL returns the database URL understood by golang-migrate.
func (c *Config) MigrateURL() string {
	if c.Driver == DriverSQLite {
		return "sqlite3://" + c.Path
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

func defaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "lumen.db"
	}
	return filepath.Join(home, ".lumen", "lumen.db")
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}
