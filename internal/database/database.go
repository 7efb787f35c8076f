// Package database opens the durable store that backs the session record and
// applies its schema migrations.
package database

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"lumen/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

//go:embed migrations
var migrationsFS embed.FS

// Manager handles database operations
type Manager struct {
	db     *gorm.DB
	config *Config
}

// NewManager creates a new database manager
func NewManager(config *Config) (*Manager, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	gormCfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}

	var dialector gorm.Dialector
	switch config.Driver {
	case DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(config.Path), 0o700); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
		dialector = sqlite.Open(config.Path)
	case DriverPostgres:
		dialector = postgres.New(postgres.Config{
			DSN:                  config.DSN(),
			PreferSimpleProtocol: true,
		})
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}
	if config.Driver == DriverSQLite {
		// SQLite allows a single writer.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(2)
		sqlDB.SetMaxOpenConns(10)
	}

	return &Manager{db: db, config: config}, nil
}

// Migrate applies pending SQL migrations for the configured driver.
func (m *Manager) Migrate() error {
	logger.Get().Debugw("running store migrations", "driver", m.config.Driver)
	return m.withMigrator(func(mig *migrate.Migrate) error {
		if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration failed: %w", err)
		}
		return nil
	})
}

// Rollback reverts the last steps migrations.
func (m *Manager) Rollback(steps int) error {
	if steps <= 0 {
		return fmt.Errorf("invalid step count %d", steps)
	}
	return m.withMigrator(func(mig *migrate.Migrate) error {
		if err := mig.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration down failed: %w", err)
		}
		return nil
	})
}

// Version reports the applied schema version. A store that was never
// migrated reports version 0.
func (m *Manager) Version() (version uint, dirty bool, err error) {
	err = m.withMigrator(func(mig *migrate.Migrate) error {
		version, dirty, err = mig.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			version, dirty, err = 0, false, nil
		}
		if err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}
		return nil
	})
	return version, dirty, err
}

func (m *Manager) withMigrator(fn func(*migrate.Migrate) error) error {
	src, err := iofs.New(migrationsFS, "migrations/"+m.config.Driver)
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}

	mig, err := migrate.NewWithSourceInstance("iofs", src, m.config.MigrateURL())
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := mig.Close()
		if srcErr != nil {
			logger.Get().Warnf("migrate source close error: %v", srcErr)
		}
		if dbErr != nil {
			logger.Get().Warnf("migrate database close error: %v", dbErr)
		}
	}()

	return fn(mig)
}

// DB returns the underlying GORM database instance
func (m *Manager) DB() *gorm.DB {
	return m.db
}

// Close releases the connection pool.
func (m *Manager) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
