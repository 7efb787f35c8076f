package database

import (
	"path/filepath"
	"strings"
	"testing"
)

func newSQLiteManager(t *testing.T) *Manager {
	t.Helper()
	cfg := &Config{Driver: DriverSQLite, Path: filepath.Join(t.TempDir(), "nested", "lumen.db")}
	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestManager_MigrateCreatesStorageTable(t *testing.T) {
	m := newSQLiteManager(t)

	if err := m.Migrate(); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if !m.DB().Migrator().HasTable("storage_entries") {
		t.Fatal("expected storage_entries table after migration")
	}
}

func TestManager_MigrateIsIdempotent(t *testing.T) {
	m := newSQLiteManager(t)

	if err := m.Migrate(); err != nil {
		t.Fatalf("first Migrate: %v", err)
	}
	if err := m.Migrate(); err != nil {
		t.Fatalf("second Migrate should be a no-op, got: %v", err)
	}
}

func TestManager_VersionAndRollback(t *testing.T) {
	m := newSQLiteManager(t)

	v, dirty, err := m.Version()
	if err != nil {
		t.Fatalf("Version before migrate: %v", err)
	}
	if v != 0 || dirty {
		t.Errorf("expected clean version 0, got %d dirty=%v", v, dirty)
	}

	if err := m.Migrate(); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if v, _, _ = m.Version(); v != 1 {
		t.Errorf("expected version 1, got %d", v)
	}

	if err := m.Rollback(1); err != nil {
		t.Fatalf("Rollback: %v", err)
	}
	if m.DB().Migrator().HasTable("storage_entries") {
		t.Error("expected storage_entries dropped after rollback")
	}
	if err := m.Rollback(0); err == nil {
		t.Error("expected error for zero steps")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"sqlite ok", Config{Driver: DriverSQLite, Path: "/tmp/lumen.db"}, false},
		{"sqlite missing path", Config{Driver: DriverSQLite}, true},
		{"postgres ok", Config{Driver: DriverPostgres, Host: "db", DBName: "lumen"}, false},
		{"postgres missing host", Config{Driver: DriverPostgres, DBName: "lumen"}, true},
		{"unknown driver", Config{Driver: "mysql"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_MigrateURL(t *testing.T) {
	sqliteCfg := Config{Driver: DriverSQLite, Path: "/var/lib/lumen/lumen.db"}
	if got := sqliteCfg.MigrateURL(); got != "sqlite3:///var/lib/lumen/lumen.db" {
		t.Errorf("sqlite MigrateURL = %q", got)
	}

	pgCfg := Config{Driver: DriverPostgres, Host: "db", Port: "5432", User: "lumen", Password: "p@ss", DBName: "lumen", SSLMode: "disable"}
	got := pgCfg.MigrateURL()
	if !strings.HasPrefix(got, "postgres://lumen:p%40ss@db:5432/lumen") {
		t.Errorf("postgres MigrateURL = %q", got)
	}
	if !strings.HasSuffix(got, "sslmode=disable") {
		t.Errorf("postgres MigrateURL missing sslmode: %q", got)
	}
}

func TestNewConfig_FromEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DB_HOST", "pg.internal")
	t.Setenv("DB_NAME", "lumen_client")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if cfg.Driver != DriverPostgres || cfg.Host != "pg.internal" || cfg.DBName != "lumen_client" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if !strings.Contains(cfg.DSN(), "host=pg.internal") {
		t.Errorf("DSN = %q", cfg.DSN())
	}
}
