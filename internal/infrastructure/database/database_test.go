package database

import (
	"context"
	"embed"
	"path/filepath"
	"testing"
)

//go:embed testdata/*.sql
var testMigrationsFS embed.FS

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(Config{
		Path:        filepath.Join(t.TempDir(), "wxcore.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen(t *testing.T) {
	db := openTestDB(t)

	if err := db.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}

func TestClose_Twice(t *testing.T) {
	db := openTestDB(t)

	if err := db.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestMigrate_NoEmbeddedFS(t *testing.T) {
	saved, savedDir := MigrationsFS, MigrationsDir
	MigrationsFS, MigrationsDir = embed.FS{}, "."
	t.Cleanup(func() { MigrationsFS, MigrationsDir = saved, savedDir })

	db := openTestDB(t)

	if err := db.Migrate(context.Background()); err != nil {
		t.Errorf("Migrate() with no migrations error = %v", err)
	}
}

func TestMigrate_AppliesAndIsIdempotent(t *testing.T) {
	saved, savedDir := MigrationsFS, MigrationsDir
	MigrationsFS, MigrationsDir = testMigrationsFS, "testdata"
	t.Cleanup(func() { MigrationsFS, MigrationsDir = saved, savedDir })

	db := openTestDB(t)
	ctx := context.Background()

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	// Second run must be a no-op.
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}

	var count int
	if err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM schema_migrations",
	).Scan(&count); err != nil {
		t.Fatalf("querying schema_migrations: %v", err)
	}
	if count != 1 {
		t.Errorf("applied migrations = %d, want 1", count)
	}

	// The migrated table is usable.
	if _, err := db.ExecContext(ctx,
		"INSERT INTO test_samples (value) VALUES (?)", 42,
	); err != nil {
		t.Errorf("inserting into migrated table: %v", err)
	}
}

func TestParseMigrationFilename(t *testing.T) {
	tests := []struct {
		filename    string
		wantVersion string
		wantName    string
		wantOK      bool
	}{
		{"20260312_100000_create_observations.up.sql", "20260312_100000", "create_observations", true},
		{"20260312_100000_create_observations.down.sql", "", "", false},
		{"README.md", "", "", false},
		{"bad.up.sql", "", "", false},
	}

	for _, tt := range tests {
		version, name, ok := parseMigrationFilename(tt.filename)
		if version != tt.wantVersion || name != tt.wantName || ok != tt.wantOK {
			t.Errorf("parseMigrationFilename(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.filename, version, name, ok, tt.wantVersion, tt.wantName, tt.wantOK)
		}
	}
}
