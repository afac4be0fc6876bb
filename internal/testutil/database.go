package testutil

import (
	"path/filepath"
	"testing"

	"ush/internal/db"
)

// SetupTestDB creates a migrated throwaway database for a test
func SetupTestDB(t *testing.T) *db.DB {
	t.Helper()

	cfg := db.DefaultConfig()
	cfg.DSN = filepath.Join(t.TempDir(), "tickets.db")

	database, err := db.New(cfg)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if err := database.Migrate(); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return database
}
