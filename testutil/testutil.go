// Package testutil builds real backends for tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/surafelx/portfolio26/db"
	"github.com/surafelx/portfolio26/store"
)

// NewSQLiteBackend opens a fresh SQLite backend in a temp dir, closed on cleanup.
func NewSQLiteBackend(t *testing.T) *store.Backend {
	t.Helper()
	sqlDB, err := db.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	b := store.NewSQLiteBackend(sqlDB)
	t.Cleanup(func() { _ = b.Close(context.Background()) })
	return b
}
