// Package testutil provides shared test helpers for setting up row stores
// and archive roots.
package testutil

import (
	"os"
	"testing"

	"github.com/ayasato/gekkan/internal/archive"
	"github.com/ayasato/gekkan/internal/rowstore"
)

// TestStore creates a temporary SQLite row store that is automatically
// cleaned up.
func TestStore(t *testing.T) *rowstore.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "gekkan-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := rowstore.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestArchive creates a temporary archive root with an archive.Provider.
func TestArchive(t *testing.T) (string, archive.Provider) {
	t.Helper()
	root := t.TempDir()
	arch, err := archive.NewFS(root)
	if err != nil {
		t.Fatal(err)
	}
	return root, arch
}
