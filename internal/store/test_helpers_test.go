package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/notemap/internal/config"
	"github.com/roach88/notemap/internal/engine"
	"github.com/roach88/notemap/internal/ir"
	"github.com/roach88/notemap/internal/testutil"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestPage builds a small treble page; x shifts every detection so
// different values give different page hashes.
func createTestPage(name string, x int) ir.Page {
	return testutil.NewPage(name).
		Staff(testutil.Staff(100, 10, 5)...).
		Box("cg_1", 10, 90, 30, 150).
		At("f_1", 60+x, 130).
		At("f_1", 90+x, 110).
		Page()
}

// processTestPage runs the engine over p with deterministic IDs.
func processTestPage(t *testing.T, p ir.Page) *engine.Result {
	t.Helper()
	e := engine.New(config.Default(), engine.WithIDGenerator(testutil.NewSequentialGenerator("d")))
	res, err := e.Process(p)
	if err != nil && !engine.IsPageError(err) {
		t.Fatalf("Process() failed: %v", err)
	}
	return res
}
