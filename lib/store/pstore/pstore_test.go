package pstore

import (
	"path/filepath"
	"testing"

	"github.com/edisdb/edis/lib/store"
	"github.com/edisdb/edis/lib/store/storetest"
)

func TestPstore(t *testing.T) {
	storetest.RunEngineTests(t, "pstore", func(t *testing.T) store.Engine {
		e := New()
		dir := filepath.Join(storetest.TempDir(t), "db")
		if err := e.Open(dir, true); err != nil {
			t.Fatalf("Open: %v", err)
		}
		return e
	})
}
