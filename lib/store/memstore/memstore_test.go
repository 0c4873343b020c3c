package memstore

import (
	"testing"

	"github.com/edisdb/edis/lib/store"
	"github.com/edisdb/edis/lib/store/storetest"
)

func TestMemstore(t *testing.T) {
	storetest.RunEngineTests(t, "memstore", func(t *testing.T) store.Engine {
		e := New()
		if err := e.Open(storetest.TempDir(t), true); err != nil {
			t.Fatalf("Open: %v", err)
		}
		return e
	})
}
