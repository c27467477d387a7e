package instance

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestWatcherPicksUpExternalInstance(t *testing.T) {
	store := newTestStore(t)
	watcher, err := NewWatcher(store)
	if err != nil {
		t.Fatalf("NewWatcher() error: %v", err)
	}
	if err = watcher.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	t.Cleanup(func() {
		_ = watcher.Stop()
	})

	// Drop a manifest the way an external tool would.
	external := &InstanceModel{ID: uuid.New(), Name: "Dropped"}
	dir := filepath.Join(store.Root(), "Dropped")
	if err = os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("creating dir: %v", err)
	}
	data, err := json.Marshal(external)
	if err != nil {
		t.Fatalf("marshaling manifest: %v", err)
	}
	if err = os.WriteFile(filepath.Join(dir, InstanceFileName), data, 0o644); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}

	deadline := time.After(5 * time.Second)
	for {
		if _, err = store.ByID(external.ID); err == nil {
			return
		}
		select {
		case <-deadline:
			t.Fatal("instance not registered after external manifest drop")
		case <-time.After(50 * time.Millisecond):
		}
	}
}
