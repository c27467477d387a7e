// Package instance manages Minecraft instances as per-instance directories
// under a common root, each holding a single instance.json manifest. The
// in-memory registry mirrors the on-disk state and is refreshed by explicit
// loads or the filesystem watcher.
package instance

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// InstanceFileName is the manifest file stored inside every instance
// directory.
const InstanceFileName = "instance.json"

// WindowSettings holds the game window dimensions for an instance.
type WindowSettings struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// RAMSettings holds the JVM heap bounds for an instance, in megabytes.
type RAMSettings struct {
	MinimumMB int `json:"minimum_mb"`
	MaximumMB int `json:"maximum_mb"`
}

// Mod describes a single mod attached to an instance. Order within the
// instance's mod list is preserved as load order.
type Mod struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	FileName string `json:"file_name"`
	URL      string `json:"url,omitempty"`
	Enabled  bool   `json:"enabled"`
}

// InstanceModel is the persisted description of a Minecraft instance.
type InstanceModel struct {
	// ID identifies the instance and never changes after creation.
	ID uuid.UUID `json:"id"`

	// Name is the user-facing display name. It is not unique; the directory
	// name derived from it is.
	Name string `json:"name"`

	Description string `json:"description,omitempty"`

	// JavaPath optionally pins the instance to a specific Java executable.
	JavaPath string `json:"java_path,omitempty"`

	Window WindowSettings `json:"window"`
	RAM    RAMSettings    `json:"ram"`

	// Mods is the ordered mod list.
	Mods []Mod `json:"mods"`

	// Path is the absolute instance directory. It is derived from the file
	// location on load, so a directory moved by hand stays consistent.
	Path string `json:"path"`

	// LastModified is bumped on every save.
	LastModified time.Time `json:"last_modified"`

	// store points back at the owning registry so the model can re-save
	// itself. The store owns the model, not the other way around, so this is
	// never serialized.
	store *Store
}

// NewInstanceModel creates an instance model with a fresh ID and the given
// display name.
func NewInstanceModel(name string) *InstanceModel {
	return &InstanceModel{
		ID:   uuid.New(),
		Name: name,
		Window: WindowSettings{
			Width:  854,
			Height: 480,
		},
		RAM: RAMSettings{
			MinimumMB: 512,
			MaximumMB: 2048,
		},
	}
}

// Save persists the model through the store that loaded or created it.
func (m *InstanceModel) Save() error {
	if m.store == nil {
		return fmt.Errorf("instance %s is not attached to a store", m.Name)
	}
	return m.store.Save(m)
}

// ManifestPath returns the location of the instance's manifest file.
func (m *InstanceModel) ManifestPath() string {
	if m.Path == "" {
		return ""
	}
	return filepath.Join(m.Path, InstanceFileName)
}
