package instance

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/frostline-mc/frostline/internal/util"
)

// Store is the registry of known instances. It owns the instance directory
// root and keeps an in-memory map that mirrors the manifests on disk.
//
// There is no delete operation: removing an instance is deleting its
// directory, which the next LoadAll (or the watcher) picks up.
type Store struct {
	root string

	mu        sync.RWMutex
	instances map[uuid.UUID]*InstanceModel
}

// NewStore creates a store rooted at root. The directory is created when it
// does not exist yet.
func NewStore(root string) (*Store, error) {
	if err := util.EnsureDir(root); err != nil {
		return nil, fmt.Errorf("failed to create instance root: %w", err)
	}
	return &Store{
		root:      root,
		instances: make(map[uuid.UUID]*InstanceModel),
	}, nil
}

// Root returns the instance directory root.
func (s *Store) Root() string {
	return s.root
}

// Create registers a new instance and persists its manifest. The instance
// directory is derived from the display name, sanitized to a filesystem-legal
// form and disambiguated with a " (n)" suffix against existing entries,
// compared case-insensitively.
func (s *Store) Create(m *InstanceModel) (*InstanceModel, error) {
	if m == nil {
		return nil, fmt.Errorf("instance is required")
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.store = s

	dirName, err := s.claimDirName(m.Name)
	if err != nil {
		return nil, err
	}
	m.Path = filepath.Join(s.root, dirName)
	if err = os.MkdirAll(m.Path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create instance directory: %w", err)
	}
	m.LastModified = time.Now()

	if err = s.writeManifest(m); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.instances[m.ID] = m
	s.mu.Unlock()

	log.WithFields(log.Fields{"instance": m.Name, "path": m.Path}).Info("instance created")
	return m, nil
}

// Save persists the instance's manifest and replaces its registry entry,
// bumping LastModified.
func (s *Store) Save(m *InstanceModel) error {
	if m == nil || m.ID == uuid.Nil {
		return fmt.Errorf("instance with an ID is required")
	}
	if m.Path == "" {
		return fmt.Errorf("instance %s has no directory, create it first", m.Name)
	}
	m.store = s
	m.LastModified = time.Now()

	if err := s.writeManifest(m); err != nil {
		return err
	}

	s.mu.Lock()
	s.instances[m.ID] = m
	s.mu.Unlock()
	return nil
}

// AddMod appends a mod to the instance's load order and saves it.
func (s *Store) AddMod(m *InstanceModel, mod Mod) error {
	if m == nil {
		return fmt.Errorf("instance is required")
	}
	m.Mods = append(m.Mods, mod)
	return s.Save(m)
}

// LoadAll discards the registry and rebuilds it from the manifests found under
// the root. A manifest that fails to parse is logged and skipped; one broken
// instance does not hide the rest.
func (s *Store) LoadAll() error {
	loaded := make(map[uuid.UUID]*InstanceModel)

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != InstanceFileName {
			return nil
		}
		m, loadErr := s.readManifest(path)
		if loadErr != nil {
			log.WithFields(log.Fields{"path": path, "error": loadErr}).Warn("skipping unreadable instance manifest")
			return nil
		}
		loaded[m.ID] = m
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to scan instance root: %w", err)
	}

	s.mu.Lock()
	s.instances = loaded
	s.mu.Unlock()

	log.WithField("count", len(loaded)).Debug("instance registry reloaded")
	return nil
}

// LoadOne reads a single manifest file and registers it, overwriting any
// previous entry for the same ID.
func (s *Store) LoadOne(path string) (*InstanceModel, error) {
	m, err := s.readManifest(path)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.instances[m.ID] = m
	s.mu.Unlock()
	return m, nil
}

// ByID returns the instance with the given ID.
func (s *Store) ByID(id uuid.UUID) (*InstanceModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.instances[id]
	if !ok {
		return nil, fmt.Errorf("no instance with id %s", id)
	}
	return m, nil
}

// ByName returns every instance whose display name matches exactly. Display
// names are not unique, so this can return more than one.
func (s *Store) ByName(name string) []*InstanceModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matches []*InstanceModel
	for _, m := range s.instances {
		if m.Name == name {
			matches = append(matches, m)
		}
	}
	return matches
}

// FirstByName returns an instance with the given display name, or an error
// when none exists.
func (s *Store) FirstByName(name string) (*InstanceModel, error) {
	matches := s.ByName(name)
	if len(matches) == 0 {
		return nil, fmt.Errorf("no instance named %q", name)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Path < matches[j].Path })
	return matches[0], nil
}

// Exists reports whether any registered instance carries the given display
// name.
func (s *Store) Exists(name string) bool {
	return len(s.ByName(name)) > 0
}

// All returns every registered instance, sorted by name then path for stable
// listings.
func (s *Store) All() []*InstanceModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]*InstanceModel, 0, len(s.instances))
	for _, m := range s.instances {
		all = append(all, m)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Name != all[j].Name {
			return all[i].Name < all[j].Name
		}
		return all[i].Path < all[j].Path
	})
	return all
}

// claimDirName turns a display name into a directory name that does not
// collide with any existing entry under the root. Comparison is
// case-insensitive so "Test" and "test" cannot share a directory on
// case-insensitive filesystems.
func (s *Store) claimDirName(name string) (string, error) {
	base := util.SanitizeDirName(name)

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return "", fmt.Errorf("failed to read instance root: %w", err)
	}
	taken := make(map[string]bool, len(entries))
	for _, entry := range entries {
		taken[strings.ToLower(entry.Name())] = true
	}

	candidate := base
	for n := 1; taken[strings.ToLower(candidate)]; n++ {
		candidate = fmt.Sprintf("%s (%d)", base, n)
	}
	return candidate, nil
}

// writeManifest serializes the instance to its manifest file.
func (s *Store) writeManifest(m *InstanceModel) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize instance %s: %w", m.Name, err)
	}
	manifest := filepath.Join(m.Path, InstanceFileName)
	if err = os.WriteFile(manifest, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", manifest, err)
	}
	return nil
}

// readManifest parses a manifest file into a model. Path is taken from the
// file location rather than the serialized value, so directories moved by hand
// stay consistent.
func (s *Store) readManifest(path string) (*InstanceModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	m := &InstanceModel{}
	if err = json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if m.ID == uuid.Nil {
		return nil, fmt.Errorf("manifest %s carries no instance id", path)
	}
	m.Path = filepath.Dir(path)
	m.store = s
	return m, nil
}
