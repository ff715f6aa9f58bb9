// Package assets locates and loads client files from extracted data directories.
package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Asset lookup errors.
var (
	ErrFileNotFound  = errors.New("file not found")
	ErrUnknownFileID = errors.New("unknown file id")
	ErrNotADirectory = errors.New("data root is not a directory")
)

// Manager loads files from a stack of data roots.
// Roots are searched in reverse order (last added = highest priority).
type Manager struct {
	roots    []string
	listfile *Listfile
	cache    *Cache
	mu       sync.RWMutex
}

// NewManager creates a new asset manager.
func NewManager() *Manager {
	return &Manager{
		cache:    NewCache(),
		listfile: NewListfile(),
	}
}

// AddRoot adds an extracted data directory to the manager.
func (m *Manager) AddRoot(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("opening data root %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotADirectory, dir)
	}

	m.mu.Lock()
	m.roots = append(m.roots, dir)
	m.mu.Unlock()

	return nil
}

// Roots returns the configured data roots in search order, lowest priority first.
func (m *Manager) Roots() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.roots...)
}

// SetListfile replaces the file id table.
func (m *Manager) SetListfile(l *Listfile) {
	m.mu.Lock()
	m.listfile = l
	m.mu.Unlock()
}

// Listfile returns the file id table.
func (m *Manager) Listfile() *Listfile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listfile
}

// NormalizePath turns a client path (backslashes, any case) into the
// slash-separated form used for lookups.
func NormalizePath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	return strings.TrimPrefix(path, "/")
}

// Resolve returns the on-disk location of a client path. An exact match is
// tried first in each root, then the lower-cased path.
func (m *Manager) Resolve(path string) (string, error) {
	rel := NormalizePath(path)

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.roots) - 1; i >= 0; i-- {
		for _, candidate := range []string{rel, strings.ToLower(rel)} {
			full := filepath.Join(m.roots[i], filepath.FromSlash(candidate))
			if info, err := os.Stat(full); err == nil && !info.IsDir() {
				return full, nil
			}
		}
	}

	return "", fmt.Errorf("%w: %s", ErrFileNotFound, path)
}

// Load loads a file by client path.
func (m *Manager) Load(path string) ([]byte, error) {
	key := strings.ToLower(NormalizePath(path))
	if data, ok := m.cache.Get(key); ok {
		return data, nil
	}

	full, err := m.Resolve(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", full, err)
	}

	m.cache.Set(key, data)
	return data, nil
}

// LoadByID loads a file by its file data id through the listfile.
func (m *Manager) LoadByID(id uint32) ([]byte, error) {
	path, ok := m.Listfile().Path(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFileID, id)
	}
	return m.Load(path)
}

// CacheStats returns hit, miss and size statistics of the file cache.
func (m *Manager) CacheStats() (hits, misses, bytes int) {
	return m.cache.Stats()
}

// Close drops all roots and cached data.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.roots = nil
	m.cache.Clear()
}

// Cache is an in-memory cache of loaded files keyed by normalized path.
type Cache struct {
	data  map[string][]byte
	bytes int
	mu    sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.bytes += len(data) - len(c.data[key])
	c.data[key] = data
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data = make(map[string][]byte)
	c.bytes = 0
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses, bytes int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses, c.bytes
}
