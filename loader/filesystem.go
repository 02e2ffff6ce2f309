package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// CompositeFS routes each path to the file system mounted at its longest
// matching prefix, or to the fallback.
type CompositeFS struct {
	mu          sync.RWMutex
	filesystems map[string]FileSystem
	fallback    FileSystem
}

func NewCompositeFS() *CompositeFS {
	return &CompositeFS{
		filesystems: make(map[string]FileSystem),
	}
}

func (c *CompositeFS) SetFallback(fs FileSystem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fallback = fs
}

// Mount serves paths starting with prefix from fs.  The prefix is stripped
// before fs sees the path.
func (c *CompositeFS) Mount(prefix string, fs FileSystem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filesystems[prefix] = fs
}

func (c *CompositeFS) findFS(path string) (FileSystem, string) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var bestMatch string
	var bestFS FileSystem
	for prefix, fs := range c.filesystems {
		if strings.HasPrefix(path, prefix) && len(prefix) > len(bestMatch) {
			bestMatch = prefix
			bestFS = fs
		}
	}
	if bestFS != nil {
		return bestFS, strings.TrimPrefix(path, bestMatch)
	}
	return c.fallback, path
}

func (c *CompositeFS) ReadFile(path string) ([]byte, error) {
	fs, adjustedPath := c.findFS(path)
	if fs == nil {
		return nil, fmt.Errorf("no filesystem mounted for path: %s", path)
	}
	return fs.ReadFile(adjustedPath)
}

func (c *CompositeFS) Exists(path string) bool {
	fs, adjustedPath := c.findFS(path)
	return fs != nil && fs.Exists(adjustedPath)
}

// LocalFS reads from the local disk.  Relative paths are taken from
// basePath.
type LocalFS struct {
	basePath string
}

func NewLocalFS(basePath string) *LocalFS {
	return &LocalFS{basePath: basePath}
}

func (l *LocalFS) resolvePath(path string) string {
	path = filepath.FromSlash(path)
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(l.basePath, path)
}

func (l *LocalFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(l.resolvePath(path))
}

func (l *LocalFS) Exists(path string) bool {
	info, err := os.Stat(l.resolvePath(path))
	return err == nil && !info.IsDir()
}

// MemoryFS holds files in memory.  It is mostly useful in tests and for
// programs generated on the fly.
type MemoryFS struct {
	mu    sync.RWMutex
	files map[string][]byte
}

func NewMemoryFS() *MemoryFS {
	return &MemoryFS{
		files: make(map[string][]byte),
	}
}

func (m *MemoryFS) ReadFile(path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, exists := m.files[path]
	if !exists {
		return nil, fmt.Errorf("file not found: %s: %w", path, os.ErrNotExist)
	}
	return append([]byte(nil), data...), nil
}

func (m *MemoryFS) Exists(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.files[path]
	return exists
}

// Store sets the contents of one file.
func (m *MemoryFS) Store(path string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = append([]byte(nil), data...)
}

// PreloadFiles adds files to the memory filesystem
func (m *MemoryFS) PreloadFiles(files map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for path, content := range files {
		m.files[path] = []byte(content)
	}
}
