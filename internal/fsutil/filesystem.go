// Package fsutil provides the filesystem abstraction used by the CLI and
// the file loaders, so they can be exercised against memory in tests.
package fsutil

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"
)

// FileSystem abstracts the filesystem operations the loaders and the CLI
// need. Use OSFileSystem for production; MemoryFileSystem for testing.
type FileSystem interface {
	// Open opens the named file for reading.
	Open(name string) (fs.File, error)

	// Create creates or truncates the named file. The parent directory
	// must exist.
	Create(name string) (io.WriteCloser, error)

	ReadFile(name string) ([]byte, error)
	Stat(name string) (fs.FileInfo, error)
	MkdirAll(path string, perm os.FileMode) error
}

// ReadLimited reads a regular file after checking its extension against
// allowed (when any are given) and its size against maxSize.
func ReadLimited(fsys FileSystem, path string, maxSize int64, allowed ...string) ([]byte, error) {
	path = filepath.Clean(path)
	if ext := strings.ToLower(filepath.Ext(path)); len(allowed) > 0 && !slices.Contains(allowed, ext) {
		return nil, fmt.Errorf("file must have one of %v extensions, got %q", allowed, ext)
	}

	info, err := fsys.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	switch {
	case info.IsDir():
		return nil, fmt.Errorf("%s is a directory", path)
	case info.Size() > maxSize:
		return nil, fmt.Errorf("file too large: %d bytes (max %d)", info.Size(), maxSize)
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// OSFileSystem implements FileSystem using the os package.
type OSFileSystem struct{}

func (OSFileSystem) Open(name string) (fs.File, error)            { return os.Open(name) }
func (OSFileSystem) Create(name string) (io.WriteCloser, error)   { return os.Create(name) }
func (OSFileSystem) ReadFile(name string) ([]byte, error)         { return os.ReadFile(name) }
func (OSFileSystem) Stat(name string) (fs.FileInfo, error)        { return os.Stat(name) }
func (OSFileSystem) MkdirAll(path string, perm os.FileMode) error { return os.MkdirAll(path, perm) }

type memEntry struct {
	data    []byte
	mode    os.FileMode
	modTime time.Time
}

func (e *memEntry) info(name string) *memFileInfo {
	return &memFileInfo{name: filepath.Base(name), size: int64(len(e.data)), mode: e.mode, modTime: e.modTime}
}

// MemoryFileSystem is an in-memory FileSystem for tests. Paths are
// cleaned; the root directory always exists.
type MemoryFileSystem struct {
	mu      sync.RWMutex
	entries map[string]*memEntry
	now     func() time.Time
}

// NewMemoryFileSystem returns an empty filesystem holding only the root.
func NewMemoryFileSystem() *MemoryFileSystem {
	m := &MemoryFileSystem{entries: make(map[string]*memEntry), now: time.Now}
	m.entries[string(filepath.Separator)] = &memEntry{mode: fs.ModeDir | 0755}
	m.entries["."] = &memEntry{mode: fs.ModeDir | 0755}
	return m
}

func (m *MemoryFileSystem) lookup(op, name string) (*memEntry, error) {
	e, ok := m.entries[name]
	if !ok {
		return nil, &fs.PathError{Op: op, Path: name, Err: fs.ErrNotExist}
	}
	return e, nil
}

// Open opens a regular file for reading.
func (m *MemoryFileSystem) Open(name string) (fs.File, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	name = filepath.Clean(name)
	e, err := m.lookup("open", name)
	if err != nil {
		return nil, err
	}
	if e.mode.IsDir() {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	return &memFile{Reader: bytes.NewReader(e.data), info: e.info(name)}, nil
}

// Create truncates or creates name. Writes become visible on Close.
func (m *MemoryFileSystem) Create(name string) (io.WriteCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	name = filepath.Clean(name)
	parent, err := m.lookup("create", filepath.Dir(name))
	if err != nil {
		return nil, err
	}
	if !parent.mode.IsDir() {
		return nil, &fs.PathError{Op: "create", Path: name, Err: fs.ErrInvalid}
	}
	if e, ok := m.entries[name]; ok && e.mode.IsDir() {
		return nil, &fs.PathError{Op: "create", Path: name, Err: fs.ErrExist}
	}
	m.entries[name] = &memEntry{mode: 0644, modTime: m.now()}
	return &memWriter{fs: m, name: name}, nil
}

// ReadFile returns a copy of a file's contents.
func (m *MemoryFileSystem) ReadFile(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	name = filepath.Clean(name)
	e, err := m.lookup("read", name)
	if err != nil {
		return nil, err
	}
	if e.mode.IsDir() {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrInvalid}
	}
	return bytes.Clone(e.data), nil
}

// WriteFile stores a copy of data under name, creating parent
// directories as needed.
func (m *MemoryFileSystem) WriteFile(name string, data []byte) {
	name = filepath.Clean(name)
	_ = m.MkdirAll(filepath.Dir(name), 0755)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[name] = &memEntry{data: bytes.Clone(data), mode: 0644, modTime: m.now()}
}

// Stat describes a file or directory.
func (m *MemoryFileSystem) Stat(name string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	name = filepath.Clean(name)
	e, err := m.lookup("stat", name)
	if err != nil {
		return nil, err
	}
	return e.info(name), nil
}

// MkdirAll creates path and its missing parents. It fails if any of them
// is a regular file.
func (m *MemoryFileSystem) MkdirAll(path string, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var missing []string
	for p := filepath.Clean(path); ; p = filepath.Dir(p) {
		if e, ok := m.entries[p]; ok {
			if !e.mode.IsDir() {
				return &fs.PathError{Op: "mkdir", Path: p, Err: fs.ErrExist}
			}
			break
		}
		missing = append(missing, p)
	}
	for _, p := range missing {
		m.entries[p] = &memEntry{mode: fs.ModeDir | perm.Perm(), modTime: m.now()}
	}
	return nil
}

// Files lists the regular files, sorted.
func (m *MemoryFileSystem) Files() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []string
	for name, e := range m.entries {
		if !e.mode.IsDir() {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// memFile is an open read-only file.
type memFile struct {
	*bytes.Reader
	info *memFileInfo
}

func (f *memFile) Stat() (fs.FileInfo, error) { return f.info, nil }
func (f *memFile) Close() error               { return nil }

type memWriter struct {
	fs     *MemoryFileSystem
	name   string
	buf    bytes.Buffer
	closed bool
}

func (w *memWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, fs.ErrClosed
	}
	return w.buf.Write(p)
}

func (w *memWriter) Close() error {
	if w.closed {
		return fs.ErrClosed
	}
	w.closed = true

	w.fs.mu.Lock()
	defer w.fs.mu.Unlock()
	w.fs.entries[w.name] = &memEntry{data: w.buf.Bytes(), mode: 0644, modTime: w.fs.now()}
	return nil
}

type memFileInfo struct {
	name    string
	size    int64
	mode    os.FileMode
	modTime time.Time
}

func (i *memFileInfo) Name() string       { return i.name }
func (i *memFileInfo) Size() int64        { return i.size }
func (i *memFileInfo) Mode() os.FileMode  { return i.mode }
func (i *memFileInfo) ModTime() time.Time { return i.modTime }
func (i *memFileInfo) IsDir() bool        { return i.mode.IsDir() }
func (i *memFileInfo) Sys() any           { return nil }
