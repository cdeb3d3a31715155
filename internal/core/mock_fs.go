package core

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
)

// MockFileSystem is an in-memory FileSystem for tests.
// Directories are implied by the files stored below them.
type MockFileSystem struct {
	mu    sync.RWMutex
	files map[string][]byte

	// ReadErr, when set, is returned by every ReadFile call.
	ReadErr error
	// WriteErr, when set, is returned by every WriteFile call.
	WriteErr error

	reads int
}

// NewMockFileSystem returns an empty MockFileSystem.
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{files: make(map[string][]byte)}
}

// SetFile stores data at path.
func (m *MockFileSystem) SetFile(path string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[filepath.Clean(path)] = data
}

// GetFile returns the data stored at path.
func (m *MockFileSystem) GetFile(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[filepath.Clean(path)]
	return data, ok
}

// Reads returns how many ReadFile calls were served.
func (m *MockFileSystem) Reads() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.reads
}

func (m *MockFileSystem) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	data, ok := m.files[filepath.Clean(path)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return slices.Clone(data), nil
}

func (m *MockFileSystem) WriteFile(ctx context.Context, path string, data []byte, _ os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.SetFile(path, slices.Clone(data))
	return nil
}

func (m *MockFileSystem) Stat(ctx context.Context, path string) (os.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	clean := filepath.Clean(path)
	if data, ok := m.files[clean]; ok {
		return mockInfo{name: filepath.Base(clean), size: int64(len(data))}, nil
	}
	if m.isDir(clean) {
		return mockInfo{name: filepath.Base(clean), dir: true}, nil
	}
	return nil, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
}

func (m *MockFileSystem) ReadDir(ctx context.Context, path string) ([]os.DirEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	clean := filepath.Clean(path)
	if !m.isDir(clean) {
		return nil, &fs.PathError{Op: "readdir", Path: path, Err: fs.ErrNotExist}
	}

	seen := make(map[string]bool)
	var entries []os.DirEntry
	for name, data := range m.files {
		rel, ok := childOf(clean, name)
		if !ok {
			continue
		}
		first, _, nested := strings.Cut(rel, string(filepath.Separator))
		if seen[first] {
			continue
		}
		seen[first] = true
		if nested {
			entries = append(entries, fs.FileInfoToDirEntry(mockInfo{name: first, dir: true}))
		} else {
			entries = append(entries, fs.FileInfoToDirEntry(mockInfo{name: first, size: int64(len(data))}))
		}
	}

	slices.SortFunc(entries, func(a, b os.DirEntry) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return entries, nil
}

// isDir reports whether any stored file lives below dir. Callers hold mu.
func (m *MockFileSystem) isDir(dir string) bool {
	for name := range m.files {
		if _, ok := childOf(dir, name); ok {
			return true
		}
	}
	return false
}

// childOf returns name relative to dir when name lies strictly below it.
func childOf(dir, name string) (string, bool) {
	if dir == "." {
		if filepath.IsAbs(name) {
			return "", false
		}
		return name, true
	}
	prefix := dir + string(filepath.Separator)
	if dir == string(filepath.Separator) {
		prefix = dir
	}
	if !strings.HasPrefix(name, prefix) {
		return "", false
	}
	return strings.TrimPrefix(name, prefix), true
}

type mockInfo struct {
	name string
	size int64
	dir  bool
}

func (i mockInfo) Name() string { return i.name }
func (i mockInfo) Size() int64  { return i.size }
func (i mockInfo) Mode() fs.FileMode {
	if i.dir {
		return fs.ModeDir | 0o755
	}
	return 0o644
}
func (i mockInfo) ModTime() time.Time { return time.Time{} }
func (i mockInfo) IsDir() bool        { return i.dir }
func (i mockInfo) Sys() any           { return nil }

// Ensure MockFileSystem implements FileSystem.
var _ FileSystem = (*MockFileSystem)(nil)
