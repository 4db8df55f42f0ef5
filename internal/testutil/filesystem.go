package testutil

import (
	"io/fs"
	"path/filepath"
	"sort"
	"sync"
	"syscall"
	"time"

	"fpath-go/internal/fpath"
)

// MockFile represents a file or directory in the mock filesystem.
type MockFile struct {
	Content     []byte
	Permissions fs.FileMode
	ModTime     time.Time
	IsDirectory bool
}

// MockFilesystem is an in-memory fpath.Filesystem for testing.
// Paths are made absolute with filepath.Abs. The root always exists.
// It is safe for concurrent use.
type MockFilesystem struct {
	mu    sync.Mutex
	files map[string]*MockFile

	statErrors  map[string]error
	beforeMkdir func(path string)

	// Mkdirs records every successful Mkdir call in order.
	Mkdirs []string
}

// NewMockFilesystem creates a mock filesystem containing only the root.
func NewMockFilesystem() *MockFilesystem {
	m := &MockFilesystem{
		files:      make(map[string]*MockFile),
		statErrors: make(map[string]error),
	}
	root, _ := filepath.Abs(string(filepath.Separator))
	m.files[root] = &MockFile{Permissions: fs.ModeDir | 0755, ModTime: time.Now(), IsDirectory: true}
	return m
}

// AddFile adds a file, creating missing parent directories.
func (m *MockFilesystem) AddFile(path string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	abs := m.abs(path)
	m.addParents(abs)
	m.files[abs] = &MockFile{Content: content, Permissions: 0644, ModTime: time.Now()}
}

// AddDirectory adds a directory, creating missing parent directories.
func (m *MockFilesystem) AddDirectory(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	abs := m.abs(path)
	m.addParents(abs)
	m.files[abs] = &MockFile{Permissions: fs.ModeDir | 0755, ModTime: time.Now(), IsDirectory: true}
}

// FailStat makes every Stat of path fail with err.
func (m *MockFilesystem) FailStat(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statErrors[m.abs(path)] = err
}

// BeforeMkdir installs a hook that runs before each Mkdir, without the lock
// held. Tests use it to simulate a concurrent creator.
func (m *MockFilesystem) BeforeMkdir(hook func(path string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.beforeMkdir = hook
}

// Get returns the entry at path, or nil.
func (m *MockFilesystem) Get(path string) *MockFile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.files[m.abs(path)]
}

// Paths returns every path in the filesystem, sorted.
func (m *MockFilesystem) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (m *MockFilesystem) Stat(name string) (fs.FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	abs := m.abs(name)
	if err, ok := m.statErrors[abs]; ok {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: err}
	}
	if err := m.checkParents(abs, "stat"); err != nil {
		return nil, err
	}
	file, ok := m.files[abs]
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrNotExist}
	}
	return newMockFileInfo(abs, file), nil
}

func (m *MockFilesystem) Mkdir(name string, perm fs.FileMode) error {
	m.mu.Lock()
	hook := m.beforeMkdir
	m.mu.Unlock()
	if hook != nil {
		hook(name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	abs := m.abs(name)
	if _, ok := m.files[abs]; ok {
		return &fs.PathError{Op: "mkdir", Path: name, Err: fs.ErrExist}
	}
	if err := m.checkParents(abs, "mkdir"); err != nil {
		return err
	}
	if _, ok := m.files[filepath.Dir(abs)]; !ok {
		return &fs.PathError{Op: "mkdir", Path: name, Err: fs.ErrNotExist}
	}
	m.files[abs] = &MockFile{Permissions: fs.ModeDir | perm, ModTime: time.Now(), IsDirectory: true}
	m.Mkdirs = append(m.Mkdirs, abs)
	return nil
}

func (m *MockFilesystem) ReadFile(name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	abs := m.abs(name)
	file, ok := m.files[abs]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	if file.IsDirectory {
		return nil, &fs.PathError{Op: "read", Path: name, Err: syscall.EISDIR}
	}
	return append([]byte{}, file.Content...), nil
}

func (m *MockFilesystem) WriteFile(name string, data []byte, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	abs := m.abs(name)
	if err := m.checkParents(abs, "open"); err != nil {
		return err
	}
	if _, ok := m.files[filepath.Dir(abs)]; !ok {
		return &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	if file, ok := m.files[abs]; ok && file.IsDirectory {
		return &fs.PathError{Op: "open", Path: name, Err: syscall.EISDIR}
	}
	m.files[abs] = &MockFile{Content: append([]byte{}, data...), Permissions: perm, ModTime: time.Now()}
	return nil
}

// ReadDir returns entry names in map order, so callers must not rely on the
// filesystem for ordering.
func (m *MockFilesystem) ReadDir(name string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	abs := m.abs(name)
	file, ok := m.files[abs]
	if !ok {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}
	if !file.IsDirectory {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: syscall.ENOTDIR}
	}

	var names []string
	for p := range m.files {
		if p != abs && filepath.Dir(p) == abs {
			names = append(names, filepath.Base(p))
		}
	}
	return names, nil
}

func (m *MockFilesystem) SameFile(a, b fs.FileInfo) bool {
	ma, ok1 := a.(*mockFileInfo)
	mb, ok2 := b.(*mockFileInfo)
	return ok1 && ok2 && ma.mockFile == mb.mockFile
}

func (m *MockFilesystem) abs(name string) string {
	abs, err := filepath.Abs(name)
	if err != nil {
		return filepath.Clean(name)
	}
	return abs
}

// checkParents fails with ENOTDIR when an ancestor of abs is a file, like
// the kernel does.
func (m *MockFilesystem) checkParents(abs, op string) error {
	for dir := filepath.Dir(abs); ; dir = filepath.Dir(dir) {
		if file, ok := m.files[dir]; ok && !file.IsDirectory {
			return &fs.PathError{Op: op, Path: abs, Err: syscall.ENOTDIR}
		}
		if filepath.Dir(dir) == dir {
			return nil
		}
	}
}

func (m *MockFilesystem) addParents(abs string) {
	for dir := filepath.Dir(abs); ; dir = filepath.Dir(dir) {
		if _, ok := m.files[dir]; !ok {
			m.files[dir] = &MockFile{Permissions: fs.ModeDir | 0755, ModTime: time.Now(), IsDirectory: true}
		}
		if filepath.Dir(dir) == dir {
			return
		}
	}
}

// mockFileInfo implements fs.FileInfo
type mockFileInfo struct {
	name     string
	size     int64
	mode     fs.FileMode
	modTime  time.Time
	isDir    bool
	mockFile *MockFile
}

func newMockFileInfo(abs string, file *MockFile) *mockFileInfo {
	mode := file.Permissions
	if file.IsDirectory {
		mode |= fs.ModeDir
	}
	return &mockFileInfo{
		name:     filepath.Base(abs),
		size:     int64(len(file.Content)),
		mode:     mode,
		modTime:  file.ModTime,
		isDir:    file.IsDirectory,
		mockFile: file,
	}
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) Mode() fs.FileMode  { return m.mode }
func (m *mockFileInfo) ModTime() time.Time { return m.modTime }
func (m *mockFileInfo) IsDir() bool        { return m.isDir }
func (m *mockFileInfo) Sys() any           { return m.mockFile }

// Compile-time check
var _ fpath.Filesystem = (*MockFilesystem)(nil)
