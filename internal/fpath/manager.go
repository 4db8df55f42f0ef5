package fpath

import "io/fs"

const (
	DefaultDirMode  fs.FileMode = 0755
	DefaultFileMode fs.FileMode = 0644
)

// Manager runs filesystem operations on Path values: stat probes, directory
// ensure, tree walks and codec-aware reads and writes.
// It holds no mutable state of its own and is safe for concurrent use when
// its Filesystem and Logger are.
type Manager struct {
	fsys     Filesystem
	codecs   CodecLookup
	logger   Logger
	dirMode  fs.FileMode
	fileMode fs.FileMode
}

// Option configures a Manager.
type Option func(*Manager)

// WithDirMode sets the permission bits for directories created by EnsureDir.
func WithDirMode(mode fs.FileMode) Option {
	return func(m *Manager) { m.dirMode = mode }
}

// WithFileMode sets the permission bits for files created by Write.
func WithFileMode(mode fs.FileMode) Option {
	return func(m *Manager) { m.fileMode = mode }
}

// NewManager creates a Manager over fsys. codecs may be nil, in which case no
// named parsers are available. A nil logger discards output.
func NewManager(fsys Filesystem, codecs CodecLookup, logger Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = NewNopLogger()
	}
	m := &Manager{
		fsys:     fsys,
		codecs:   codecs,
		logger:   logger,
		dirMode:  DefaultDirMode,
		fileMode: DefaultFileMode,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}
