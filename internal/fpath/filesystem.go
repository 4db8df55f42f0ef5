package fpath

import (
	"io/fs"
)

// Filesystem provides the host primitives the path operations are built on.
// It abstracts file access to enable testing without touching the real filesystem.
//
// Implementations report a missing path with an error matching fs.ErrNotExist
// and an existing path with an error matching fs.ErrExist.
type Filesystem interface {
	// Stat returns fresh file info for a path. It is never cached.
	Stat(name string) (fs.FileInfo, error)

	// Mkdir creates a single directory. The parent must already exist.
	Mkdir(name string, perm fs.FileMode) error

	// ReadFile reads the whole file.
	ReadFile(name string) ([]byte, error)

	// WriteFile replaces the file's content, creating it if needed.
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// ReadDir returns the names of the entries in a directory.
	ReadDir(name string) ([]string, error)

	// SameFile reports whether two infos describe the same file.
	SameFile(a, b fs.FileInfo) bool
}

// Logger provides structured logging for path operations.
// The args follow slog conventions: alternating key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NopLogger is a Logger that discards all output. Use in tests.
type NopLogger struct{}

func NewNopLogger() *NopLogger { return &NopLogger{} }

func (*NopLogger) Debug(string, ...any) {}
func (*NopLogger) Info(string, ...any)  {}
func (*NopLogger) Warn(string, ...any)  {}
func (*NopLogger) Error(string, ...any) {}

// SerializeFunc encodes a value before it is written.
type SerializeFunc func(v any) ([]byte, error)

// DeserializeFunc decodes raw file content after it is read.
type DeserializeFunc func(data []byte) (any, error)

// CodecLookup resolves parser names to codec functions.
// Both methods return nil when nothing is registered for name.
type CodecLookup interface {
	Serializer(name string) SerializeFunc
	Deserializer(name string) DeserializeFunc
}
