// Package fs implements fpath.Filesystem on top of the os package.
package fs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"fpath-go/internal/fpath"
)

// OSFilesystem is the real filesystem implementation of fpath.Filesystem.
type OSFilesystem struct{}

// NewOSFilesystem creates a filesystem that operates on the real filesystem.
func NewOSFilesystem() *OSFilesystem {
	return &OSFilesystem{}
}

// Stat returns fresh file info for a path, following symlinks.
func (f *OSFilesystem) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

// Mkdir creates a single directory.
func (f *OSFilesystem) Mkdir(name string, perm fs.FileMode) error {
	return os.Mkdir(name, perm)
}

// ReadFile reads the whole file.
func (f *OSFilesystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// ReadDir returns the entry names of a directory.
func (f *OSFilesystem) ReadDir(name string) ([]string, error) {
	entries, err := os.ReadDir(name)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, entry := range entries {
		names[i] = entry.Name()
	}
	return names, nil
}

// SameFile reports whether a and b describe the same file.
func (f *OSFilesystem) SameFile(a, b fs.FileInfo) bool {
	return os.SameFile(a, b)
}

// WriteFile writes data using an atomic write (temp file + rename), so
// readers never observe a partially written file.
func (f *OSFilesystem) WriteFile(name string, data []byte, perm fs.FileMode) error {
	// The temp file lives next to the target so the rename stays on one device.
	dir := filepath.Dir(name)
	tmpPath := filepath.Join(dir, ".fpath-"+uuid.NewString()+".tmp")

	tmpFile, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return err
	}

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, name); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// Compile-time check that OSFilesystem implements fpath.Filesystem
var _ fpath.Filesystem = (*OSFilesystem)(nil)
