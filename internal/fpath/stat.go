package fpath

import (
	"errors"
	"io/fs"
	"syscall"
	"time"
)

// Kind classifies an existing path.
type Kind uint8

const (
	KindFile Kind = iota + 1
	KindDirectory
	KindOther // sockets, devices, named pipes
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	case KindOther:
		return "other"
	default:
		return "unknown"
	}
}

// StatResult describes an existing path at the moment it was probed.
// A missing path has no StatResult.
type StatResult struct {
	Kind    Kind
	Size    int64
	ModTime time.Time
	Mode    fs.FileMode
	Info    fs.FileInfo
}

func (s *StatResult) IsFile() bool { return s.Kind == KindFile }
func (s *StatResult) IsDir() bool  { return s.Kind == KindDirectory }

func newStatResult(info fs.FileInfo) *StatResult {
	kind := KindOther
	switch {
	case info.IsDir():
		kind = KindDirectory
	case info.Mode().IsRegular():
		kind = KindFile
	}
	return &StatResult{
		Kind:    kind,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Mode:    info.Mode(),
		Info:    info,
	}
}

// isNotExist treats a path below a regular file as missing: the kernel
// answers ENOTDIR there, but nothing exists at that path either.
func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}

// Stat probes p. It returns nil, nil if p does not exist. Any other failure
// is an *Error with code STAT_FAILED wrapping the OS error.
func (m *Manager) Stat(p Path) (*StatResult, error) {
	return m.stat(p.path)
}

func (m *Manager) stat(name string) (*StatResult, error) {
	info, err := m.fsys.Stat(name)
	if err != nil {
		if isNotExist(err) {
			return nil, nil
		}
		return nil, statError(name, err)
	}
	return newStatResult(info), nil
}

// IsFile reports whether p is a regular file. A missing path is not an error.
func (m *Manager) IsFile(p Path) (bool, error) {
	st, err := m.Stat(p)
	if err != nil || st == nil {
		return false, err
	}
	return st.IsFile(), nil
}

// IsDir reports whether p is a directory. A missing path is not an error.
func (m *Manager) IsDir(p Path) (bool, error) {
	st, err := m.Stat(p)
	if err != nil || st == nil {
		return false, err
	}
	return st.IsDir(), nil
}

// Exists reports whether anything exists at p.
func (m *Manager) Exists(p Path) (bool, error) {
	st, err := m.Stat(p)
	return st != nil, err
}
