package fpath

import (
	"errors"
	"io/fs"
	"path/filepath"
)

// EnsureDir makes sure p exists as a directory, creating every missing
// ancestor. It returns p unchanged on success.
//
// The walk goes upward from p until it finds an existing directory, then
// creates the missing segments from the shallowest to the deepest. An
// ancestor that exists but is not a directory fails with ErrNotADirectory
// naming that ancestor; nothing is created in that case. If p itself is a
// file the error is ErrExpectDirectory. Calling EnsureDir on an existing
// directory is a no-op.
func (m *Manager) EnsureDir(p Path) (Path, error) {
	target, err := p.abs()
	if err != nil {
		return Path{}, err
	}

	st, err := m.stat(target)
	if err != nil {
		return Path{}, err
	}
	if st != nil {
		if st.IsDir() {
			return p, nil
		}
		return Path{}, expectDirectoryError("mkdir", "create directory", p.path)
	}

	if err := m.ensureDir(target); err != nil {
		return Path{}, err
	}
	return p, nil
}

// ensureDir is the directory state machine behind EnsureDir and Write. dir
// must be absolute. Every non-directory it meets, dir included, is reported
// as ErrNotADirectory.
func (m *Manager) ensureDir(dir string) error {
	pending, err := m.missingSegments(dir)
	if err != nil {
		return err
	}
	for i := len(pending) - 1; i >= 0; i-- {
		if err := m.mkdir(pending[i]); err != nil {
			return err
		}
	}
	return nil
}

// missingSegments walks upward from dir and returns the paths that do not
// exist yet, deepest first. The walk stops at the first existing directory
// or at the filesystem root.
func (m *Manager) missingSegments(dir string) ([]string, error) {
	var pending []string
	for current := dir; ; {
		st, err := m.stat(current)
		if err != nil {
			return nil, err
		}
		if st != nil {
			if st.IsDir() {
				return pending, nil
			}
			return nil, notADirectoryError("mkdir", current)
		}

		pending = append(pending, current)
		parent := filepath.Dir(current)
		if parent == current {
			return pending, nil
		}
		current = parent
	}
}

// mkdir creates one directory. A failed create is re-checked: another
// creator may have made the directory first, which is fine, while anything
// other than a directory at that path is a conflict.
func (m *Manager) mkdir(dir string) error {
	err := m.fsys.Mkdir(dir, m.dirMode)
	if err == nil {
		m.logger.Debug("directory created", "path", dir)
		return nil
	}

	st, statErr := m.stat(dir)
	if statErr != nil {
		return statErr
	}
	switch {
	case st != nil && st.IsDir():
		return nil
	case st != nil:
		return notADirectoryError("mkdir", dir)
	case errors.Is(err, fs.ErrNotExist):
		// The parent vanished between probing and creating.
		return notFoundError("create directory", dir)
	default:
		return ioError("mkdir", dir, err)
	}
}
