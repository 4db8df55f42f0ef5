package fpath

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Copy copies src to dst and returns dst. Content is copied raw, without
// any codec. A directory is copied recursively, merging into dst when it
// already exists as a directory.
//
// Copy fails when src does not exist, when src and dst are the same file,
// when a file would replace a directory or a directory a file, and when dst
// lies inside the src directory.
func (m *Manager) Copy(src, dst Path) (Path, error) {
	srcAbs, err := src.abs()
	if err != nil {
		return Path{}, err
	}
	dstAbs, err := dst.abs()
	if err != nil {
		return Path{}, err
	}

	srcSt, err := m.stat(srcAbs)
	if err != nil {
		return Path{}, err
	}
	if srcSt == nil {
		return Path{}, notFoundError("copy", src.path)
	}
	dstSt, err := m.stat(dstAbs)
	if err != nil {
		return Path{}, err
	}

	if dstSt != nil {
		if srcAbs == dstAbs || m.fsys.SameFile(srcSt.Info, dstSt.Info) {
			return Path{}, &Error{
				Code:    CodeSameFile,
				Op:      "copy",
				Path:    src.path,
				Message: fmt.Sprintf("Cannot copy '%s' to '%s'; they are the same file.", src.path, dst.path),
			}
		}
		if !srcSt.IsDir() && dstSt.IsDir() {
			return Path{}, expectFileError("copy", "copy a file over", dst.path)
		}
		if srcSt.IsDir() && !dstSt.IsDir() {
			return Path{}, expectDirectoryError("copy", "copy a directory over", dst.path)
		}
	}

	if !srcSt.IsDir() {
		if err := m.copyFile(Path{path: srcAbs}, Path{path: dstAbs}); err != nil {
			return Path{}, err
		}
		return dst, nil
	}

	if isWithin(srcAbs, dstAbs) {
		return Path{}, invalidArgumentError("copy",
			fmt.Sprintf("Cannot copy '%s' to a subdirectory of itself, '%s'", src.path, dst.path))
	}
	if err := m.copyTree(Path{path: srcAbs}, Path{path: dstAbs}); err != nil {
		return Path{}, err
	}
	return dst, nil
}

func (m *Manager) copyFile(src, dst Path) error {
	data, err := m.ReadBytes(src)
	if err != nil {
		return err
	}
	if data == nil {
		return notFoundError("copy", src.path)
	}
	_, err = m.Write(dst, data, WriteOptions{})
	return err
}

func (m *Manager) copyTree(src, dst Path) error {
	if _, err := m.EnsureDir(dst); err != nil {
		return err
	}
	return m.Recurse(src, func(entry Path) error {
		rel, err := src.Relative(Of(entry))
		if err != nil {
			return err
		}
		target := dst.Append(Of(rel))

		isDir, err := m.IsDir(entry)
		if err != nil {
			return err
		}
		if isDir {
			_, err := m.EnsureDir(target)
			return err
		}
		return m.copyFile(entry, target)
	})
}

// isWithin reports whether child is parent or lies below it. Both must be
// clean absolute paths.
func isWithin(parent, child string) bool {
	if parent == child {
		return true
	}
	prefix := parent
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(child, prefix)
}
