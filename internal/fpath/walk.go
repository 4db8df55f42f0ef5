package fpath

import (
	"errors"
	"io/fs"
	"sort"
)

// SkipDir can be returned by a WalkFunc to skip the directory it was called
// on. It is fs.SkipDir so callbacks shared with filepath.WalkDir keep working.
var SkipDir = fs.SkipDir

// WalkFunc is called for every entry visited by Recurse.
// Returning SkipDir skips the entry's subtree and has no effect on files.
// Any other non-nil error stops the walk and is returned by Recurse.
type WalkFunc func(entry Path) error

// List returns the immediate children of p, sorted by path.
// A missing p fails with ErrNotFound and a file with ErrExpectDirectory.
func (m *Manager) List(p Path) ([]Path, error) {
	st, err := m.Stat(p)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, notFoundError("list", p.path)
	}
	if !st.IsDir() {
		return nil, expectDirectoryError("list", "list", p.path)
	}

	names, err := m.fsys.ReadDir(p.path)
	if err != nil {
		if isNotExist(err) {
			return nil, notFoundError("list", p.path)
		}
		return nil, ioError("readdir", p.path, err)
	}

	children := make([]Path, len(names))
	for i, name := range names {
		children[i] = p.Append(Str(name))
	}
	sort.Slice(children, func(i, j int) bool {
		return children[i].path < children[j].path
	})
	return children, nil
}

// Recurse walks the tree rooted at p depth-first, in pre-order, calling fn
// for every entry below p in lexical order. A directory's whole subtree is
// visited before its next sibling. When p is not a directory fn is called
// once with p itself.
//
// The walk uses an explicit stack, so very deep trees do not grow the Go
// stack.
func (m *Manager) Recurse(p Path, fn WalkFunc) error {
	isDir, err := m.IsDir(p)
	if err != nil {
		return err
	}
	if !isDir {
		if err := fn(p); err != nil && !errors.Is(err, SkipDir) {
			return err
		}
		return nil
	}

	children, err := m.List(p)
	if err != nil {
		return err
	}
	stack := pushReversed(nil, children)

	for len(stack) > 0 {
		entry := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		isDir, err := m.IsDir(entry)
		if err != nil {
			return err
		}

		if err := fn(entry); err != nil {
			if errors.Is(err, SkipDir) {
				continue
			}
			return err
		}
		if !isDir {
			continue
		}

		grandchildren, err := m.List(entry)
		if err != nil {
			return err
		}
		stack = pushReversed(stack, grandchildren)
	}
	return nil
}

// pushReversed pushes paths so that the first one is popped first.
func pushReversed(stack, paths []Path) []Path {
	for i := len(paths) - 1; i >= 0; i-- {
		stack = append(stack, paths[i])
	}
	return stack
}
