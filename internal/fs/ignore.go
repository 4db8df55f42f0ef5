package fs

import (
	"fmt"
	"path/filepath"
	"strings"

	"fpath-go/internal/fpath"
)

// IgnoreFileName is the per-directory file listing extra ignore patterns.
const IgnoreFileName = ".fpathignore"

// defaultIgnorePatterns are always applied regardless of config or ignore file.
var defaultIgnorePatterns = []string{IgnoreFileName}

type ignorePattern struct {
	pattern   string
	matchPath bool // true = match against relative path; false = match against basename only
}

// IgnoreMatcher checks paths against a set of ignore patterns.
// Patterns without '/' match against the basename only.
// Patterns with '/' match against the full relative path from the walk root.
type IgnoreMatcher struct {
	patterns []ignorePattern
}

// NewIgnoreMatcher creates an IgnoreMatcher from raw pattern strings plus the
// default patterns. Blank lines and lines starting with '#' are skipped.
func NewIgnoreMatcher(rawPatterns []string) *IgnoreMatcher {
	var patterns []ignorePattern
	for _, raw := range append(append([]string{}, defaultIgnorePatterns...), rawPatterns...) {
		raw = strings.TrimSpace(raw)
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		patterns = append(patterns, ignorePattern{
			pattern:   strings.TrimSuffix(raw, "/"),
			matchPath: strings.Contains(strings.TrimSuffix(raw, "/"), "/"),
		})
	}
	return &IgnoreMatcher{patterns: patterns}
}

// Match reports whether the given relative path should be ignored.
func (m *IgnoreMatcher) Match(relativePath string) bool {
	if relativePath == "" {
		return false
	}

	normalized := filepath.ToSlash(relativePath)
	basename := filepath.Base(relativePath)

	for _, p := range m.patterns {
		var matched bool
		var err error
		if p.matchPath {
			matched, err = filepath.Match(p.pattern, normalized)
		} else {
			matched, err = filepath.Match(p.pattern, basename)
		}
		if err != nil {
			// Bad pattern: skip it.
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// Filter wraps fn so that entries matching m are not reported. An ignored
// directory is skipped together with its subtree.
func (m *IgnoreMatcher) Filter(root fpath.Path, fn fpath.WalkFunc) fpath.WalkFunc {
	return func(entry fpath.Path) error {
		rel, err := root.Relative(fpath.Of(entry))
		if err != nil {
			return err
		}
		if m.Match(rel.String()) {
			return fpath.SkipDir
		}
		return fn(entry)
	}
}

// LoadIgnoreFile reads the ignore file in dir and returns its raw lines.
// Returns nil and no error if the file does not exist.
func LoadIgnoreFile(m *fpath.Manager, dir fpath.Path) ([]string, error) {
	content, err := m.Read(dir.Join(IgnoreFileName), fpath.ReadOptions{})
	if err != nil {
		return nil, fmt.Errorf("reading ignore file: %w", err)
	}
	if content == nil {
		return nil, nil
	}

	text := strings.ReplaceAll(content.(string), "\r\n", "\n")
	return strings.Split(strings.TrimRight(text, "\n"), "\n"), nil
}
