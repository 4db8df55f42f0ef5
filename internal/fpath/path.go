// Package fpath wraps filesystem paths in an immutable value type and builds
// directory creation, tree walks and codec-aware file IO on top of it.
package fpath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Separator and ListSeparator are the host platform's path separator and
// PATH list delimiter.
const (
	Separator     = string(os.PathSeparator)
	ListSeparator = string(os.PathListSeparator)
)

// Path is an immutable filesystem path. Every transformation returns a new
// Path; the wrapped string is never modified after construction.
// The zero value is the empty path.
type Path struct {
	path string
}

type argKind uint8

const (
	argInvalid argKind = iota
	argString
	argPath
)

// PathArg is either a raw string or a Path. Construct one with Str or Of.
// A zero PathArg is invalid: New drops it, Resolve and Relative reject it.
type PathArg struct {
	kind argKind
	s    string
	p    Path
}

// Str wraps a raw path string.
func Str(s string) PathArg { return PathArg{kind: argString, s: s} }

// Of wraps an existing Path.
func Of(p Path) PathArg { return PathArg{kind: argPath, p: p} }

// Strs converts a list of raw strings into arguments.
func Strs(parts ...string) []PathArg {
	args := make([]PathArg, len(parts))
	for i, s := range parts {
		args[i] = Str(s)
	}
	return args
}

func (a PathArg) value() (string, bool) {
	switch a.kind {
	case argString:
		return a.s, true
	case argPath:
		return a.p.path, true
	default:
		return "", false
	}
}

func (a PathArg) String() string {
	s, ok := a.value()
	if !ok {
		return "<invalid>"
	}
	return s
}

// New joins parts with platform join semantics. Empty and invalid parts are
// dropped. With no usable parts the result is the current working directory.
// Joining cleans redundant separators and "." segments; leading ".." segments
// are kept.
func New(parts ...PathArg) Path {
	strs := make([]string, 0, len(parts))
	for _, a := range parts {
		if s, ok := a.value(); ok && s != "" {
			strs = append(strs, s)
		}
	}
	if len(strs) == 0 {
		return cwd()
	}
	return Path{path: filepath.Join(strs...)}
}

// NewFromStrings is New for plain strings.
func NewFromStrings(parts ...string) Path {
	return New(Strs(parts...)...)
}

// Home returns the current user's home directory.
func Home() (Path, error) {
	dir, err := os.UserHomeDir()
	if err != nil {
		return Path{}, fmt.Errorf("determining home directory: %w", err)
	}
	return Path{path: dir}, nil
}

// Root returns the root of the filesystem containing the working directory.
func Root() Path {
	wd := cwd().path
	vol := filepath.VolumeName(wd)
	return Path{path: vol + Separator}
}

func cwd() Path {
	wd, err := os.Getwd()
	if err != nil {
		// The working directory was removed underneath us; "." still resolves
		// relative to it for the OS calls that follow.
		return Path{path: "."}
	}
	return Path{path: wd}
}

// String returns the raw path.
func (p Path) String() string { return p.path }

// Equal reports whether both paths wrap the same string.
func (p Path) Equal(other Path) bool { return p.path == other.path }

// IsZero reports whether p is the empty path.
func (p Path) IsZero() bool { return p.path == "" }

// Resolve joins p with parts and returns the absolute, cleaned result.
// With no parts it makes p itself absolute.
func (p Path) Resolve(parts ...PathArg) (Path, error) {
	strs := make([]string, 0, len(parts)+1)
	strs = append(strs, p.path)
	for i, a := range parts {
		s, ok := a.value()
		if !ok {
			return Path{}, invalidArgumentError("resolve", fmt.Sprintf("Invalid argument %s at [%d]", a, i))
		}
		if filepath.IsAbs(s) {
			strs = strs[:0]
		}
		strs = append(strs, s)
	}
	abs, err := filepath.Abs(filepath.Join(strs...))
	if err != nil {
		return Path{}, &Error{Code: CodeInvalidArgument, Op: "resolve", Path: p.path, Err: err}
	}
	return Path{path: abs}, nil
}

// Relative returns the path from p to to.
func (p Path) Relative(to PathArg) (Path, error) {
	s, ok := to.value()
	if !ok {
		return Path{}, invalidArgumentError("relative", fmt.Sprintf("Invalid argument %s", to))
	}
	from, target := p.path, s
	// filepath.Rel needs both sides absolute or both relative.
	if filepath.IsAbs(from) != filepath.IsAbs(target) {
		var err error
		if from, err = filepath.Abs(from); err != nil {
			return Path{}, &Error{Code: CodeInvalidArgument, Op: "relative", Path: p.path, Err: err}
		}
		if target, err = filepath.Abs(target); err != nil {
			return Path{}, &Error{Code: CodeInvalidArgument, Op: "relative", Path: s, Err: err}
		}
	}
	rel, err := filepath.Rel(from, target)
	if err != nil {
		return Path{}, &Error{Code: CodeInvalidArgument, Op: "relative", Path: p.path, Err: err}
	}
	return Path{path: rel}, nil
}

// Append joins parts onto p. It is New(Of(p), parts...).
func (p Path) Append(parts ...PathArg) Path {
	return New(append([]PathArg{Of(p)}, parts...)...)
}

// Join is Append for plain strings.
func (p Path) Join(parts ...string) Path {
	return p.Append(Strs(parts...)...)
}

// Split returns the non-empty segments of p.
func (p Path) Split() []string {
	raw := strings.Split(p.path, Separator)
	parts := make([]string, 0, len(raw))
	for _, s := range raw {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return parts
}

// Base returns the last element of p. If ext is non-empty and the element ends
// with it, ext is removed.
func (p Path) Base(ext string) string {
	base := filepath.Base(p.path)
	if ext != "" && base != ext && strings.HasSuffix(base, ext) {
		return strings.TrimSuffix(base, ext)
	}
	return base
}

// Ext returns the file name extension, including the dot.
func (p Path) Ext() string { return filepath.Ext(p.path) }

// Dir returns all but the last element of p.
func (p Path) Dir() Path { return Path{path: filepath.Dir(p.path)} }

// IsAbs reports whether p is absolute.
func (p Path) IsAbs() bool { return filepath.IsAbs(p.path) }

// abs is Resolve without arguments for internal callers that already hold a
// valid path.
func (p Path) abs() (string, error) {
	if filepath.IsAbs(p.path) {
		return filepath.Clean(p.path), nil
	}
	abs, err := filepath.Abs(p.path)
	if err != nil {
		return "", &Error{Code: CodeInvalidArgument, Op: "resolve", Path: p.path, Err: err}
	}
	return abs, nil
}
