package fpath

import (
	"fmt"
	"path/filepath"
)

// ReadOptions controls Read.
type ReadOptions struct {
	// Parser names a registered deserializer to decode the content with.
	Parser string
	// Raw returns the content as []byte instead of a string. It is ignored
	// when Parser is set.
	Raw bool
}

// WriteOptions controls Write.
type WriteOptions struct {
	// Parser names a registered serializer to encode the data with.
	Parser string
}

// Read returns the content of the file at p: a string by default, []byte
// when opts.Raw is set, or the decoded value when opts.Parser is set.
//
// A missing file is not an error: Read returns nil, nil. A directory fails
// with ErrExpectFile. Errors from the deserializer are returned as they are.
func (m *Manager) Read(p Path, opts ReadOptions) (any, error) {
	var decode DeserializeFunc
	if opts.Parser != "" {
		decode = m.deserializer(opts.Parser)
		if decode == nil {
			return nil, &Error{
				Code:    CodeInvalidDeserializer,
				Op:      "read",
				Path:    p.path,
				Message: fmt.Sprintf("No deserializer registered for parser %q", opts.Parser),
			}
		}
	}

	data, err := m.ReadBytes(p)
	if err != nil || data == nil {
		return nil, err
	}

	switch {
	case decode != nil:
		return decode(data)
	case opts.Raw:
		return data, nil
	default:
		return string(data), nil
	}
}

// ReadBytes returns the raw content of the file at p, or nil when p does not
// exist. An existing empty file yields an empty, non-nil slice.
func (m *Manager) ReadBytes(p Path) ([]byte, error) {
	st, err := m.Stat(p)
	if err != nil || st == nil {
		return nil, err
	}
	if st.IsDir() {
		return nil, expectFileError("read", "read", p.path)
	}

	data, err := m.fsys.ReadFile(p.path)
	if err != nil {
		if isNotExist(err) {
			return nil, nil
		}
		return nil, ioError("read", p.path, err)
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}

// Write stores data at p and returns p. Without a parser, data must be a
// string, a []byte or nil (an empty file).
//
// Missing parent directories are created first. If p is a directory Write
// fails with ErrExpectFile and writes nothing; if any ancestor is not a
// directory it fails with ErrNotADirectory.
func (m *Manager) Write(p Path, data any, opts WriteOptions) (Path, error) {
	content, err := m.encode(p, data, opts.Parser)
	if err != nil {
		return Path{}, err
	}

	target, err := p.abs()
	if err != nil {
		return Path{}, err
	}
	st, err := m.stat(target)
	if err != nil {
		return Path{}, err
	}
	if st != nil && st.IsDir() {
		return Path{}, expectFileError("write", "write to", p.path)
	}

	if err := m.ensureDir(filepath.Dir(target)); err != nil {
		return Path{}, err
	}

	if err := m.fsys.WriteFile(target, content, m.fileMode); err != nil {
		return Path{}, ioError("write", p.path, err)
	}
	m.logger.Debug("file written", "path", target, "size", len(content))
	return p, nil
}

func (m *Manager) encode(p Path, data any, parser string) ([]byte, error) {
	if parser != "" {
		encode := m.serializer(parser)
		if encode == nil {
			return nil, &Error{
				Code:    CodeInvalidSerializer,
				Op:      "write",
				Path:    p.path,
				Message: fmt.Sprintf("No serializer registered for parser %q", parser),
			}
		}
		return encode(data)
	}

	switch v := data.(type) {
	case nil:
		return []byte{}, nil
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, invalidArgumentError("write", fmt.Sprintf("Cannot write %T to '%s' without a parser", data, p.path))
	}
}

func (m *Manager) serializer(name string) SerializeFunc {
	if m.codecs == nil {
		return nil
	}
	return m.codecs.Serializer(name)
}

func (m *Manager) deserializer(name string) DeserializeFunc {
	if m.codecs == nil {
		return nil
	}
	return m.codecs.Deserializer(name)
}
