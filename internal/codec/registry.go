// Package codec holds the parser registry consulted by fpath reads and
// writes, plus the built-in codecs.
package codec

import (
	"sort"
	"sync"

	"fpath-go/internal/fpath"
)

// Codec is a serialize/deserialize pair registered under a parser name.
// Either function may be nil when only one direction is supported.
type Codec struct {
	Serialize   fpath.SerializeFunc
	Deserialize fpath.DeserializeFunc
}

// Registry maps parser names to codecs. It is configured exactly once and
// read-only afterwards. Names are case-sensitive.
// A nil *Registry behaves as an unconfigured one.
type Registry struct {
	mu         sync.RWMutex
	configured bool
	codecs     map[string]Codec
}

var _ fpath.CodecLookup = (*Registry)(nil)

// NewRegistry creates an unconfigured registry.
func NewRegistry() *Registry {
	return &Registry{}
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry used by the CLI.
// Library callers should create their own with NewRegistry.
func Default() *Registry {
	return defaultRegistry
}

// Configure installs codecs. It fails with fpath.ErrAlreadyConfigured on
// every call after the first, including concurrent ones: exactly one caller
// wins.
func (r *Registry) Configure(codecs map[string]Codec) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.configured {
		return &fpath.Error{
			Code:    fpath.CodeAlreadyConfigured,
			Op:      "configure",
			Message: "codec registry is already configured",
		}
	}

	r.codecs = make(map[string]Codec, len(codecs))
	for name, c := range codecs {
		r.codecs[name] = c
	}
	r.configured = true
	return nil
}

// Configured reports whether Configure has succeeded.
func (r *Registry) Configured() bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.configured
}

// Serializer returns the serializer registered under name, or nil.
func (r *Registry) Serializer(name string) fpath.SerializeFunc {
	c, ok := r.lookup(name)
	if !ok {
		return nil
	}
	return c.Serialize
}

// Deserializer returns the deserializer registered under name, or nil.
func (r *Registry) Deserializer(name string) fpath.DeserializeFunc {
	c, ok := r.lookup(name)
	if !ok {
		return nil
	}
	return c.Deserialize
}

// Names returns the registered parser names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.codecs))
	for name := range r.codecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) lookup(name string) (Codec, bool) {
	if r == nil {
		return Codec{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.codecs[name]
	return c, ok
}
