// Package registry holds explicit mappings from message-type names to
// wire-compatibility digests, plus the manifest files they are exchanged in.
//
// A Registry is passed-in state, never ambient: integrators construct one
// per endpoint or per release and compare it against a peer's.
package registry

import (
	"errors"
	"fmt"
	"sort"

	"github.com/schemawire/schemawire"
	"github.com/schemawire/schemawire/digest"
	"github.com/schemawire/schemawire/schema"
)

var (
	ErrNotFound  = errors.New("registry: not found")
	ErrDuplicate = errors.New("registry: duplicate name")
)

// Entry binds one message-type name to its mode and digest.
type Entry struct {
	Name   string
	Mode   schema.Mode
	Digest digest.Digest
}

// Registry is an explicit name-to-digest mapping.
type Registry struct {
	entries map[string]Entry
}

func New() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Add records a precomputed digest. Names are unique.
func (r *Registry) Add(name string, mode schema.Mode, d digest.Digest) error {
	if name == "" {
		return fmt.Errorf("registry: empty name")
	}
	if !mode.Valid() {
		return fmt.Errorf("registry: %s: invalid mode", name)
	}
	if _, ok := r.entries[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, name)
	}
	r.entries[name] = Entry{Name: name, Mode: mode, Digest: d}
	return nil
}

// AddSchema hashes a raw description under mode and records the result.
func (r *Registry) AddSchema(name string, raw schema.Value, mode schema.Mode) error {
	d, err := schemawire.Hash(raw, mode)
	if err != nil {
		return fmt.Errorf("registry: %s: %w", name, err)
	}
	return r.Add(name, mode, d)
}

// Get returns the entry for name.
func (r *Registry) Get(name string) (Entry, error) {
	e, ok := r.entries[name]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return e, nil
}

// Names returns all registered names in lexicographic order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entries returns all entries ordered by name.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, 0, len(r.entries))
	for _, name := range r.Names() {
		out = append(out, r.entries[name])
	}
	return out
}

func (r *Registry) Len() int { return len(r.entries) }
