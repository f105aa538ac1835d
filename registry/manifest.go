package registry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/schemawire/schemawire/digest"
	"github.com/schemawire/schemawire/schema"
)

// ManifestVersion is the current manifest format version.
const ManifestVersion = 1

// Manifest is the file form of a Registry, suitable for committing next to
// an RPC service definition and diffing in CI. TOML is the canonical
// format; YAML is accepted by extension.
type Manifest struct {
	Version int             `toml:"version" yaml:"version"`
	Schemas []ManifestEntry `toml:"schema" yaml:"schemas"`

	// Signature fields are optional; see sign.go.
	SignatureAlg string `toml:"signature-alg,omitempty" yaml:"signature-alg,omitempty"`
	HashAlg      string `toml:"hash-alg,omitempty" yaml:"hash-alg,omitempty"`
	Signature    string `toml:"signature,omitempty" yaml:"signature,omitempty"`
}

// ManifestEntry is one schema line: name, mode, lowercase hex digest.
type ManifestEntry struct {
	Name   string `toml:"name" yaml:"name"`
	Mode   string `toml:"mode" yaml:"mode"`
	Digest string `toml:"digest" yaml:"digest"`
}

// FromRegistry renders r as a manifest with entries ordered by name.
func FromRegistry(r *Registry) Manifest {
	m := Manifest{Version: ManifestVersion}
	for _, e := range r.Entries() {
		m.Schemas = append(m.Schemas, ManifestEntry{
			Name:   e.Name,
			Mode:   e.Mode.String(),
			Digest: e.Digest.Hex(),
		})
	}
	return m
}

// Registry parses the manifest back into a Registry.
func (m Manifest) Registry() (*Registry, error) {
	if m.Version != ManifestVersion {
		return nil, fmt.Errorf("registry: unsupported manifest version %d", m.Version)
	}
	r := New()
	for _, e := range m.Schemas {
		mode, err := schema.ParseMode(e.Mode)
		if err != nil {
			return nil, fmt.Errorf("registry: %s: %w", e.Name, err)
		}
		d, err := digest.FromHex(e.Digest)
		if err != nil {
			return nil, fmt.Errorf("registry: %s: %w", e.Name, err)
		}
		if err := r.Add(e.Name, mode, d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// EncodeTOML writes the canonical TOML form. Output is deterministic:
// entries keep their (sorted) slice order and field order is fixed.
func (m Manifest) EncodeTOML(w io.Writer) error {
	return toml.NewEncoder(w).Encode(m)
}

// Save writes the manifest to path, TOML or YAML by extension.
func (m Manifest) Save(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	if isYAMLPath(path) {
		enc := yaml.NewEncoder(f)
		if err := enc.Encode(m); err != nil {
			return err
		}
		return enc.Close()
	}
	return m.EncodeTOML(f)
}

// Load reads a manifest from path, TOML or YAML by extension.
func Load(path string) (Manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, err
	}
	var m Manifest
	if isYAMLPath(path) {
		if err := yaml.Unmarshal(b, &m); err != nil {
			return Manifest{}, fmt.Errorf("registry: %s: %w", path, err)
		}
		return m, nil
	}
	if err := toml.Unmarshal(b, &m); err != nil {
		return Manifest{}, fmt.Errorf("registry: %s: %w", path, err)
	}
	return m, nil
}

func isYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// SigningBytes is the deterministic byte form covered by manifest
// signatures: a version header and one sorted "name\tmode\thex" line per
// schema. Signature fields themselves are excluded.
func (m Manifest) SigningBytes() []byte {
	entries := append([]ManifestEntry(nil), m.Schemas...)
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	var b strings.Builder
	fmt.Fprintf(&b, "schemawire-manifest/%d\n", m.Version)
	for _, e := range entries {
		fmt.Fprintf(&b, "%s\t%s\t%s\n", e.Name, e.Mode, e.Digest)
	}
	return []byte(b.String())
}
