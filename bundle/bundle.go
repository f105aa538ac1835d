// Package bundle exports and imports sets of canonical schema encodings as
// a single deterministic artifact: a zstd-compressed TAR whose entries are
// the canonical bytes keyed by digest, plus a JSON index mapping message
// names to digests.
//
// Bundle bytes are deterministic for a given entry set: block order is
// lexicographic by digest, TAR headers are normalized, and zstd runs
// single-threaded at a fixed level. Every block is re-verified against its
// digest on import.
package bundle

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"

	"github.com/schemawire/schemawire/canonical"
	"github.com/schemawire/schemawire/digest"
	"github.com/schemawire/schemawire/schema"
)

// FormatVersion is the current bundle index schema version.
const FormatVersion = 1

var (
	ErrDigestMismatch = errors.New("bundle: digest mismatch")
	ErrMalformed      = errors.New("bundle: malformed")
)

// Entry is one schema to export. Value must already be projected; Export
// encodes and digests it but performs no projection of its own.
type Entry struct {
	Name  string
	Mode  schema.Mode
	Value schema.Value
}

// Imported is one schema recovered from a bundle.
type Imported struct {
	Name   string
	Mode   schema.Mode
	Digest digest.Digest
	Value  schema.Value
}

var epoch0 = time.Unix(0, 0).UTC()

// Export writes a deterministic bundle for the given entries.
func Export(w io.Writer, entries []Entry) error {
	zw, err := zstd.NewWriter(w,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return err
	}

	type block struct {
		hex   string
		bytes []byte
	}
	blocks := make(map[string]block)
	var labels []indexLabel

	for _, e := range entries {
		if e.Name == "" {
			_ = zw.Close()
			return fmt.Errorf("%w: empty entry name", ErrMalformed)
		}
		if !e.Mode.Valid() {
			_ = zw.Close()
			return fmt.Errorf("%w: %s: invalid mode", ErrMalformed, e.Name)
		}
		b, err := canonical.Encode(e.Value)
		if err != nil {
			_ = zw.Close()
			return fmt.Errorf("bundle: %s: %w", e.Name, err)
		}
		d := digest.Sum(b)
		blocks[d.Hex()] = block{hex: d.Hex(), bytes: b}
		labels = append(labels, indexLabel{Name: e.Name, Mode: e.Mode.String(), Digest: d.Hex()})
	}

	sort.Slice(labels, func(i, j int) bool { return labels[i].Name < labels[j].Name })
	for i := 1; i < len(labels); i++ {
		if labels[i].Name == labels[i-1].Name {
			_ = zw.Close()
			return fmt.Errorf("%w: duplicate entry name %q", ErrMalformed, labels[i].Name)
		}
	}

	hexes := make([]string, 0, len(blocks))
	for h := range blocks {
		hexes = append(hexes, h)
	}
	sort.Strings(hexes)

	tw := tar.NewWriter(zw)
	idx := indexJSON{Version: FormatVersion, Hash: "blake3-256", Labels: labels}
	for _, h := range hexes {
		b := blocks[h]
		if err := writeFile(tw, "blocks/"+h, b.bytes); err != nil {
			_ = tw.Close()
			_ = zw.Close()
			return err
		}
		idx.Blocks = append(idx.Blocks, indexBlock{Digest: h, Size: len(b.bytes)})
	}

	ib, err := marshalIndex(idx)
	if err != nil {
		_ = tw.Close()
		_ = zw.Close()
		return err
	}
	if err := writeFile(tw, "index.json", ib); err != nil {
		_ = tw.Close()
		_ = zw.Close()
		return err
	}

	if err := tw.Close(); err != nil {
		_ = zw.Close()
		return err
	}
	return zw.Close()
}

// Import reads a bundle, verifying every block digest and decoding every
// canonical value. Unknown entries are an error: imports are fail-closed.
func Import(r io.Reader) ([]Imported, error) {
	zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	tr := tar.NewReader(zr)
	blocks := make(map[string]schema.Value)
	seen := make(map[string]bool)
	var idx *indexJSON

	for {
		h, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if h.Typeflag != tar.TypeReg {
			return nil, fmt.Errorf("%w: unexpected tar entry type %v (%s)", ErrMalformed, h.Typeflag, h.Name)
		}
		name := strings.TrimPrefix(h.Name, "./")

		if name == "index.json" {
			b, err := io.ReadAll(tr)
			if err != nil {
				return nil, err
			}
			var parsed indexJSON
			if err := json.Unmarshal(b, &parsed); err != nil {
				return nil, fmt.Errorf("%w: index: %v", ErrMalformed, err)
			}
			idx = &parsed
			continue
		}

		if !strings.HasPrefix(name, "blocks/") {
			return nil, fmt.Errorf("%w: unknown entry %q", ErrMalformed, name)
		}
		hexDigest := strings.TrimPrefix(name, "blocks/")
		want, err := digest.FromHex(hexDigest)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %q: %v", ErrMalformed, name, err)
		}
		if seen[hexDigest] {
			return nil, fmt.Errorf("%w: duplicate block %s", ErrMalformed, hexDigest)
		}
		seen[hexDigest] = true

		payload, err := io.ReadAll(tr)
		if err != nil {
			return nil, err
		}
		if digest.Sum(payload) != want {
			return nil, fmt.Errorf("%w: block %s", ErrDigestMismatch, hexDigest)
		}
		v, err := canonical.Decode(payload)
		if err != nil {
			return nil, fmt.Errorf("bundle: block %s: %w", hexDigest, err)
		}
		blocks[hexDigest] = v
	}

	if idx == nil {
		return nil, fmt.Errorf("%w: missing index.json", ErrMalformed)
	}
	if idx.Version != FormatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrMalformed, idx.Version)
	}

	out := make([]Imported, 0, len(idx.Labels))
	for _, l := range idx.Labels {
		mode, err := schema.ParseMode(l.Mode)
		if err != nil {
			return nil, fmt.Errorf("%w: label %s: %v", ErrMalformed, l.Name, err)
		}
		d, err := digest.FromHex(l.Digest)
		if err != nil {
			return nil, fmt.Errorf("%w: label %s: %v", ErrMalformed, l.Name, err)
		}
		v, ok := blocks[l.Digest]
		if !ok {
			return nil, fmt.Errorf("%w: label %s references missing block %s", ErrMalformed, l.Name, l.Digest)
		}
		out = append(out, Imported{Name: l.Name, Mode: mode, Digest: d, Value: v})
	}
	return out, nil
}

type indexJSON struct {
	Version int          `json:"version"`
	Hash    string       `json:"hash"`
	Blocks  []indexBlock `json:"blocks"`
	Labels  []indexLabel `json:"labels"`
}

type indexBlock struct {
	Digest string `json:"digest"`
	Size   int    `json:"size"`
}

type indexLabel struct {
	Name   string `json:"name"`
	Mode   string `json:"mode"`
	Digest string `json:"digest"`
}

func marshalIndex(idx indexJSON) ([]byte, error) {
	// indexJSON is composed only of structs + slices; marshalling is deterministic.
	b, err := json.Marshal(idx)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func writeFile(tw *tar.Writer, name string, content []byte) error {
	hdr := &tar.Header{
		Name:     name,
		Mode:     0o644,
		Size:     int64(len(content)),
		ModTime:  epoch0,
		Typeflag: tar.TypeReg,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err := tw.Write(content)
	return err
}
