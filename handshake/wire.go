// Package handshake exchanges schema digests between RPC endpoints over
// gRPC so each side can decide, per message type, whether the other is
// wire-compatible.
//
// The service carries two opaque blobs: a digest manifest (name, mode,
// digest per message type) and a comparison report. Both use a compact
// deterministic framing built from the same primitives as the canonical
// schema encoding. The service only reports; the consequence of a mismatch
// stays with the caller.
package handshake

import (
	"fmt"
	"unicode/utf8"

	"github.com/multiformats/go-varint"

	"github.com/schemawire/schemawire/digest"
	"github.com/schemawire/schemawire/registry"
	"github.com/schemawire/schemawire/schema"
)

// wireVersion is the first byte of every manifest and report blob.
const wireVersion = 0x01

const (
	statusOK       = 0x01
	statusMismatch = 0x02
	statusMissing  = 0x03
	statusExtra    = 0x04
)

// maxWireEntries bounds decoded blobs against hostile peers.
const maxWireEntries = 1 << 16

// EncodeManifest frames registry entries for the wire: version byte, entry
// count, then per entry a length-prefixed name, mode byte, and 32-byte
// digest. Entries are emitted in Registry order (sorted by name), so equal
// registries produce equal blobs.
func EncodeManifest(r *registry.Registry) []byte {
	entries := r.Entries()
	buf := []byte{wireVersion}
	buf = append(buf, varint.ToUvarint(uint64(len(entries)))...)
	for _, e := range entries {
		buf = appendString(buf, e.Name)
		buf = append(buf, byte(e.Mode))
		buf = append(buf, e.Digest[:]...)
	}
	return buf
}

// DecodeManifest parses a manifest blob into a Registry. Strict: names must
// be sorted and unique, the mode byte valid, and the blob fully consumed.
func DecodeManifest(data []byte) (*registry.Registry, error) {
	d := wireReader{buf: data}
	if err := d.version(); err != nil {
		return nil, err
	}
	n, err := d.count()
	if err != nil {
		return nil, err
	}
	r := registry.New()
	prev := ""
	for i := uint64(0); i < n; i++ {
		name, err := d.str()
		if err != nil {
			return nil, err
		}
		if i > 0 && !(prev < name) {
			return nil, fmt.Errorf("handshake: manifest entries not sorted (%q after %q)", name, prev)
		}
		prev = name
		mb, err := d.byte()
		if err != nil {
			return nil, err
		}
		mode := schema.Mode(mb)
		if !mode.Valid() {
			return nil, fmt.Errorf("handshake: invalid mode byte 0x%02x for %q", mb, name)
		}
		dg, err := d.digest()
		if err != nil {
			return nil, err
		}
		if err := r.Add(name, mode, dg); err != nil {
			return nil, err
		}
	}
	if err := d.done(); err != nil {
		return nil, err
	}
	return r, nil
}

// EncodeReport frames comparison results: version byte, count, then per
// result a length-prefixed name, status byte, and the digests the status
// implies (both for ok/mismatch, local only for missing, remote only for
// extra).
func EncodeReport(results []registry.Result) ([]byte, error) {
	buf := []byte{wireVersion}
	buf = append(buf, varint.ToUvarint(uint64(len(results)))...)
	for _, res := range results {
		buf = appendString(buf, res.Name)
		switch res.Status {
		case registry.StatusOK:
			buf = append(buf, statusOK)
			buf = append(buf, res.Local[:]...)
			buf = append(buf, res.Remote[:]...)
		case registry.StatusMismatch:
			buf = append(buf, statusMismatch)
			buf = append(buf, res.Local[:]...)
			buf = append(buf, res.Remote[:]...)
		case registry.StatusMissing:
			buf = append(buf, statusMissing)
			buf = append(buf, res.Local[:]...)
		case registry.StatusExtra:
			buf = append(buf, statusExtra)
			buf = append(buf, res.Remote[:]...)
		default:
			return nil, fmt.Errorf("handshake: unknown status %q for %q", res.Status, res.Name)
		}
	}
	return buf, nil
}

// DecodeReport parses a report blob.
func DecodeReport(data []byte) ([]registry.Result, error) {
	d := wireReader{buf: data}
	if err := d.version(); err != nil {
		return nil, err
	}
	n, err := d.count()
	if err != nil {
		return nil, err
	}
	out := make([]registry.Result, 0, n)
	for i := uint64(0); i < n; i++ {
		name, err := d.str()
		if err != nil {
			return nil, err
		}
		sb, err := d.byte()
		if err != nil {
			return nil, err
		}
		res := registry.Result{Name: name}
		switch sb {
		case statusOK, statusMismatch:
			if sb == statusOK {
				res.Status = registry.StatusOK
			} else {
				res.Status = registry.StatusMismatch
			}
			if res.Local, err = d.digest(); err != nil {
				return nil, err
			}
			if res.Remote, err = d.digest(); err != nil {
				return nil, err
			}
			if sb == statusOK && res.Local != res.Remote {
				return nil, fmt.Errorf("handshake: ok status with unequal digests for %q", name)
			}
		case statusMissing:
			res.Status = registry.StatusMissing
			if res.Local, err = d.digest(); err != nil {
				return nil, err
			}
		case statusExtra:
			res.Status = registry.StatusExtra
			if res.Remote, err = d.digest(); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("handshake: unknown status byte 0x%02x for %q", sb, name)
		}
		out = append(out, res)
	}
	if err := d.done(); err != nil {
		return nil, err
	}
	return out, nil
}

func appendString(buf []byte, s string) []byte {
	buf = append(buf, varint.ToUvarint(uint64(len(s)))...)
	return append(buf, s...)
}

type wireReader struct {
	buf []byte
	pos int
}

func (d *wireReader) version() error {
	b, err := d.byte()
	if err != nil {
		return err
	}
	if b != wireVersion {
		return fmt.Errorf("handshake: unsupported wire version 0x%02x", b)
	}
	return nil
}

func (d *wireReader) count() (uint64, error) {
	n, err := d.uvarint()
	if err != nil {
		return 0, err
	}
	if n > maxWireEntries {
		return 0, fmt.Errorf("handshake: entry count %d exceeds limit %d", n, maxWireEntries)
	}
	return n, nil
}

func (d *wireReader) byte() (byte, error) {
	if d.pos >= len(d.buf) {
		return 0, fmt.Errorf("handshake: truncated blob")
	}
	b := d.buf[d.pos]
	d.pos++
	return b, nil
}

func (d *wireReader) uvarint() (uint64, error) {
	x, n, err := varint.FromUvarint(d.buf[d.pos:])
	if err != nil {
		return 0, fmt.Errorf("handshake: invalid varint: %w", err)
	}
	d.pos += n
	return x, nil
}

func (d *wireReader) str() (string, error) {
	n, err := d.uvarint()
	if err != nil {
		return "", err
	}
	if n > uint64(len(d.buf)-d.pos) {
		return "", fmt.Errorf("handshake: truncated blob")
	}
	s := string(d.buf[d.pos : d.pos+int(n)])
	if !utf8.ValidString(s) {
		return "", fmt.Errorf("handshake: name is not valid UTF-8")
	}
	d.pos += int(n)
	return s, nil
}

func (d *wireReader) digest() (digest.Digest, error) {
	if digest.Size > len(d.buf)-d.pos {
		return digest.Zero, fmt.Errorf("handshake: truncated blob")
	}
	dg, err := digest.FromBytes(d.buf[d.pos : d.pos+digest.Size])
	if err != nil {
		return digest.Zero, err
	}
	d.pos += digest.Size
	return dg, nil
}

func (d *wireReader) done() error {
	if d.pos != len(d.buf) {
		return fmt.Errorf("handshake: %d trailing bytes", len(d.buf)-d.pos)
	}
	return nil
}
