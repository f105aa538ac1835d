// Package canonical serializes schema Values into the deterministic byte
// sequence that digests are computed over.
//
// The encoding is injective and self-delimiting: a fixed tag byte per
// variant, minimal unsigned varints for lengths and counts, length-prefixed
// strings, and an explicit present/absent marker for optional names so that
// "no name" never collides with a declared empty name. No byte sequence is a
// valid prefix of another distinct encoding, which makes sub-encodings
// safely concatenable inside aggregates.
package canonical

import (
	"github.com/multiformats/go-varint"

	"github.com/schemawire/schemawire/schema"
)

// Optional-name markers. nameAbsent is a reserved single byte distinct from
// any string encoding, whose shortest form is namePresent followed by a
// zero length.
const (
	nameAbsent  = 0x00
	namePresent = 0x01
)

// Encode returns the canonical bytes for v under schema.DefaultLimits.
//
// Encoding fails only if v violates the data-model invariants; a well-formed
// Value by construction always encodes successfully.
func Encode(v schema.Value) ([]byte, error) {
	return EncodeLimits(v, schema.DefaultLimits)
}

// EncodeLimits is Encode with explicit size bounds.
func EncodeLimits(v schema.Value, lim schema.Limits) ([]byte, error) {
	if err := schema.ValidateLimits(v, lim); err != nil {
		return nil, err
	}
	var buf []byte
	return appendValue(buf, &v), nil
}

// appendValue assumes v already validated; it cannot fail.
func appendValue(buf []byte, v *schema.Value) []byte {
	buf = append(buf, byte(v.Kind))
	switch v.Kind {
	case schema.KindAtom:
		buf = appendString(buf, v.Name)
	case schema.KindUnit, schema.KindBool, schema.KindString, schema.KindBytes:
		// Tag only.
	case schema.KindInteger:
		buf = append(buf, v.Bits)
		if v.Signed {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
	case schema.KindFloat:
		buf = append(buf, v.Bits)
	case schema.KindOption, schema.KindSequence:
		buf = appendValue(buf, v.Elem)
	case schema.KindMap:
		buf = appendValue(buf, v.Key)
		buf = appendValue(buf, v.Elem)
	case schema.KindProduct, schema.KindSum:
		buf = appendName(buf, v.Named, v.Name)
		buf = appendUvarint(buf, uint64(len(v.Fields)))
		for i := range v.Fields {
			f := &v.Fields[i]
			buf = appendName(buf, f.Named, f.Name)
			buf = appendValue(buf, &f.Value)
		}
	}
	return buf
}

func appendName(buf []byte, named bool, name string) []byte {
	if !named {
		return append(buf, nameAbsent)
	}
	buf = append(buf, namePresent)
	return appendString(buf, name)
}

func appendString(buf []byte, s string) []byte {
	buf = appendUvarint(buf, uint64(len(s)))
	return append(buf, s...)
}

func appendUvarint(buf []byte, x uint64) []byte {
	return append(buf, varint.ToUvarint(x)...)
}
