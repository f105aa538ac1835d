package canonical

import (
	"fmt"
	"unicode/utf8"

	"github.com/multiformats/go-varint"

	"github.com/schemawire/schemawire/schema"
)

// Decode parses canonical bytes back into a Value under schema.DefaultLimits.
//
// Decode is strict: unknown tags, non-minimal varints, invalid UTF-8 names,
// truncated input, and trailing bytes are all rejected. Decode(Encode(v))
// returns a Value structurally equal to v.
func Decode(data []byte) (schema.Value, error) {
	return DecodeLimits(data, schema.DefaultLimits)
}

// DecodeLimits is Decode with explicit size bounds.
func DecodeLimits(data []byte, lim schema.Limits) (schema.Value, error) {
	lim = lim.OrDefault()
	d := &decoder{buf: data, lim: lim}
	v, err := d.value(1)
	if err != nil {
		return schema.Value{}, err
	}
	if d.pos != len(d.buf) {
		return schema.Value{}, schema.NewError(schema.ClassDecode, "SW-DEC-001",
			fmt.Sprintf("%d trailing bytes after canonical value", len(d.buf)-d.pos))
	}
	if err := schema.ValidateLimits(v, lim); err != nil {
		return schema.Value{}, err
	}
	return v, nil
}

type decoder struct {
	buf   []byte
	pos   int
	lim   schema.Limits
	nodes int
}

func (d *decoder) value(depth int) (schema.Value, error) {
	if depth > d.lim.MaxDepth {
		return schema.Value{}, schema.NewError(schema.ClassLimit, "SW-LIM-001",
			fmt.Sprintf("schema exceeds max depth %d", d.lim.MaxDepth))
	}
	d.nodes++
	if d.nodes > d.lim.MaxNodes {
		return schema.Value{}, schema.NewError(schema.ClassLimit, "SW-LIM-002",
			fmt.Sprintf("schema exceeds max node count %d", d.lim.MaxNodes))
	}

	tag, err := d.byte()
	if err != nil {
		return schema.Value{}, err
	}
	kind := schema.Kind(tag)
	switch kind {
	case schema.KindAtom:
		name, err := d.str()
		if err != nil {
			return schema.Value{}, err
		}
		return schema.Atom(name), nil
	case schema.KindUnit:
		return schema.Unit(), nil
	case schema.KindBool:
		return schema.Bool(), nil
	case schema.KindInteger:
		bits, err := d.byte()
		if err != nil {
			return schema.Value{}, err
		}
		signed, err := d.byte()
		if err != nil {
			return schema.Value{}, err
		}
		if signed > 1 {
			return schema.Value{}, schema.NewError(schema.ClassDecode, "SW-DEC-002",
				fmt.Sprintf("invalid signedness byte 0x%02x", signed))
		}
		return schema.Value{Kind: schema.KindInteger, Bits: bits, Signed: signed == 1}, nil
	case schema.KindFloat:
		bits, err := d.byte()
		if err != nil {
			return schema.Value{}, err
		}
		return schema.Float(bits), nil
	case schema.KindString:
		return schema.String(), nil
	case schema.KindBytes:
		return schema.Bytes(), nil
	case schema.KindOption, schema.KindSequence:
		inner, err := d.value(depth + 1)
		if err != nil {
			return schema.Value{}, err
		}
		if kind == schema.KindOption {
			return schema.Option(inner), nil
		}
		return schema.Sequence(inner), nil
	case schema.KindMap:
		key, err := d.value(depth + 1)
		if err != nil {
			return schema.Value{}, err
		}
		val, err := d.value(depth + 1)
		if err != nil {
			return schema.Value{}, err
		}
		return schema.MapOf(key, val), nil
	case schema.KindProduct, schema.KindSum:
		out := schema.Value{Kind: kind}
		out.Named, out.Name, err = d.name()
		if err != nil {
			return schema.Value{}, err
		}
		n, err := d.uvarint()
		if err != nil {
			return schema.Value{}, err
		}
		if n > uint64(d.lim.MaxNodes) {
			return schema.Value{}, schema.NewError(schema.ClassLimit, "SW-LIM-002",
				fmt.Sprintf("field count %d exceeds max node count %d", n, d.lim.MaxNodes))
		}
		for i := uint64(0); i < n; i++ {
			var f schema.Field
			f.Named, f.Name, err = d.name()
			if err != nil {
				return schema.Value{}, err
			}
			f.Value, err = d.value(depth + 1)
			if err != nil {
				return schema.Value{}, err
			}
			out.Fields = append(out.Fields, f)
		}
		return out, nil
	default:
		return schema.Value{}, schema.NewError(schema.ClassDecode, "SW-DEC-003",
			fmt.Sprintf("unknown tag 0x%02x", tag))
	}
}

func (d *decoder) byte() (byte, error) {
	if d.pos >= len(d.buf) {
		return 0, schema.NewError(schema.ClassDecode, "SW-DEC-004", "truncated canonical value")
	}
	b := d.buf[d.pos]
	d.pos++
	return b, nil
}

func (d *decoder) uvarint() (uint64, error) {
	x, n, err := varint.FromUvarint(d.buf[d.pos:])
	if err != nil {
		return 0, schema.WrapError(schema.ClassDecode, "SW-DEC-005", "invalid varint", err)
	}
	d.pos += n
	return x, nil
}

func (d *decoder) str() (string, error) {
	n, err := d.uvarint()
	if err != nil {
		return "", err
	}
	if n > uint64(len(d.buf)-d.pos) {
		return "", schema.NewError(schema.ClassDecode, "SW-DEC-004", "truncated canonical value")
	}
	s := string(d.buf[d.pos : d.pos+int(n)])
	if !utf8.ValidString(s) {
		return "", schema.NewError(schema.ClassDecode, "SW-DEC-006", "name is not valid UTF-8")
	}
	d.pos += int(n)
	return s, nil
}

func (d *decoder) name() (bool, string, error) {
	marker, err := d.byte()
	if err != nil {
		return false, "", err
	}
	switch marker {
	case nameAbsent:
		return false, "", nil
	case namePresent:
		s, err := d.str()
		if err != nil {
			return false, "", err
		}
		return true, s, nil
	default:
		return false, "", schema.NewError(schema.ClassDecode, "SW-DEC-007",
			fmt.Sprintf("invalid name marker 0x%02x", marker))
	}
}
