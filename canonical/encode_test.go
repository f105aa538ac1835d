package canonical

import (
	"bytes"
	"testing"

	"github.com/schemawire/schemawire/schema"
)

func point() schema.Value {
	return schema.NamedProduct("Point",
		schema.F("x", schema.Uint(64)),
		schema.F("y", schema.Uint(64)),
	)
}

func mustEncode(t *testing.T, v schema.Value) []byte {
	t.Helper()
	b, err := Encode(v)
	if err != nil {
		t.Fatalf("Encode(%s): %v", v, err)
	}
	return b
}

func TestEncode_Deterministic(t *testing.T) {
	v := schema.NamedSum("Shape",
		schema.F("circle", schema.NamedProduct("Circle", schema.F("r", schema.Float(64)))),
		schema.F("point", point()),
	)
	a := mustEncode(t, v)
	b := mustEncode(t, v.Clone())
	if !bytes.Equal(a, b) {
		t.Fatalf("equal values produced different encodings:\n%x\n%x", a, b)
	}
}

func TestEncode_KnownBytes(t *testing.T) {
	cases := []struct {
		v    schema.Value
		want []byte
	}{
		{schema.Unit(), []byte{byte(schema.KindUnit)}},
		{schema.Bool(), []byte{byte(schema.KindBool)}},
		{schema.Uint(64), []byte{byte(schema.KindInteger), 64, 0}},
		{schema.Int(64), []byte{byte(schema.KindInteger), 64, 1}},
		{schema.Float(32), []byte{byte(schema.KindFloat), 32}},
		{schema.Atom("ab"), []byte{byte(schema.KindAtom), 2, 'a', 'b'}},
		{schema.Option(schema.Bool()), []byte{byte(schema.KindOption), byte(schema.KindBool)}},
		{schema.MapOf(schema.String(), schema.Bytes()),
			[]byte{byte(schema.KindMap), byte(schema.KindString), byte(schema.KindBytes)}},
		// Anonymous empty product: absent name, zero fields.
		{schema.Product(), []byte{byte(schema.KindProduct), 0x00, 0}},
		// Declared empty name: present marker plus zero-length string.
		{schema.NamedProduct(""), []byte{byte(schema.KindProduct), 0x01, 0, 0}},
	}
	for _, tc := range cases {
		if got := mustEncode(t, tc.v); !bytes.Equal(got, tc.want) {
			t.Errorf("Encode(%s) = %x, want %x", tc.v, got, tc.want)
		}
	}
}

// Injectivity over pairs of distinct values. Not a proof, but each pair
// covers one channel a collision could hide in.
func TestEncode_DistinctValuesDistinctBytes(t *testing.T) {
	pairs := [][2]schema.Value{
		{schema.Int(64), schema.Uint(64)},
		{schema.Int(32), schema.Int(64)},
		{schema.Unit(), schema.Bool()},
		{schema.Option(schema.Bool()), schema.Sequence(schema.Bool())},
		{schema.Atom("a"), schema.Atom("b")},
		{schema.Product(), schema.NamedProduct("")},
		{schema.Product(schema.Anon(schema.Bool())), schema.Sum(schema.Anon(schema.Bool()))},
		{
			schema.Product(schema.F("a", schema.Bool()), schema.F("b", schema.String())),
			schema.Product(schema.F("b", schema.String()), schema.F("a", schema.Bool())),
		},
		{
			schema.Product(schema.F("", schema.Bool())),
			schema.Product(schema.Anon(schema.Bool())),
		},
		// Name boundaries must not bleed into field content.
		{
			schema.Product(schema.F("ab", schema.Atom("c"))),
			schema.Product(schema.F("a", schema.Atom("bc"))),
		},
		{point(), schema.Product(schema.Anon(schema.Uint(64)), schema.Anon(schema.Uint(64)))},
		{
			schema.Sum(schema.Anon(schema.Uint(64)), schema.Anon(schema.String())),
			schema.Sum(schema.Anon(schema.String()), schema.Anon(schema.Uint(64))),
		},
		{
			schema.NamedSum("Test", schema.F("Case1", schema.Uint(64)), schema.F("Case2", schema.String())),
			schema.NamedSum("Test", schema.F("Case2", schema.String()), schema.F("Case1", schema.Uint(64))),
		},
	}
	for _, p := range pairs {
		a := mustEncode(t, p[0])
		b := mustEncode(t, p[1])
		if bytes.Equal(a, b) {
			t.Errorf("distinct values share encoding %x:\n%s\n%s", a, p[0], p[1])
		}
	}
}

// No encoding is a strict prefix of another distinct encoding.
func TestEncode_SelfDelimiting(t *testing.T) {
	values := []schema.Value{
		schema.Unit(),
		schema.Bool(),
		schema.Uint(8),
		schema.Atom("a"),
		schema.Atom("ab"),
		schema.Option(schema.Bool()),
		schema.Product(),
		schema.Product(schema.Anon(schema.Bool())),
		point(),
	}
	encs := make([][]byte, len(values))
	for i, v := range values {
		encs[i] = mustEncode(t, v)
	}
	for i := range encs {
		for j := range encs {
			if i == j {
				continue
			}
			if bytes.HasPrefix(encs[j], encs[i]) {
				t.Errorf("encoding of %s is a prefix of %s", values[i], values[j])
			}
		}
	}
}

func TestEncode_RejectsMalformed(t *testing.T) {
	if _, err := Encode(schema.Value{Kind: schema.KindAtom}); err == nil {
		t.Fatalf("encoded nameless atom")
	}
	if _, err := Encode(schema.Value{Kind: schema.Kind(99)}); err == nil {
		t.Fatalf("encoded unknown kind")
	}
}

func TestEncodeLimits_DepthBound(t *testing.T) {
	v := schema.Bool()
	for i := 0; i < 20; i++ {
		v = schema.Option(v)
	}
	if _, err := EncodeLimits(v, schema.Limits{MaxDepth: 5, MaxNodes: 1000}); err == nil {
		t.Fatalf("encoded past depth limit")
	}
	if _, err := EncodeLimits(v, schema.Limits{MaxDepth: 64, MaxNodes: 1000}); err != nil {
		t.Fatalf("EncodeLimits: %v", err)
	}
}
