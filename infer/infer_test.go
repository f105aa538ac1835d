package infer

import (
	"reflect"
	"testing"
	"time"

	"github.com/schemawire/schemawire/schema"
)

func mustDescribe[T any](t *testing.T, in *Inferrer) schema.Value {
	t.Helper()
	v, err := Of[T](in)
	if err != nil {
		t.Fatalf("Of: %v", err)
	}
	if verr := schema.Validate(v); verr != nil {
		t.Fatalf("inferred value does not validate: %v", verr)
	}
	return v
}

func TestDescribe_Scalars(t *testing.T) {
	in := New()
	cases := []struct {
		got  schema.Value
		want schema.Value
	}{
		{mustDescribe[bool](t, in), schema.Bool()},
		{mustDescribe[int8](t, in), schema.Int(8)},
		{mustDescribe[int32](t, in), schema.Int(32)},
		{mustDescribe[int](t, in), schema.Int(64)},
		{mustDescribe[uint](t, in), schema.Uint(64)},
		{mustDescribe[uint16](t, in), schema.Uint(16)},
		{mustDescribe[float32](t, in), schema.Float(32)},
		{mustDescribe[float64](t, in), schema.Float(64)},
		{mustDescribe[string](t, in), schema.String()},
	}
	for _, tc := range cases {
		if !tc.got.Equal(tc.want) {
			t.Errorf("inferred %s, want %s", tc.got, tc.want)
		}
	}
}

func TestDescribe_Composites(t *testing.T) {
	in := New()
	if v := mustDescribe[[]byte](t, in); !v.Equal(schema.Bytes()) {
		t.Errorf("[]byte inferred as %s", v)
	}
	if v := mustDescribe[[]string](t, in); !v.Equal(schema.Sequence(schema.String())) {
		t.Errorf("[]string inferred as %s", v)
	}
	if v := mustDescribe[[4]uint32](t, in); !v.Equal(schema.Sequence(schema.Uint(32))) {
		t.Errorf("[4]uint32 inferred as %s", v)
	}
	if v := mustDescribe[map[string]int](t, in); !v.Equal(schema.MapOf(schema.String(), schema.Int(64))) {
		t.Errorf("map[string]int inferred as %s", v)
	}
	if v := mustDescribe[*bool](t, in); !v.Equal(schema.Option(schema.Bool())) {
		t.Errorf("*bool inferred as %s", v)
	}
}

type coordinates struct {
	X   uint64
	Y   uint64
	tag string
}

func TestDescribe_StructExportedFieldsOnly(t *testing.T) {
	in := New()
	got := mustDescribe[coordinates](t, in)
	want := schema.NamedProduct("coordinates",
		schema.F("X", schema.Uint(64)),
		schema.F("Y", schema.Uint(64)),
	)
	if !got.Equal(want) {
		t.Fatalf("inferred %s, want %s", got, want)
	}
}

type tagged struct {
	ID      uint64 `schema:"id"`
	Skipped string `schema:"-"`
	Plain   bool
}

func TestDescribe_StructTags(t *testing.T) {
	in := New()
	got := mustDescribe[tagged](t, in)
	want := schema.NamedProduct("tagged",
		schema.F("id", schema.Uint(64)),
		schema.F("Plain", schema.Bool()),
	)
	if !got.Equal(want) {
		t.Fatalf("inferred %s, want %s", got, want)
	}
}

type event struct {
	At   time.Time
	Name string
}

func TestDescribe_TimeIsAnAtom(t *testing.T) {
	in := New()
	got := mustDescribe[event](t, in)
	want := schema.NamedProduct("event",
		schema.F("At", schema.Atom("time.Time")),
		schema.F("Name", schema.String()),
	)
	if !got.Equal(want) {
		t.Fatalf("inferred %s, want %s", got, want)
	}
}

type treeNode struct {
	Label    string
	Children []*treeNode
}

func TestDescribe_RecursionBreaksAtAtom(t *testing.T) {
	in := New()
	got := mustDescribe[treeNode](t, in)
	want := schema.NamedProduct("treeNode",
		schema.F("Label", schema.String()),
		schema.F("Children", schema.Sequence(schema.Option(schema.Atom("treeNode")))),
	)
	if !got.Equal(want) {
		t.Fatalf("inferred %s, want %s", got, want)
	}
}

type opaque struct {
	raw []byte
}

func TestDescribe_RegisteredAtomWins(t *testing.T) {
	in := New()
	in.RegisterAtom(reflect.TypeOf(opaque{}), "example.Opaque")
	got := mustDescribe[opaque](t, in)
	if !got.Equal(schema.Atom("example.Opaque")) {
		t.Fatalf("inferred %s, want Atom(example.Opaque)", got)
	}
}

func TestDescribe_UnsupportedKinds(t *testing.T) {
	in := New()
	if _, err := Of[chan int](in); err == nil {
		t.Fatalf("inferred a schema for chan int")
	}
	if _, err := Of[func()](in); err == nil {
		t.Fatalf("inferred a schema for func()")
	}
	_, err := Of[complex128](in)
	if err == nil {
		t.Fatalf("inferred a schema for complex128")
	}
	if !schema.IsClass(err, schema.ClassProvider) {
		t.Fatalf("unsupported kind class: %v", err)
	}
	if _, err := in.Describe(nil); err == nil {
		t.Fatalf("Describe(nil) accepted")
	}
}

func TestDescribe_InterfaceValuesAreRejected(t *testing.T) {
	in := New()
	if _, err := Of[any](in); err == nil {
		t.Fatalf("inferred a schema for interface{}")
	}
}
