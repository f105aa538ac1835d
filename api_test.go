package schemawire

import (
	"testing"

	"github.com/schemawire/schemawire/schema"
)

func point() schema.Value {
	return schema.NamedProduct("Point",
		schema.F("x", schema.Uint(64)),
		schema.F("y", schema.Uint(64)),
	)
}

func u64Pair() schema.Value {
	return schema.Product(schema.Anon(schema.Uint(64)), schema.Anon(schema.Uint(64)))
}

func TestHash_Deterministic(t *testing.T) {
	for _, mode := range []schema.Mode{schema.ModeAtom, schema.ModeStructural, schema.ModeNominal} {
		a, err := Hash(point(), mode)
		if err != nil {
			t.Fatalf("Hash(%s): %v", mode, err)
		}
		b, err := Hash(point(), mode)
		if err != nil {
			t.Fatalf("Hash(%s): %v", mode, err)
		}
		if a != b {
			t.Fatalf("mode %s: equal input, unequal digests", mode)
		}
		if a.IsZero() {
			t.Fatalf("mode %s: zero digest for valid input", mode)
		}
	}
}

func TestHash_StructuralIgnoresDeclaredNames(t *testing.T) {
	a, err := Hash(point(), schema.ModeStructural)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	b, err := Hash(u64Pair(), schema.ModeStructural)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if a != b {
		t.Fatalf("structural digests of Point and (u64,u64) differ")
	}

	renamed := schema.NamedProduct("Coord",
		schema.F("lon", schema.Uint(64)),
		schema.F("lat", schema.Uint(64)),
	)
	c, err := Hash(renamed, schema.ModeStructural)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if a != c {
		t.Fatalf("structural digest changed under renaming")
	}
}

func TestHash_NominalSeesDeclaredNames(t *testing.T) {
	a, err := Hash(point(), schema.ModeNominal)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	b, err := Hash(u64Pair(), schema.ModeNominal)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if a == b {
		t.Fatalf("nominal digests of Point and (u64,u64) collide")
	}

	renamedField := schema.NamedProduct("Point",
		schema.F("x", schema.Uint(64)),
		schema.F("z", schema.Uint(64)),
	)
	c, err := Hash(renamedField, schema.ModeNominal)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if a == c {
		t.Fatalf("nominal digest blind to a field rename")
	}
}

func TestHash_FieldOrderMattersInEveryMode(t *testing.T) {
	ab := schema.Product(schema.F("a", schema.Bool()), schema.F("b", schema.String()))
	ba := schema.Product(schema.F("b", schema.String()), schema.F("a", schema.Bool()))
	for _, mode := range []schema.Mode{schema.ModeStructural, schema.ModeNominal} {
		x, err := Hash(ab, mode)
		if err != nil {
			t.Fatalf("Hash(%s): %v", mode, err)
		}
		y, err := Hash(ba, mode)
		if err != nil {
			t.Fatalf("Hash(%s): %v", mode, err)
		}
		if x == y {
			t.Fatalf("mode %s: field order invisible to digest", mode)
		}
	}
}

func TestHash_SumVariantsFollowTheSameRules(t *testing.T) {
	named := schema.NamedSum("Test",
		schema.F("Case1", schema.Uint(64)),
		schema.F("Case2", schema.String()),
	)
	anon := schema.Sum(schema.Anon(schema.Uint(64)), schema.Anon(schema.String()))
	swapped := schema.NamedSum("Test",
		schema.F("Case2", schema.String()),
		schema.F("Case1", schema.Uint(64)),
	)

	a, err := Hash(named, schema.ModeStructural)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	b, err := Hash(anon, schema.ModeStructural)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if a != b {
		t.Fatalf("structural digests of named and anonymous sums differ")
	}

	c, err := Hash(named, schema.ModeNominal)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	d, err := Hash(anon, schema.ModeNominal)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if c == d {
		t.Fatalf("nominal digests blind to sum and variant names")
	}

	for _, mode := range []schema.Mode{schema.ModeStructural, schema.ModeNominal} {
		x, err := Hash(named, mode)
		if err != nil {
			t.Fatalf("Hash(%s): %v", mode, err)
		}
		y, err := Hash(swapped, mode)
		if err != nil {
			t.Fatalf("Hash(%s): %v", mode, err)
		}
		if x == y {
			t.Fatalf("mode %s: variant order invisible to digest", mode)
		}
	}
}

func TestHash_AtomModeEquatesByNameOnly(t *testing.T) {
	other := schema.NamedProduct("Point", schema.F("weird", schema.Bytes()))
	a, err := Hash(point(), schema.ModeAtom)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	b, err := Hash(other, schema.ModeAtom)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if a != b {
		t.Fatalf("atom mode must equate same-named roots")
	}

	// And the digest equals that of the bare atom with the same name.
	c, err := Hash(schema.Atom("Point"), schema.ModeAtom)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if a != c {
		t.Fatalf("atom-mode digest differs from Atom(Point)")
	}
}

func TestHash_AtomModeRejectsAnonymousRoot(t *testing.T) {
	if _, err := Hash(u64Pair(), schema.ModeAtom); err == nil {
		t.Fatalf("atom mode accepted an unnamed root")
	}
}

func TestHash_ModesDisagreeOnTheSameInput(t *testing.T) {
	// Digests under different modes of the same raw value are distinct here:
	// atom sees only "Point", structural only the shape, nominal both.
	seen := make(map[string]schema.Mode)
	for _, mode := range []schema.Mode{schema.ModeAtom, schema.ModeStructural, schema.ModeNominal} {
		d, err := Hash(point(), mode)
		if err != nil {
			t.Fatalf("Hash(%s): %v", mode, err)
		}
		if prev, ok := seen[d.Hex()]; ok {
			t.Fatalf("modes %s and %s collide on Point", prev, mode)
		}
		seen[d.Hex()] = mode
	}
}

func TestHash_IntegerIdentityIsExact(t *testing.T) {
	a, _ := Hash(schema.Int(64), schema.ModeStructural)
	b, _ := Hash(schema.Uint(64), schema.ModeStructural)
	c, _ := Hash(schema.Int(32), schema.ModeStructural)
	if a == b || a == c || b == c {
		t.Fatalf("integer width/signedness must separate digests")
	}
}

func TestHashLimits_PropagatesLimitErrors(t *testing.T) {
	v := schema.Bool()
	for i := 0; i < 30; i++ {
		v = schema.Option(v)
	}
	_, err := HashLimits(v, schema.ModeStructural, schema.Limits{MaxDepth: 5, MaxNodes: 100})
	if err == nil {
		t.Fatalf("hashed past depth limit")
	}
	if !schema.IsClass(err, schema.ClassLimit) {
		t.Fatalf("limit overflow class: %v", err)
	}
}
