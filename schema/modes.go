package schema

import "fmt"

// Mode selects how much naming information survives into the digest.
type Mode uint8

const (
	// ModeAtom judges compatibility solely by the declared type name.
	ModeAtom Mode = 1
	// ModeStructural judges compatibility by shape only; all naming
	// metadata is erased except Atom names.
	ModeStructural Mode = 2
	// ModeNominal judges compatibility by shape plus all declared names.
	ModeNominal Mode = 3
)

func (m Mode) String() string {
	switch m {
	case ModeAtom:
		return "atom"
	case ModeStructural:
		return "structural"
	case ModeNominal:
		return "nominal"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// ParseMode parses the textual mode names used in manifests and flags.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "atom":
		return ModeAtom, nil
	case "structural":
		return ModeStructural, nil
	case "nominal":
		return ModeNominal, nil
	default:
		return 0, NewError(ClassMalformed, "SW-PRJ-002", fmt.Sprintf("unknown mode %q", s))
	}
}

// Valid reports whether m is one of the three defined modes.
func (m Mode) Valid() bool {
	return m == ModeAtom || m == ModeStructural || m == ModeNominal
}

// Project reduces a raw, fully-named description to the Value the canonical
// encoder will see, under DefaultLimits.
//
// Projection is pure and total over well-formed finite input, with one
// exception: ModeAtom requires the root to carry a name (an Atom identity or
// a declared Product/Sum name) and fails otherwise.
func Project(raw Value, mode Mode) (Value, error) {
	return ProjectLimits(raw, mode, DefaultLimits)
}

// ProjectLimits is Project with explicit size bounds.
func ProjectLimits(raw Value, mode Mode, lim Limits) (Value, error) {
	switch mode {
	case ModeAtom:
		// The recursive content is discarded without descending into it.
		switch {
		case raw.Kind == KindAtom:
			return Atom(raw.Name), nil
		case raw.Named && raw.Name != "":
			return Atom(raw.Name), nil
		default:
			return Value{}, NewError(ClassMalformed, "SW-PRJ-001",
				"atom mode requires a named root type")
		}
	case ModeStructural:
		if err := ValidateLimits(raw, lim); err != nil {
			return Value{}, err
		}
		return erase(raw), nil
	case ModeNominal:
		if err := ValidateLimits(raw, lim); err != nil {
			return Value{}, err
		}
		return raw.Clone(), nil
	default:
		return Value{}, NewError(ClassMalformed, "SW-PRJ-002",
			fmt.Sprintf("unknown mode %d", uint8(mode)))
	}
}

// erase deep-copies v with every optional name removed. Atom names are kept:
// an Atom's identity is its name by definition.
func erase(v Value) Value {
	out := v.Clone()
	if out.Kind != KindAtom {
		out.Name = ""
		out.Named = false
	}
	if out.Elem != nil {
		e := erase(*out.Elem)
		out.Elem = &e
	}
	if out.Key != nil {
		k := erase(*out.Key)
		out.Key = &k
	}
	for i := range out.Fields {
		out.Fields[i].Name = ""
		out.Fields[i].Named = false
		out.Fields[i].Value = erase(out.Fields[i].Value)
	}
	return out
}
