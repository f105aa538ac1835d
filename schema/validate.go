package schema

import (
	"fmt"
	"unicode/utf8"
)

// Validate checks v against the data-model invariants under DefaultLimits.
//
// A Value built through the package constructors from valid leaves always
// validates; failures indicate a bug in the provider that produced the tree.
func Validate(v Value) error {
	return ValidateLimits(v, DefaultLimits)
}

// ValidateLimits is Validate with explicit size bounds.
func ValidateLimits(v Value, lim Limits) error {
	lim = lim.OrDefault()
	nodes := 0
	return validate(&v, lim, 1, &nodes)
}

func validBits(kind Kind, bits uint8) bool {
	switch kind {
	case KindInteger:
		return bits == 8 || bits == 16 || bits == 32 || bits == 64 || bits == 128
	case KindFloat:
		return bits == 32 || bits == 64
	default:
		return bits == 0
	}
}

func validate(v *Value, lim Limits, depth int, nodes *int) error {
	if depth > lim.MaxDepth {
		return NewError(ClassLimit, "SW-LIM-001",
			fmt.Sprintf("schema exceeds max depth %d", lim.MaxDepth))
	}
	*nodes++
	if *nodes > lim.MaxNodes {
		return NewError(ClassLimit, "SW-LIM-002",
			fmt.Sprintf("schema exceeds max node count %d", lim.MaxNodes))
	}

	switch v.Kind {
	case KindAtom:
		if v.Name == "" {
			return NewError(ClassMalformed, "SW-VAL-001", "atom requires a non-empty name")
		}
		if !utf8.ValidString(v.Name) {
			return NewError(ClassMalformed, "SW-VAL-011", "atom name is not valid UTF-8")
		}
		return leafShape(v)
	case KindUnit, KindBool, KindString, KindBytes:
		if v.Name != "" || v.Named {
			return NewError(ClassMalformed, "SW-VAL-002",
				fmt.Sprintf("%s carries no name", v.Kind))
		}
		return leafShape(v)
	case KindInteger, KindFloat:
		if !validBits(v.Kind, v.Bits) {
			return NewError(ClassMalformed, "SW-VAL-003",
				fmt.Sprintf("invalid %s width %d", v.Kind, v.Bits))
		}
		if v.Kind == KindFloat && v.Signed {
			return NewError(ClassMalformed, "SW-VAL-004", "float carries no signedness")
		}
		if v.Name != "" || v.Named {
			return NewError(ClassMalformed, "SW-VAL-002",
				fmt.Sprintf("%s carries no name", v.Kind))
		}
		if v.Elem != nil || v.Key != nil || v.Fields != nil {
			return NewError(ClassMalformed, "SW-VAL-005",
				fmt.Sprintf("%s carries no children", v.Kind))
		}
		return nil
	case KindOption, KindSequence:
		if v.Elem == nil {
			return NewError(ClassMalformed, "SW-VAL-006",
				fmt.Sprintf("%s requires an inner value", v.Kind))
		}
		if v.Key != nil || v.Fields != nil || v.Name != "" || v.Named {
			return NewError(ClassMalformed, "SW-VAL-005",
				fmt.Sprintf("%s carries exactly one child", v.Kind))
		}
		return validate(v.Elem, lim, depth+1, nodes)
	case KindMap:
		if v.Key == nil || v.Elem == nil {
			return NewError(ClassMalformed, "SW-VAL-007", "map requires key and value")
		}
		if v.Fields != nil || v.Name != "" || v.Named {
			return NewError(ClassMalformed, "SW-VAL-005", "map carries exactly two children")
		}
		if err := validate(v.Key, lim, depth+1, nodes); err != nil {
			return err
		}
		return validate(v.Elem, lim, depth+1, nodes)
	case KindProduct, KindSum:
		if v.Elem != nil || v.Key != nil {
			return NewError(ClassMalformed, "SW-VAL-005",
				fmt.Sprintf("%s children live in Fields", v.Kind))
		}
		if !v.Named && v.Name != "" {
			return NewError(ClassMalformed, "SW-VAL-008",
				"name set without Named; use Named to declare it")
		}
		if v.Named && !utf8.ValidString(v.Name) {
			return NewError(ClassMalformed, "SW-VAL-011", "declared name is not valid UTF-8")
		}
		for i := range v.Fields {
			f := &v.Fields[i]
			if !f.Named && f.Name != "" {
				return NewError(ClassMalformed, "SW-VAL-008",
					"field name set without Named; use Named to declare it")
			}
			if f.Named && !utf8.ValidString(f.Name) {
				return NewError(ClassMalformed, "SW-VAL-011", "field name is not valid UTF-8")
			}
			if err := validate(&f.Value, lim, depth+1, nodes); err != nil {
				return err
			}
		}
		return nil
	default:
		return NewError(ClassMalformed, "SW-VAL-009",
			fmt.Sprintf("unknown kind %d", v.Kind))
	}
}

func leafShape(v *Value) error {
	if v.Bits != 0 || v.Signed {
		return NewError(ClassMalformed, "SW-VAL-005",
			fmt.Sprintf("%s carries no width", v.Kind))
	}
	if v.Elem != nil || v.Key != nil || v.Fields != nil {
		return NewError(ClassMalformed, "SW-VAL-005",
			fmt.Sprintf("%s carries no children", v.Kind))
	}
	if v.Kind == KindAtom && v.Named {
		return NewError(ClassMalformed, "SW-VAL-010",
			"atom name is always its identity; Named does not apply")
	}
	return nil
}
