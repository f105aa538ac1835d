package schema

// Kind discriminates the variants of Value.
//
// Kind values double as the canonical encoding tags. They are part of the
// wire contract: reassigning one changes every digest ever computed, a
// breaking change to the whole system rather than to any single schema.
type Kind uint8

const (
	KindInvalid Kind = iota

	KindAtom
	KindUnit
	KindBool
	KindInteger
	KindFloat
	KindString
	KindBytes
	KindOption
	KindSequence
	KindMap
	KindProduct
	KindSum
)

func (k Kind) String() string {
	switch k {
	case KindAtom:
		return "atom"
	case KindUnit:
		return "unit"
	case KindBool:
		return "bool"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindOption:
		return "option"
	case KindSequence:
		return "sequence"
	case KindMap:
		return "map"
	case KindProduct:
		return "product"
	case KindSum:
		return "sum"
	default:
		return "invalid"
	}
}

// Value is the canonical description of a type's shape.
//
// A Value tree is finite and acyclic. Providers describing recursive host
// types must break the cycle with an Atom boundary; the core performs no
// cycle detection and assumes well-formed finite input.
//
// Values have no identity beyond their structural content: two Values with
// identical content are interchangeable.
type Value struct {
	Kind Kind

	// Name is the Atom identity (required, never empty), or the declared
	// type name of a Product or Sum when Named is true. Named distinguishes
	// "no name" from a declared empty name; the two must never collide in
	// the canonical encoding.
	Name  string
	Named bool

	// Bits is the width of an Integer or Float in bits.
	// Signed applies to Integer only.
	Bits   uint8
	Signed bool

	// Elem is the inner value of an Option or Sequence, and the value type
	// of a Map.
	Elem *Value

	// Key is the key type of a Map.
	Key *Value

	// Fields are Product fields or Sum variants, in declaration order.
	// Order is semantically significant in every mode.
	Fields []Field
}

// Field is a single Product field or Sum variant. Named distinguishes an
// anonymous (tuple-style) position from a declared name.
type Field struct {
	Name  string
	Named bool
	Value Value
}

// Atom returns an opaque named leaf. Two atoms are compatible iff their
// names match; internal structure is invisible by definition.
func Atom(name string) Value {
	return Value{Kind: KindAtom, Name: name}
}

// Unit returns the zero-width value.
func Unit() Value { return Value{Kind: KindUnit} }

// Bool returns the boolean shape.
func Bool() Value { return Value{Kind: KindBool} }

// Int returns a signed fixed-width integer shape.
func Int(bits uint8) Value {
	return Value{Kind: KindInteger, Bits: bits, Signed: true}
}

// Uint returns an unsigned fixed-width integer shape.
func Uint(bits uint8) Value {
	return Value{Kind: KindInteger, Bits: bits}
}

// Float returns an IEEE float shape of the given width.
func Float(bits uint8) Value {
	return Value{Kind: KindFloat, Bits: bits}
}

// String returns the UTF-8 text shape.
func String() Value { return Value{Kind: KindString} }

// Bytes returns the raw byte sequence shape.
func Bytes() Value { return Value{Kind: KindBytes} }

// Option wraps inner as an optional value.
func Option(inner Value) Value {
	return Value{Kind: KindOption, Elem: &inner}
}

// Sequence returns an ordered homogeneous list of inner.
func Sequence(inner Value) Value {
	return Value{Kind: KindSequence, Elem: &inner}
}

// MapOf returns a key to value association.
func MapOf(key, value Value) Value {
	return Value{Kind: KindMap, Key: &key, Elem: &value}
}

// Product returns an anonymous ordered fixed-arity aggregate (a tuple).
func Product(fields ...Field) Value {
	return Value{Kind: KindProduct, Fields: fields}
}

// NamedProduct returns a Product carrying a declared type name (a struct).
func NamedProduct(name string, fields ...Field) Value {
	return Value{Kind: KindProduct, Name: name, Named: true, Fields: fields}
}

// Sum returns an anonymous tagged union.
func Sum(variants ...Field) Value {
	return Value{Kind: KindSum, Fields: variants}
}

// NamedSum returns a Sum carrying a declared type name (an enum).
func NamedSum(name string, variants ...Field) Value {
	return Value{Kind: KindSum, Name: name, Named: true, Fields: variants}
}

// F returns a named field or variant.
func F(name string, v Value) Field {
	return Field{Name: name, Named: true, Value: v}
}

// Anon returns an anonymous (positional) field or variant.
func Anon(v Value) Field {
	return Field{Value: v}
}

// Clone returns a deep copy of v. The copy shares no pointers with v.
func (v Value) Clone() Value {
	out := v
	if v.Elem != nil {
		e := v.Elem.Clone()
		out.Elem = &e
	}
	if v.Key != nil {
		k := v.Key.Clone()
		out.Key = &k
	}
	if v.Fields != nil {
		out.Fields = make([]Field, len(v.Fields))
		for i, f := range v.Fields {
			out.Fields[i] = Field{Name: f.Name, Named: f.Named, Value: f.Value.Clone()}
		}
	}
	return out
}

// Equal reports whether v and o have identical structural content.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind || v.Name != o.Name || v.Named != o.Named ||
		v.Bits != o.Bits || v.Signed != o.Signed {
		return false
	}
	if (v.Elem == nil) != (o.Elem == nil) || (v.Key == nil) != (o.Key == nil) {
		return false
	}
	if v.Elem != nil && !v.Elem.Equal(*o.Elem) {
		return false
	}
	if v.Key != nil && !v.Key.Equal(*o.Key) {
		return false
	}
	if len(v.Fields) != len(o.Fields) {
		return false
	}
	for i := range v.Fields {
		a, b := v.Fields[i], o.Fields[i]
		if a.Name != b.Name || a.Named != b.Named || !a.Value.Equal(b.Value) {
			return false
		}
	}
	return true
}
