// Package infer derives raw schema descriptions from Go types by
// reflection. It is a Schema Provider: it produces fully-named Value trees
// for the core to project and hash, and contains no hashing logic itself.
package infer

import (
	"fmt"
	"reflect"
	"time"

	"github.com/schemawire/schemawire/schema"
)

// Inferrer maps Go types to schema descriptions. State is explicit and
// passed in; there is no process-wide registry.
//
// Mapping rules:
//
//   - bool, string, fixed-width ints and floats map to their shape variants;
//     int and uint map to 64-bit integers, the wire-safe upper bound.
//   - []byte maps to Bytes; other slices and arrays to Sequence.
//   - maps map to Map, pointers to Option.
//   - structs map to a Product named after the type, with exported fields
//     in declaration order. The `schema` tag renames a field; `schema:"-"`
//     skips it.
//   - registered atom types map to Atom regardless of their structure.
//   - recursive types are broken at an Atom boundary carrying the type name.
//
// Go has no native sum types; describe enums by hand with schema.Sum.
type Inferrer struct {
	atoms map[reflect.Type]string
}

// New returns an Inferrer with time.Time pre-registered as an atom. Its
// internal fields are unexported and meaningless on the wire.
func New() *Inferrer {
	in := &Inferrer{atoms: make(map[reflect.Type]string)}
	in.RegisterAtom(reflect.TypeOf(time.Time{}), "time.Time")
	return in
}

// RegisterAtom declares t opaque: it will always infer as Atom(name).
// Use this for types whose wire form is independent of their Go structure,
// and to break recursive types at a stable boundary.
func (in *Inferrer) RegisterAtom(t reflect.Type, name string) {
	in.atoms[t] = name
}

// Describe produces the raw schema description of t.
func (in *Inferrer) Describe(t reflect.Type) (schema.Value, error) {
	if t == nil {
		return schema.Value{}, schema.NewError(schema.ClassProvider, "SW-INF-001", "nil type")
	}
	return in.describe(t, make(map[reflect.Type]bool))
}

// Of is Describe for a type parameter.
func Of[T any](in *Inferrer) (schema.Value, error) {
	return in.Describe(reflect.TypeOf((*T)(nil)).Elem())
}

func typeName(t reflect.Type) string {
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}

func (in *Inferrer) describe(t reflect.Type, visiting map[reflect.Type]bool) (schema.Value, error) {
	if name, ok := in.atoms[t]; ok {
		return schema.Atom(name), nil
	}
	if visiting[t] {
		// Recursive reference. The tree must stay finite, so the cycle is
		// cut here with an opaque named boundary.
		return schema.Atom(typeName(t)), nil
	}

	switch t.Kind() {
	case reflect.Bool:
		return schema.Bool(), nil
	case reflect.Int8:
		return schema.Int(8), nil
	case reflect.Int16:
		return schema.Int(16), nil
	case reflect.Int32:
		return schema.Int(32), nil
	case reflect.Int64, reflect.Int:
		return schema.Int(64), nil
	case reflect.Uint8:
		return schema.Uint(8), nil
	case reflect.Uint16:
		return schema.Uint(16), nil
	case reflect.Uint32:
		return schema.Uint(32), nil
	case reflect.Uint64, reflect.Uint:
		return schema.Uint(64), nil
	case reflect.Float32:
		return schema.Float(32), nil
	case reflect.Float64:
		return schema.Float(64), nil
	case reflect.String:
		return schema.String(), nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return schema.Bytes(), nil
		}
		inner, err := in.describe(t.Elem(), visiting)
		if err != nil {
			return schema.Value{}, err
		}
		return schema.Sequence(inner), nil
	case reflect.Array:
		inner, err := in.describe(t.Elem(), visiting)
		if err != nil {
			return schema.Value{}, err
		}
		return schema.Sequence(inner), nil
	case reflect.Map:
		key, err := in.describe(t.Key(), visiting)
		if err != nil {
			return schema.Value{}, err
		}
		val, err := in.describe(t.Elem(), visiting)
		if err != nil {
			return schema.Value{}, err
		}
		return schema.MapOf(key, val), nil
	case reflect.Pointer:
		inner, err := in.describe(t.Elem(), visiting)
		if err != nil {
			return schema.Value{}, err
		}
		return schema.Option(inner), nil
	case reflect.Struct:
		return in.describeStruct(t, visiting)
	default:
		return schema.Value{}, schema.NewError(schema.ClassProvider, "SW-INF-002",
			fmt.Sprintf("cannot infer a schema for %s (kind %s); register it as an atom", t, t.Kind()))
	}
}

func (in *Inferrer) describeStruct(t reflect.Type, visiting map[reflect.Type]bool) (schema.Value, error) {
	visiting[t] = true
	defer delete(visiting, t)

	var fields []schema.Field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := sf.Name
		if tag, ok := sf.Tag.Lookup("schema"); ok {
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		fv, err := in.describe(sf.Type, visiting)
		if err != nil {
			return schema.Value{}, err
		}
		fields = append(fields, schema.F(name, fv))
	}

	if t.Name() == "" {
		return schema.Product(fields...), nil
	}
	return schema.NamedProduct(t.Name(), fields...), nil
}
