package schema

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// JSON interchange form: each Value is a single-key object naming its
// variant, e.g.
//
//	{"integer":{"bits":64,"signed":false}}
//	{"product":{"name":"Point","fields":[
//	    {"name":"x","value":{"integer":{"bits":64}}},
//	    {"name":"y","value":{"integer":{"bits":64}}}]}}
//
// Absent names are omitted keys; a declared empty name is an explicit "".
// This form is for CLI input and debugging, not for hashing: digests are
// computed over the canonical binary encoding only.

type jsonValue struct {
	Atom     *string    `json:"atom,omitempty"`
	Unit     *struct{}  `json:"unit,omitempty"`
	Bool     *struct{}  `json:"bool,omitempty"`
	Integer  *jsonInt   `json:"integer,omitempty"`
	Float    *jsonFloat `json:"float,omitempty"`
	String   *struct{}  `json:"string,omitempty"`
	Bytes    *struct{}  `json:"bytes,omitempty"`
	Option   *jsonValue `json:"option,omitempty"`
	Sequence *jsonValue `json:"sequence,omitempty"`
	Map      *jsonMap   `json:"map,omitempty"`
	Product  *jsonAgg   `json:"product,omitempty"`
	Sum      *jsonAgg   `json:"sum,omitempty"`
}

type jsonInt struct {
	Bits   uint8 `json:"bits"`
	Signed bool  `json:"signed,omitempty"`
}

type jsonFloat struct {
	Bits uint8 `json:"bits"`
}

type jsonMap struct {
	Key   jsonValue `json:"key"`
	Value jsonValue `json:"value"`
}

type jsonAgg struct {
	Name   *string     `json:"name,omitempty"`
	Fields []jsonField `json:"fields"`
}

type jsonField struct {
	Name  *string   `json:"name,omitempty"`
	Value jsonValue `json:"value"`
}

func (v Value) MarshalJSON() ([]byte, error) {
	jv, err := toJSON(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(jv)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var jv jsonValue
	if err := json.Unmarshal(data, &jv); err != nil {
		return WrapError(ClassDecode, "SW-JSON-001", "invalid schema JSON", err)
	}
	out, err := fromJSON(jv)
	if err != nil {
		return err
	}
	*v = out
	return nil
}

var empty = struct{}{}

func toJSON(v Value) (jsonValue, error) {
	switch v.Kind {
	case KindAtom:
		name := v.Name
		return jsonValue{Atom: &name}, nil
	case KindUnit:
		return jsonValue{Unit: &empty}, nil
	case KindBool:
		return jsonValue{Bool: &empty}, nil
	case KindInteger:
		return jsonValue{Integer: &jsonInt{Bits: v.Bits, Signed: v.Signed}}, nil
	case KindFloat:
		return jsonValue{Float: &jsonFloat{Bits: v.Bits}}, nil
	case KindString:
		return jsonValue{String: &empty}, nil
	case KindBytes:
		return jsonValue{Bytes: &empty}, nil
	case KindOption:
		inner, err := toJSON(*v.Elem)
		if err != nil {
			return jsonValue{}, err
		}
		return jsonValue{Option: &inner}, nil
	case KindSequence:
		inner, err := toJSON(*v.Elem)
		if err != nil {
			return jsonValue{}, err
		}
		return jsonValue{Sequence: &inner}, nil
	case KindMap:
		key, err := toJSON(*v.Key)
		if err != nil {
			return jsonValue{}, err
		}
		val, err := toJSON(*v.Elem)
		if err != nil {
			return jsonValue{}, err
		}
		return jsonValue{Map: &jsonMap{Key: key, Value: val}}, nil
	case KindProduct, KindSum:
		agg := jsonAgg{Fields: make([]jsonField, 0, len(v.Fields))}
		if v.Named {
			name := v.Name
			agg.Name = &name
		}
		for _, f := range v.Fields {
			fv, err := toJSON(f.Value)
			if err != nil {
				return jsonValue{}, err
			}
			jf := jsonField{Value: fv}
			if f.Named {
				name := f.Name
				jf.Name = &name
			}
			agg.Fields = append(agg.Fields, jf)
		}
		if v.Kind == KindProduct {
			return jsonValue{Product: &agg}, nil
		}
		return jsonValue{Sum: &agg}, nil
	default:
		return jsonValue{}, NewError(ClassMalformed, "SW-JSON-002",
			fmt.Sprintf("cannot marshal kind %d", v.Kind))
	}
}

func fromJSON(jv jsonValue) (Value, error) {
	set := 0
	var out Value
	var err error

	if jv.Atom != nil {
		set++
		out = Atom(*jv.Atom)
	}
	if jv.Unit != nil {
		set++
		out = Unit()
	}
	if jv.Bool != nil {
		set++
		out = Bool()
	}
	if jv.Integer != nil {
		set++
		out = Value{Kind: KindInteger, Bits: jv.Integer.Bits, Signed: jv.Integer.Signed}
	}
	if jv.Float != nil {
		set++
		out = Float(jv.Float.Bits)
	}
	if jv.String != nil {
		set++
		out = String()
	}
	if jv.Bytes != nil {
		set++
		out = Bytes()
	}
	if jv.Option != nil {
		set++
		var inner Value
		if inner, err = fromJSON(*jv.Option); err != nil {
			return Value{}, err
		}
		out = Option(inner)
	}
	if jv.Sequence != nil {
		set++
		var inner Value
		if inner, err = fromJSON(*jv.Sequence); err != nil {
			return Value{}, err
		}
		out = Sequence(inner)
	}
	if jv.Map != nil {
		set++
		key, err := fromJSON(jv.Map.Key)
		if err != nil {
			return Value{}, err
		}
		val, err := fromJSON(jv.Map.Value)
		if err != nil {
			return Value{}, err
		}
		out = MapOf(key, val)
	}
	if jv.Product != nil {
		set++
		if out, err = aggFromJSON(KindProduct, *jv.Product); err != nil {
			return Value{}, err
		}
	}
	if jv.Sum != nil {
		set++
		if out, err = aggFromJSON(KindSum, *jv.Sum); err != nil {
			return Value{}, err
		}
	}

	if set != 1 {
		return Value{}, NewError(ClassDecode, "SW-JSON-003",
			fmt.Sprintf("schema JSON object must have exactly one variant key, got %d", set))
	}
	return out, nil
}

func aggFromJSON(kind Kind, agg jsonAgg) (Value, error) {
	out := Value{Kind: kind}
	if agg.Name != nil {
		out.Name = *agg.Name
		out.Named = true
	}
	for _, jf := range agg.Fields {
		fv, err := fromJSON(jf.Value)
		if err != nil {
			return Value{}, err
		}
		f := Field{Value: fv}
		if jf.Name != nil {
			f.Name = *jf.Name
			f.Named = true
		}
		out.Fields = append(out.Fields, f)
	}
	return out, nil
}
