// schema_vector_gen emits conformance vectors: for a fixed set of schema
// descriptions it prints, per mode, the canonical encoding (hex) and digest.
// Run it after any change to the encoding and diff the output; any delta is
// a wire-breaking change.
package main

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"github.com/schemawire/schemawire"
	"github.com/schemawire/schemawire/canonical"
	"github.com/schemawire/schemawire/schema"
)

func vectors() []struct {
	label string
	value schema.Value
} {
	return []struct {
		label string
		value schema.Value
	}{
		{"unit", schema.Unit()},
		{"bool", schema.Bool()},
		{"u64", schema.Uint(64)},
		{"i64", schema.Int(64)},
		{"f64", schema.Float(64)},
		{"string", schema.String()},
		{"bytes", schema.Bytes()},
		{"atom-time", schema.Atom("time.Time")},
		{"option-bool", schema.Option(schema.Bool())},
		{"seq-u8", schema.Sequence(schema.Uint(8))},
		{"map-str-i64", schema.MapOf(schema.String(), schema.Int(64))},
		{"point", schema.NamedProduct("Point",
			schema.F("x", schema.Uint(64)),
			schema.F("y", schema.Uint(64)),
		)},
		{"pair", schema.Product(
			schema.Anon(schema.Uint(64)),
			schema.Anon(schema.Uint(64)),
		)},
		{"empty-name", schema.NamedProduct("", schema.F("x", schema.Bool()))},
		{"shape", schema.NamedSum("Shape",
			schema.F("circle", schema.NamedProduct("Circle", schema.F("r", schema.Float(64)))),
			schema.F("point", schema.NamedProduct("Point",
				schema.F("x", schema.Uint(64)),
				schema.F("y", schema.Uint(64)),
			)),
		)},
	}
}

func main() {
	modes := []schema.Mode{schema.ModeAtom, schema.ModeStructural, schema.ModeNominal}
	for _, vec := range vectors() {
		js, err := json.Marshal(vec.value)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", vec.label, err)
			os.Exit(1)
		}
		fmt.Printf("## %s\n", vec.label)
		fmt.Printf("json\t%s\n", js)
		for _, mode := range modes {
			projected, err := schema.Project(vec.value, mode)
			if err != nil {
				// Atom mode rejects unnamed roots; record that as a vector too.
				fmt.Printf("%s\terror\t%v\n", mode, err)
				continue
			}
			enc, err := canonical.Encode(projected)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s/%s: %v\n", vec.label, mode, err)
				os.Exit(1)
			}
			d, err := schemawire.Hash(vec.value, mode)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s/%s: %v\n", vec.label, mode, err)
				os.Exit(1)
			}
			fmt.Printf("%s\tbytes=%x\tdigest=%s\n", mode, enc, d.Hex())
		}
		fmt.Println()
	}
}
