package schema

import (
	"fmt"
	"strings"
)

// String renders a compact single-line form, e.g.
// Point(("x":u64,"y":u64)) or (u64|str).
func (v Value) String() string {
	var b strings.Builder
	v.writeTo(&b)
	return b.String()
}

func (f Field) writeTo(b *strings.Builder) {
	if f.Named {
		fmt.Fprintf(b, "%q:", f.Name)
	}
	f.Value.writeTo(b)
}

func (v Value) writeTo(b *strings.Builder) {
	switch v.Kind {
	case KindAtom:
		fmt.Fprintf(b, "%q", v.Name)
	case KindUnit:
		b.WriteString("()")
	case KindBool:
		b.WriteString("bool")
	case KindInteger:
		if v.Signed {
			fmt.Fprintf(b, "i%d", v.Bits)
		} else {
			fmt.Fprintf(b, "u%d", v.Bits)
		}
	case KindFloat:
		fmt.Fprintf(b, "f%d", v.Bits)
	case KindString:
		b.WriteString("str")
	case KindBytes:
		b.WriteString("bytes")
	case KindOption:
		v.Elem.writeTo(b)
		b.WriteByte('?')
	case KindSequence:
		b.WriteByte('[')
		v.Elem.writeTo(b)
		b.WriteByte(']')
	case KindMap:
		b.WriteByte('{')
		v.Key.writeTo(b)
		b.WriteByte(':')
		v.Elem.writeTo(b)
		b.WriteByte('}')
	case KindProduct:
		if v.Named {
			fmt.Fprintf(b, "%s(", v.Name)
		}
		b.WriteByte('(')
		for i, f := range v.Fields {
			if i > 0 {
				b.WriteByte(',')
			}
			f.writeTo(b)
		}
		b.WriteByte(')')
		if v.Named {
			b.WriteByte(')')
		}
	case KindSum:
		if v.Named {
			fmt.Fprintf(b, "%s(", v.Name)
		}
		b.WriteByte('(')
		for i, f := range v.Fields {
			if i > 0 {
				b.WriteByte('|')
			}
			f.writeTo(b)
		}
		b.WriteByte(')')
		if v.Named {
			b.WriteByte(')')
		}
	default:
		b.WriteString("<invalid>")
	}
}

// Pretty renders a multi-line indented form for logs and CLI output.
func (v Value) Pretty() string {
	var b strings.Builder
	pretty(&b, v, 0)
	return b.String()
}

func pretty(b *strings.Builder, v Value, indent int) {
	pad := strings.Repeat("  ", indent)
	switch v.Kind {
	case KindProduct, KindSum:
		sep := ","
		if v.Kind == KindSum {
			sep = " |"
		}
		b.WriteString(pad)
		if v.Named {
			fmt.Fprintf(b, "%s ", v.Name)
		}
		if len(v.Fields) == 0 {
			b.WriteString("()")
			return
		}
		b.WriteString("(\n")
		for i, f := range v.Fields {
			if f.Named {
				fmt.Fprintf(b, "%s%q: ", strings.Repeat("  ", indent+1), f.Name)
				b.WriteString(strings.TrimLeft(prettyString(f.Value, indent+1), " "))
			} else {
				pretty(b, f.Value, indent+1)
			}
			if i < len(v.Fields)-1 {
				b.WriteString(sep)
			}
			b.WriteByte('\n')
		}
		b.WriteString(pad)
		b.WriteByte(')')
	case KindOption:
		pretty(b, *v.Elem, indent)
		b.WriteByte('?')
	case KindSequence:
		b.WriteString(pad)
		b.WriteString("[\n")
		pretty(b, *v.Elem, indent+1)
		b.WriteByte('\n')
		b.WriteString(pad)
		b.WriteByte(']')
	case KindMap:
		b.WriteString(pad)
		b.WriteString("{\n")
		pretty(b, *v.Key, indent+1)
		b.WriteString(":\n")
		pretty(b, *v.Elem, indent+1)
		b.WriteByte('\n')
		b.WriteString(pad)
		b.WriteByte('}')
	default:
		b.WriteString(pad)
		v.writeTo(b)
	}
}

func prettyString(v Value, indent int) string {
	var b strings.Builder
	pretty(&b, v, indent)
	return b.String()
}
