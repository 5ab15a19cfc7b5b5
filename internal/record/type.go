package record

import (
	"math"
	"strconv"
	"strings"
)

// Type is the declared type of a field. Optional is carried as a flag set
// once when the descriptor is built; it is never recovered from the printed
// form.
type Type struct {
	Name     string
	Optional bool
}

// Named returns a non-optional type.
func Named(name string) Type { return Type{Name: name} }

// OptionalOf returns the optional wrapper of name.
func OptionalOf(name string) Type { return Type{Name: name, Optional: true} }

// Unwrap strips the optional wrapper.
func (t Type) Unwrap() Type {
	t.Optional = false
	return t
}

func (t Type) String() string {
	if t.Optional {
		return "Optional[" + t.Name + "]"
	}
	return t.Name
}

// ParseType accepts "T" or "Optional[T]".
func ParseType(s string) Type {
	s = strings.TrimSpace(s)
	if inner, ok := strings.CutPrefix(s, "Optional["); ok {
		if inner, ok = strings.CutSuffix(inner, "]"); ok {
			return OptionalOf(strings.TrimSpace(inner))
		}
	}
	return Named(s)
}

// LiteralKind enumerates default value kinds.
type LiteralKind uint8

const (
	LitNone LiteralKind = iota
	LitBool
	LitInt
	LitFloat
	LitStr
)

func (k LiteralKind) String() string {
	switch k {
	case LitNone:
		return "none"
	case LitBool:
		return "bool"
	case LitInt:
		return "int"
	case LitFloat:
		return "float"
	case LitStr:
		return "str"
	default:
		return "unknown"
	}
}

// Literal is a constant default value.
type Literal struct {
	Kind  LiteralKind
	Bool  bool
	Int   int64
	Float float64
	Str   string
}

func NoneLit() Literal { return Literal{Kind: LitNone} }
func BoolLit(v bool) Literal { return Literal{Kind: LitBool, Bool: v} }
func IntLit(v int64) Literal { return Literal{Kind: LitInt, Int: v} }
func FloatLit(v float64) Literal { return Literal{Kind: LitFloat, Float: v} }
func StrLit(v string) Literal { return Literal{Kind: LitStr, Str: v} }

// String renders the literal in source form.
func (l Literal) String() string {
	switch l.Kind {
	case LitNone:
		return "None"
	case LitBool:
		if l.Bool {
			return "True"
		}
		return "False"
	case LitInt:
		return strconv.FormatInt(l.Int, 10)
	case LitFloat:
		return FormatFloat(l.Float)
	case LitStr:
		return QuoteString(l.Str)
	default:
		return "None"
	}
}

// FormatFloat prints a float the way the downstream's repr does: integral
// values keep a trailing ".0".
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	// Shortest digits; positional for decimal exponents in [-4, 16),
	// scientific with a two-digit exponent otherwise.
	sci := strconv.FormatFloat(f, 'e', -1, 64)
	exp, err := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if err != nil || exp < -4 || exp >= 16 {
		return sci
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if strings.Contains(s, ".") {
		return s
	}
	return s + ".0"
}

// QuoteString produces a single-quoted string literal.
func QuoteString(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}
