package record

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"recforge/internal/diag"
)

// DeclError reports a malformed record declaration.
type DeclError struct {
	Code   diag.Code
	Record string
	Field  string
	Msg    string
}

func (e *DeclError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("record %s, field %s: %s", e.Record, e.Field, e.Msg)
	}
	return fmt.Sprintf("record %s: %s", e.Record, e.Msg)
}

var reservedNames = map[string]struct{}{
	"False": {}, "None": {}, "True": {}, "and": {}, "as": {}, "assert": {},
	"async": {}, "await": {}, "break": {}, "class": {}, "continue": {},
	"def": {}, "del": {}, "elif": {}, "else": {}, "except": {}, "finally": {},
	"for": {}, "from": {}, "global": {}, "if": {}, "import": {}, "in": {},
	"is": {}, "lambda": {}, "nonlocal": {}, "not": {}, "or": {}, "pass": {},
	"raise": {}, "return": {}, "try": {}, "while": {}, "with": {}, "yield": {},
	"self": {},
}

// NormalizeIdent folds an identifier to NFKC, the form the downstream
// compares identifiers in.
func NormalizeIdent(s string) string {
	return norm.NFKC.String(strings.TrimSpace(s))
}

// IsIdent reports whether s is a valid, non-reserved identifier.
func IsIdent(s string) bool {
	if s == "" {
		return false
	}
	if _, reserved := reservedNames[s]; reserved {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

// isTypeName accepts dotted identifiers with optional bracketed arguments,
// such as torch.Tensor or Dict[str, int].
func isTypeName(s string) bool {
	depth := 0
	seg := strings.Builder{}
	flush := func() bool {
		name := strings.TrimSpace(seg.String())
		seg.Reset()
		if name == "" {
			return false
		}
		for _, part := range strings.Split(name, ".") {
			if part != "None" && !IsIdent(part) {
				return false
			}
		}
		return true
	}
	last := rune(0)
	for _, r := range s {
		switch r {
		case '[':
			if !flush() {
				return false
			}
			depth++
		case ']', ',':
			if last != ']' && !flush() {
				return false
			}
			if r == ']' {
				depth--
				if depth < 0 {
					return false
				}
			} else if depth == 0 {
				return false
			}
		default:
			if last == ']' && r != ' ' {
				return false
			}
			seg.WriteRune(r)
		}
		if r != ' ' {
			last = r
		}
	}
	if depth != 0 {
		return false
	}
	if last == ']' {
		return strings.TrimSpace(seg.String()) == ""
	}
	return flush()
}

// Builder assembles and validates a Record.
type Builder struct {
	name    string
	fields  []Field
	methods []string
	order   bool
}

// NewBuilder starts a record type declaration.
func NewBuilder(name string) *Builder {
	return &Builder{name: NormalizeIdent(name)}
}

// Field appends a field in declaration order.
func (b *Builder) Field(f Field) *Builder {
	f.Name = NormalizeIdent(f.Name)
	f.Type.Name = NormalizeIdent(f.Type.Name)
	b.fields = append(b.fields, f)
	return b
}

// Add is a shorthand for Field(NewField(...)).
func (b *Builder) Add(name string, typ Type, opts ...FieldOption) *Builder {
	return b.Field(NewField(name, typ, opts...))
}

// Define records methods the type implements itself.
func (b *Builder) Define(methods ...string) *Builder {
	for _, m := range methods {
		b.methods = append(b.methods, NormalizeIdent(m))
	}
	return b
}

// Order requests ordering synthesis.
func (b *Builder) Order(on bool) *Builder {
	b.order = on
	return b
}

// Build validates the declaration and freezes it.
func (b *Builder) Build() (*Record, error) {
	if !IsIdent(b.name) {
		return nil, &DeclError{Code: diag.DrvInvalidDecl, Record: b.name, Msg: fmt.Sprintf("invalid record name %q", b.name)}
	}
	seen := make(map[string]struct{}, len(b.fields))
	sawDefault := false
	for _, f := range b.fields {
		errf := func(code diag.Code, format string, args ...any) error {
			return &DeclError{Code: code, Record: b.name, Field: f.Name, Msg: fmt.Sprintf(format, args...)}
		}
		if !IsIdent(f.Name) {
			return nil, errf(diag.DrvInvalidDecl, "invalid field name %q", f.Name)
		}
		if _, dup := seen[f.Name]; dup {
			return nil, errf(diag.DrvDuplicateField, "field declared twice")
		}
		seen[f.Name] = struct{}{}
		if !isTypeName(f.Type.Name) {
			return nil, errf(diag.DrvInvalidDecl, "invalid type %q", f.Type.Name)
		}
		if f.HasDefault() && f.HasDefaultFactory() {
			return nil, errf(diag.DrvInvalidDecl, "cannot specify both default and default_factory")
		}
		if f.ConstructorOnly && !f.Init {
			return nil, errf(diag.DrvInvalidDecl, "constructor-only field must be an init parameter")
		}
		if f.HasDefault() && f.Default.Kind == LitNone && !f.Type.Optional && f.Type.Name != "None" {
			return nil, errf(diag.DrvInvalidDecl, "default None requires an Optional type, got %s", f.Type)
		}
		if !f.Init {
			continue
		}
		hasDefault := f.HasDefault() || f.HasDefaultFactory()
		if hasDefault {
			sawDefault = true
		} else if sawDefault {
			return nil, errf(diag.DrvFieldOrder, "non-default argument %q follows default argument", f.Name)
		}
	}
	rec := &Record{
		Name:    b.name,
		Fields:  make([]Field, len(b.fields)),
		Methods: NewMethodSet(b.methods...),
		Order:   b.order,
	}
	copy(rec.Fields, b.fields)
	return rec, nil
}

// MustBuild is Build for tables known to be valid; it panics otherwise.
func (b *Builder) MustBuild() *Record {
	rec, err := b.Build()
	if err != nil {
		panic(err)
	}
	return rec
}
