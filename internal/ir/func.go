package ir

import (
	"strings"

	"recforge/internal/record"
)

// Param is one method parameter. The receiver is the first parameter and
// carries no type.
type Param struct {
	Name    string
	Type    record.Type
	Default *record.Literal
}

// Signature is a method signature including the receiver.
type Signature struct {
	Params []Param
	Result record.Type
}

// NewSignature builds a signature whose first parameter is the receiver.
func NewSignature(result record.Type, params ...Param) *Signature {
	all := make([]Param, 0, len(params)+1)
	all = append(all, Param{Name: SelfName})
	all = append(all, params...)
	return &Signature{Params: all, Result: result}
}

// Arity is the number of parameters after the receiver.
func (s *Signature) Arity() int {
	if s == nil || len(s.Params) == 0 {
		return 0
	}
	return len(s.Params) - 1
}

// Required is the number of parameters after the receiver without defaults.
func (s *Signature) Required() int {
	n := 0
	if s.Arity() == 0 {
		return 0
	}
	for _, p := range s.Params[1:] {
		if p.Default == nil {
			n++
		}
	}
	return n
}

func (s *Signature) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, p := range s.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name)
		if p.Type.Name != "" {
			b.WriteString(": ")
			b.WriteString(p.Type.String())
		}
		if p.Default != nil {
			if p.Type.Name != "" {
				b.WriteString(" = ")
			} else {
				b.WriteByte('=')
			}
			b.WriteString(p.Default.String())
		}
	}
	b.WriteByte(')')
	if s.Result.Name != "" {
		b.WriteString(" -> ")
		b.WriteString(s.Result.String())
	}
	return b.String()
}

// Func is a method declaration.
type Func struct {
	Name string
	Sig  *Signature
	Body []*Stmt
}
