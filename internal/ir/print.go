package ir

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"recforge/internal/record"
)

// Indent is the per-level indentation of rendered bodies.
const Indent = "    "

// Printer renders functions as source text.
type Printer struct {
	w      io.Writer
	indent int
	err    error
}

// NewPrinter creates a printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Render returns the source text of fn.
func Render(fn *Func) string {
	var buf bytes.Buffer
	// bytes.Buffer writes never fail.
	_ = NewPrinter(&buf).PrintFunc(fn)
	return buf.String()
}

// PrintFunc prints a method declaration followed by its indented body.
func (p *Printer) PrintFunc(fn *Func) error {
	if fn == nil {
		p.printf("<nil func>\n")
		return p.err
	}
	sig := "()"
	if fn.Sig != nil {
		sig = fn.Sig.String()
	}
	p.printf("def %s%s:\n", fn.Name, sig)
	p.indent++
	p.printBlock(fn.Body)
	p.indent--
	return p.err
}

func (p *Printer) printBlock(stmts []*Stmt) {
	if len(stmts) == 0 {
		p.line("pass")
		return
	}
	for _, s := range stmts {
		p.printStmt(s)
	}
}

func (p *Printer) printStmt(s *Stmt) {
	if s == nil {
		p.line("<nil stmt>")
		return
	}
	switch d := s.Data.(type) {
	case PassData:
		p.line("pass")
	case AssignData:
		p.line(ExprString(d.Target) + " = " + ExprString(d.Value))
	case IfData:
		p.printIf("if", d)
	case ReturnData:
		if d.Value == nil {
			p.line("return")
		} else {
			p.line("return " + ExprString(d.Value))
		}
	case RaiseData:
		p.line(fmt.Sprintf("raise %s(%s)", d.Class, record.QuoteString(d.Msg)))
	case ExprStmtData:
		p.line(ExprString(d.Expr))
	default:
		p.line(fmt.Sprintf("<unknown stmt %s>", s.Kind))
	}
}

func (p *Printer) printIf(keyword string, d IfData) {
	p.line(keyword + " " + ExprString(d.Cond) + ":")
	p.indent++
	p.printBlock(d.Then)
	p.indent--
	if d.Else == nil {
		return
	}
	if len(d.Else) == 1 && d.Else[0] != nil && d.Else[0].Kind == StmtIf {
		if nested, ok := d.Else[0].Data.(IfData); ok {
			p.printIf("elif", nested)
			return
		}
	}
	p.line("else:")
	p.indent++
	p.printBlock(d.Else)
	p.indent--
}

func (p *Printer) line(s string) {
	p.printf("%s%s\n", strings.Repeat(Indent, p.indent), s)
}

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

const (
	precOr = iota + 1
	precAnd
	precCompare
	precAtom
)

func precedence(e *Expr) int {
	if e == nil {
		return precAtom
	}
	switch d := e.Data.(type) {
	case BinaryData:
		switch d.Op {
		case OpOr:
			return precOr
		case OpAnd:
			return precAnd
		default:
			return precCompare
		}
	case IsNoneData:
		return precCompare
	default:
		return precAtom
	}
}

// ExprString renders a single expression.
func ExprString(e *Expr) string {
	var b strings.Builder
	writeExpr(&b, e)
	return b.String()
}

func writeOperand(b *strings.Builder, parent int, e *Expr) {
	child := precedence(e)
	// Comparisons chain in the downstream grammar, so a comparison operand
	// of a comparison always needs parentheses.
	paren := child < parent || (parent == precCompare && child == precCompare)
	if paren {
		b.WriteByte('(')
	}
	writeExpr(b, e)
	if paren {
		b.WriteByte(')')
	}
}

func writeExpr(b *strings.Builder, e *Expr) {
	if e == nil {
		b.WriteString("<nil>")
		return
	}
	switch d := e.Data.(type) {
	case ConstData:
		b.WriteString(d.Value.String())
	case NameData:
		b.WriteString(d.Name)
	case AttrData:
		writeOperand(b, precAtom, d.X)
		b.WriteByte('.')
		b.WriteString(d.Name)
	case BinaryData:
		prec := precedence(e)
		writeOperand(b, prec, d.X)
		b.WriteByte(' ')
		b.WriteString(d.Op.String())
		b.WriteByte(' ')
		writeOperand(b, prec, d.Y)
	case IsNoneData:
		writeOperand(b, precCompare, d.X)
		if d.Negate {
			b.WriteString(" is not None")
		} else {
			b.WriteString(" is None")
		}
	case CallData:
		writeOperand(b, precAtom, d.Recv)
		b.WriteByte('.')
		b.WriteString(d.Method)
		b.WriteByte('(')
		for i, a := range d.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, a)
		}
		b.WriteByte(')')
	case FormatData:
		writeFormat(b, d)
	default:
		fmt.Fprintf(b, "<unknown expr %s>", e.Kind)
	}
}

func writeFormat(b *strings.Builder, d FormatData) {
	b.WriteString("f'")
	for _, part := range d.Parts {
		if part.Value != nil {
			b.WriteByte('{')
			writeExpr(b, part.Value)
			b.WriteByte('}')
			continue
		}
		quoted := record.QuoteString(part.Text)
		quoted = quoted[1 : len(quoted)-1]
		quoted = strings.ReplaceAll(quoted, "{", "{{")
		quoted = strings.ReplaceAll(quoted, "}", "}}")
		b.WriteString(quoted)
	}
	b.WriteByte('\'')
}
