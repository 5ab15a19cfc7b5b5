package ir

import (
	"errors"
	"fmt"

	"recforge/internal/record"
)

// ValidationError describes the first malformed node found in a function.
type ValidationError struct {
	Func string
	Path string
	Msg  string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", e.Func, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Func, e.Path, e.Msg)
}

type validator struct {
	fn    *Func
	scope map[string]struct{}
}

// Validate checks that fn is a well formed method: identifiers are valid,
// every block is non-empty, every name is bound before use and every node
// carries the payload its kind promises.
func Validate(fn *Func) error {
	if fn == nil {
		return errors.New("nil function")
	}
	v := &validator{fn: fn, scope: make(map[string]struct{})}
	if !record.IsIdent(fn.Name) && !isDunder(fn.Name) {
		return v.fail("", "invalid method name %q", fn.Name)
	}
	if fn.Sig == nil {
		return v.fail("", "missing signature")
	}
	if len(fn.Sig.Params) == 0 || fn.Sig.Params[0].Name != SelfName {
		return v.fail("sig", "first parameter must be %s", SelfName)
	}
	sawDefault := false
	for i, p := range fn.Sig.Params {
		if i > 0 && !record.IsIdent(p.Name) {
			return v.fail("sig", "invalid parameter name %q", p.Name)
		}
		if _, dup := v.scope[p.Name]; dup {
			return v.fail("sig", "duplicate parameter %q", p.Name)
		}
		if p.Default != nil {
			sawDefault = true
		} else if sawDefault {
			return v.fail("sig", "parameter %q without default follows a defaulted one", p.Name)
		}
		v.scope[p.Name] = struct{}{}
	}
	return v.block("body", fn.Body)
}

func isDunder(name string) bool {
	return len(name) > 4 && name[:2] == "__" && name[len(name)-2:] == "__" && record.IsIdent(name[2:len(name)-2])
}

func (v *validator) fail(path, format string, args ...any) error {
	return &ValidationError{Func: v.fn.Name, Path: path, Msg: fmt.Sprintf(format, args...)}
}

func (v *validator) block(path string, stmts []*Stmt) error {
	if len(stmts) == 0 {
		return v.fail(path, "empty block")
	}
	for i, s := range stmts {
		if err := v.stmt(fmt.Sprintf("%s[%d]", path, i), s); err != nil {
			return err
		}
	}
	return nil
}

func (v *validator) stmt(path string, s *Stmt) error {
	if s == nil {
		return v.fail(path, "nil statement")
	}
	switch d := s.Data.(type) {
	case PassData:
		if s.Kind != StmtPass {
			return v.kindMismatch(path, s.Kind)
		}
	case AssignData:
		if s.Kind != StmtAssign {
			return v.kindMismatch(path, s.Kind)
		}
		if err := v.expr(path+".value", d.Value); err != nil {
			return err
		}
		if d.Target == nil {
			return v.fail(path, "assignment without target")
		}
		switch t := d.Target.Data.(type) {
		case NameData:
			if !record.IsIdent(t.Name) {
				return v.fail(path, "invalid local %q", t.Name)
			}
			v.scope[t.Name] = struct{}{}
		case AttrData:
			if err := v.expr(path+".target", d.Target); err != nil {
				return err
			}
		default:
			return v.fail(path, "cannot assign to %s", d.Target.Kind)
		}
	case IfData:
		if s.Kind != StmtIf {
			return v.kindMismatch(path, s.Kind)
		}
		if err := v.expr(path+".cond", d.Cond); err != nil {
			return err
		}
		if err := v.block(path+".then", d.Then); err != nil {
			return err
		}
		if d.Else != nil {
			if err := v.block(path+".else", d.Else); err != nil {
				return err
			}
		}
	case ReturnData:
		if s.Kind != StmtReturn {
			return v.kindMismatch(path, s.Kind)
		}
		if d.Value != nil {
			return v.expr(path+".value", d.Value)
		}
	case RaiseData:
		if s.Kind != StmtRaise {
			return v.kindMismatch(path, s.Kind)
		}
		if !record.IsIdent(d.Class) {
			return v.fail(path, "invalid exception class %q", d.Class)
		}
	case ExprStmtData:
		if s.Kind != StmtExpr {
			return v.kindMismatch(path, s.Kind)
		}
		return v.expr(path+".expr", d.Expr)
	default:
		return v.fail(path, "unknown statement payload %T", s.Data)
	}
	return nil
}

func (v *validator) kindMismatch(path string, k StmtKind) error {
	return v.fail(path, "statement kind %s does not match its payload", k)
}

func (v *validator) expr(path string, e *Expr) error {
	if e == nil {
		return v.fail(path, "nil expression")
	}
	switch d := e.Data.(type) {
	case ConstData:
		if e.Kind != ExprConst {
			return v.exprMismatch(path, e.Kind)
		}
	case NameData:
		if e.Kind != ExprName {
			return v.exprMismatch(path, e.Kind)
		}
		if _, ok := v.scope[d.Name]; !ok {
			return v.fail(path, "name %q is not bound", d.Name)
		}
	case AttrData:
		if e.Kind != ExprAttr {
			return v.exprMismatch(path, e.Kind)
		}
		if !record.IsIdent(d.Name) && !isDunder(d.Name) {
			return v.fail(path, "invalid attribute %q", d.Name)
		}
		return v.expr(path+".x", d.X)
	case BinaryData:
		if e.Kind != ExprBinary {
			return v.exprMismatch(path, e.Kind)
		}
		if d.Op == OpInvalid || d.Op > OpOr {
			return v.fail(path, "invalid operator %d", d.Op)
		}
		if err := v.expr(path+".x", d.X); err != nil {
			return err
		}
		return v.expr(path+".y", d.Y)
	case IsNoneData:
		if e.Kind != ExprIsNone {
			return v.exprMismatch(path, e.Kind)
		}
		return v.expr(path+".x", d.X)
	case CallData:
		if e.Kind != ExprCall {
			return v.exprMismatch(path, e.Kind)
		}
		if !record.IsIdent(d.Method) && !isDunder(d.Method) {
			return v.fail(path, "invalid method %q", d.Method)
		}
		if err := v.expr(path+".recv", d.Recv); err != nil {
			return err
		}
		for i, a := range d.Args {
			if err := v.expr(fmt.Sprintf("%s.args[%d]", path, i), a); err != nil {
				return err
			}
		}
	case FormatData:
		if e.Kind != ExprFormat {
			return v.exprMismatch(path, e.Kind)
		}
		for i, part := range d.Parts {
			if part.Value == nil {
				continue
			}
			if err := v.expr(fmt.Sprintf("%s.parts[%d]", path, i), part.Value); err != nil {
				return err
			}
		}
	default:
		return v.fail(path, "unknown expression payload %T", e.Data)
	}
	return nil
}

func (v *validator) exprMismatch(path string, k ExprKind) error {
	return v.fail(path, "expression kind %s does not match its payload", k)
}
