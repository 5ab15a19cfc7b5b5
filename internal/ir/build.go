package ir

import (
	"recforge/internal/diag"
	"recforge/internal/record"
)

// Conventional names used by synthesized bodies.
const (
	SelfName  = "self"
	OtherName = "other"
)

func Const(lit record.Literal) *Expr {
	return &Expr{Kind: ExprConst, Data: ConstData{Value: lit}}
}

func None() *Expr  { return Const(record.NoneLit()) }
func True() *Expr  { return Const(record.BoolLit(true)) }
func False() *Expr { return Const(record.BoolLit(false)) }

// Bool returns the constant True or False.
func Bool(v bool) *Expr { return Const(record.BoolLit(v)) }

func Name(name string) *Expr {
	return &Expr{Kind: ExprName, Data: NameData{Name: name}}
}

func Attr(x *Expr, name string) *Expr {
	return &Expr{Kind: ExprAttr, Data: AttrData{X: x, Name: name}}
}

// SelfAttr is self.name.
func SelfAttr(name string) *Expr { return Attr(Name(SelfName), name) }

// OtherAttr is other.name.
func OtherAttr(name string) *Expr { return Attr(Name(OtherName), name) }

func Binary(op BinaryOp, x, y *Expr) *Expr {
	return &Expr{Kind: ExprBinary, Data: BinaryData{Op: op, X: x, Y: y}}
}

func And(x, y *Expr) *Expr { return Binary(OpAnd, x, y) }

func IsNone(x *Expr) *Expr {
	return &Expr{Kind: ExprIsNone, Data: IsNoneData{X: x}}
}

func IsNotNone(x *Expr) *Expr {
	return &Expr{Kind: ExprIsNone, Data: IsNoneData{X: x, Negate: true}}
}

func Call(recv *Expr, method string, args ...*Expr) *Expr {
	return &Expr{Kind: ExprCall, Data: CallData{Recv: recv, Method: method, Args: args}}
}

// Text is a literal format part.
func Text(s string) FormatPart { return FormatPart{Text: s} }

// Value is an interpolated format part.
func Value(x *Expr) FormatPart { return FormatPart{Value: x} }

func Format(parts ...FormatPart) *Expr {
	return &Expr{Kind: ExprFormat, Data: FormatData{Parts: parts}}
}

func Pass() *Stmt { return &Stmt{Kind: StmtPass, Data: PassData{}} }

func Assign(target, value *Expr) *Stmt {
	return &Stmt{Kind: StmtAssign, Data: AssignData{Target: target, Value: value}}
}

func If(cond *Expr, then []*Stmt, els []*Stmt) *Stmt {
	return &Stmt{Kind: StmtIf, Data: IfData{Cond: cond, Then: then, Else: els}}
}

func Return(value *Expr) *Stmt {
	return &Stmt{Kind: StmtReturn, Data: ReturnData{Value: value}}
}

func Raise(class, msg string, code diag.Code) *Stmt {
	return &Stmt{Kind: StmtRaise, Data: RaiseData{Class: class, Msg: msg, Code: code}}
}

func ExprStmt(x *Expr) *Stmt {
	return &Stmt{Kind: StmtExpr, Data: ExprStmtData{Expr: x}}
}

// Block is a convenience for literal statement lists.
func Block(stmts ...*Stmt) []*Stmt { return stmts }
