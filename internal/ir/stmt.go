package ir

import "recforge/internal/diag"

// StmtKind enumerates statement kinds.
type StmtKind uint8

const (
	// StmtPass is the no-op statement.
	StmtPass StmtKind = iota
	// StmtAssign stores into a local or an attribute.
	StmtAssign
	// StmtIf is a conditional; an Else holding a single If renders as elif.
	StmtIf
	// StmtReturn returns a value.
	StmtReturn
	// StmtRaise raises an error through the downstream error channel.
	StmtRaise
	// StmtExpr evaluates an expression for its effect.
	StmtExpr
)

// String returns a human-readable name for the statement kind.
func (k StmtKind) String() string {
	switch k {
	case StmtPass:
		return "Pass"
	case StmtAssign:
		return "Assign"
	case StmtIf:
		return "If"
	case StmtReturn:
		return "Return"
	case StmtRaise:
		return "Raise"
	case StmtExpr:
		return "Expr"
	default:
		return "Unknown"
	}
}

// Stmt is a statement node.
type Stmt struct {
	Kind StmtKind
	Data StmtData
}

// StmtData is the interface for statement payloads.
type StmtData interface {
	stmtData()
}

// PassData holds data for StmtPass.
type PassData struct{}

func (PassData) stmtData() {}

// AssignData holds data for StmtAssign.
type AssignData struct {
	Target *Expr // ExprName or ExprAttr
	Value  *Expr
}

func (AssignData) stmtData() {}

// IfData holds data for StmtIf.
type IfData struct {
	Cond *Expr
	Then []*Stmt
	Else []*Stmt // nil when absent
}

func (IfData) stmtData() {}

// ReturnData holds data for StmtReturn.
type ReturnData struct {
	Value *Expr
}

func (ReturnData) stmtData() {}

// RaiseData holds data for StmtRaise.
type RaiseData struct {
	// Class is the exception class name in source form.
	Class string
	Msg   string
	// Code is what the downstream reports the fault under.
	Code diag.Code
}

func (RaiseData) stmtData() {}

// ExprStmtData holds data for StmtExpr.
type ExprStmtData struct {
	Expr *Expr
}

func (ExprStmtData) stmtData() {}
