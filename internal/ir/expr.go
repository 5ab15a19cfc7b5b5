package ir

import "recforge/internal/record"

// ExprKind enumerates expression kinds.
type ExprKind uint8

const (
	// ExprConst is a literal constant.
	ExprConst ExprKind = iota
	// ExprName references a parameter or local.
	ExprName
	// ExprAttr reads an attribute (x.name).
	ExprAttr
	// ExprBinary applies a comparison or boolean operator.
	ExprBinary
	// ExprIsNone tests presence (x is None / x is not None).
	ExprIsNone
	// ExprCall invokes a method on a receiver (recv.method(args)).
	ExprCall
	// ExprFormat interpolates values into text.
	ExprFormat
)

// String returns a human-readable name for the expression kind.
func (k ExprKind) String() string {
	switch k {
	case ExprConst:
		return "Const"
	case ExprName:
		return "Name"
	case ExprAttr:
		return "Attr"
	case ExprBinary:
		return "Binary"
	case ExprIsNone:
		return "IsNone"
	case ExprCall:
		return "Call"
	case ExprFormat:
		return "Format"
	default:
		return "Unknown"
	}
}

// Expr is an expression node.
type Expr struct {
	Kind ExprKind
	Data ExprData
}

// ExprData is the interface for expression payloads.
type ExprData interface {
	exprData()
}

// ConstData holds data for ExprConst.
type ConstData struct {
	Value record.Literal
}

func (ConstData) exprData() {}

// NameData holds data for ExprName.
type NameData struct {
	Name string
}

func (NameData) exprData() {}

// AttrData holds data for ExprAttr.
type AttrData struct {
	X    *Expr
	Name string
}

func (AttrData) exprData() {}

// BinaryOp enumerates binary operators.
type BinaryOp uint8

const (
	OpInvalid BinaryOp = iota
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
)

func (op BinaryOp) String() string {
	switch op {
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	default:
		return "?"
	}
}

// IsComparison reports whether op compares its operands.
func (op BinaryOp) IsComparison() bool {
	return op >= OpEq && op <= OpGe
}

// Flip returns the operator with swapped operands (a < b == b > a).
func (op BinaryOp) Flip() BinaryOp {
	switch op {
	case OpLt:
		return OpGt
	case OpLe:
		return OpGe
	case OpGt:
		return OpLt
	case OpGe:
		return OpLe
	default:
		return op
	}
}

// BinaryData holds data for ExprBinary.
type BinaryData struct {
	Op BinaryOp
	X  *Expr
	Y  *Expr
}

func (BinaryData) exprData() {}

// IsNoneData holds data for ExprIsNone.
type IsNoneData struct {
	X      *Expr
	Negate bool // x is not None
}

func (IsNoneData) exprData() {}

// CallData holds data for ExprCall.
type CallData struct {
	Recv   *Expr
	Method string
	Args   []*Expr
}

func (CallData) exprData() {}

// FormatPart is either literal text or an interpolated value.
type FormatPart struct {
	Text  string
	Value *Expr
}

// FormatData holds data for ExprFormat.
type FormatData struct {
	Parts []FormatPart
}

func (FormatData) exprData() {}
