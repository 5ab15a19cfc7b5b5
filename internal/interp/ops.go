package interp

import (
	"math"

	"recforge/internal/ir"
	"recforge/internal/record"
)

// dunder maps comparison operators to the method implementing them.
func dunder(op ir.BinaryOp) string {
	switch op {
	case ir.OpEq:
		return record.MethodEq
	case ir.OpNe:
		return record.MethodNe
	case ir.OpLt:
		return record.MethodLt
	case ir.OpLe:
		return record.MethodLe
	case ir.OpGt:
		return record.MethodGt
	case ir.OpGe:
		return record.MethodGe
	default:
		return ""
	}
}

// reflected is the operator tried on the right operand when the left one has
// no implementation: == and != reflect to themselves, orderings swap.
func reflected(op ir.BinaryOp) ir.BinaryOp {
	return op.Flip()
}

func hasMethod(v Value, name string) bool {
	if v.Kind != KindInstance || v.Obj == nil {
		return false
	}
	_, ok := v.Obj.Class.Method(name)
	return ok
}

func (in *Interp) compare(op ir.BinaryOp, x, y Value) (Value, error) {
	if !op.IsComparison() {
		return Value{}, fault("SystemError", "operator %s is not a comparison", op)
	}
	if x.Kind == KindInstance || y.Kind == KindInstance {
		return in.compareInstances(op, x, y)
	}
	if x.Kind == KindTensor || y.Kind == KindTensor {
		return compareTensors(op, x, y)
	}
	if x.IsNone() || y.IsNone() {
		switch op {
		case ir.OpEq:
			return BoolValue(x.IsNone() && y.IsNone()), nil
		case ir.OpNe:
			return BoolValue(!(x.IsNone() && y.IsNone())), nil
		}
		return Value{}, unorderable(op, x, y)
	}
	if x.isNumber() && y.isNumber() {
		return BoolValue(compareNumbers(op, x, y)), nil
	}
	if x.Kind == KindStr && y.Kind == KindStr {
		return BoolValue(ordered(op, compareStrings(x.Str, y.Str))), nil
	}
	switch op {
	case ir.OpEq:
		return BoolValue(false), nil
	case ir.OpNe:
		return BoolValue(true), nil
	}
	return Value{}, unorderable(op, x, y)
}

func (in *Interp) compareInstances(op ir.BinaryOp, x, y Value) (Value, error) {
	if name := dunder(op); hasMethod(x, name) {
		return in.Invoke(x, name, y)
	}
	if name := dunder(reflected(op)); hasMethod(y, name) {
		return in.Invoke(y, name, x)
	}
	same := x.Kind == KindInstance && y.Kind == KindInstance && x.Obj == y.Obj
	switch op {
	case ir.OpEq:
		return BoolValue(same), nil
	case ir.OpNe:
		return BoolValue(!same), nil
	}
	return Value{}, unorderable(op, x, y)
}

func compareTensors(op ir.BinaryOp, x, y Value) (Value, error) {
	if x.IsNone() || y.IsNone() {
		switch op {
		case ir.OpEq:
			return BoolValue(false), nil
		case ir.OpNe:
			return BoolValue(true), nil
		}
		return Value{}, unorderable(op, x, y)
	}
	a, ok := asTensor(x)
	if !ok {
		return Value{}, unorderable(op, x, y)
	}
	b, ok := asTensor(y)
	if !ok {
		return Value{}, unorderable(op, x, y)
	}
	out, err := a.compare(b, func(p, q float64) bool { return ordered(op, compareFloats(p, q)) })
	if err != nil {
		return Value{}, fault("RuntimeError", "%v", err)
	}
	return TensorValue(out), nil
}

func asTensor(v Value) (*Tensor, bool) {
	switch {
	case v.Kind == KindTensor:
		return v.Tensor, v.Tensor != nil
	case v.isNumber():
		return Scalar(v.asFloat()), true
	default:
		return nil, false
	}
}

func compareNumbers(op ir.BinaryOp, x, y Value) bool {
	if x.Kind != KindFloat && y.Kind != KindFloat {
		a, b := x.asInt(), y.asInt()
		switch {
		case a < b:
			return ordered(op, -1)
		case a > b:
			return ordered(op, 1)
		default:
			return ordered(op, 0)
		}
	}
	switch {
	case x.Kind == KindFloat && y.Kind == KindFloat:
		return ordered(op, compareFloats(x.Float, y.Float))
	case x.Kind == KindFloat:
		c := compareIntFloat(y.asInt(), x.Float)
		if c != unordered {
			c = -c
		}
		return ordered(op, c)
	default:
		return ordered(op, compareIntFloat(x.asInt(), y.Float))
	}
}

// compareIntFloat compares exactly; converting i to float64 would round
// integers above 2^53.
func compareIntFloat(i int64, f float64) int {
	switch {
	case math.IsNaN(f):
		return unordered
	case f >= 1<<63:
		return -1
	case f < -(1 << 63):
		return 1
	}
	whole := math.Trunc(f)
	n := int64(whole)
	switch {
	case i < n:
		return -1
	case i > n:
		return 1
	case f > whole:
		return -1
	case f < whole:
		return 1
	default:
		return 0
	}
}

// unordered is returned by compareFloats when either side is NaN; every
// comparison except != is then false.
const unordered = 2

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	case a == b:
		return 0
	default:
		return unordered
	}
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func ordered(op ir.BinaryOp, c int) bool {
	if c == unordered {
		return op == ir.OpNe
	}
	switch op {
	case ir.OpEq:
		return c == 0
	case ir.OpNe:
		return c != 0
	case ir.OpLt:
		return c < 0
	case ir.OpLe:
		return c <= 0
	case ir.OpGt:
		return c > 0
	case ir.OpGe:
		return c >= 0
	default:
		return false
	}
}

func unorderable(op ir.BinaryOp, x, y Value) *RuntimeError {
	return typeError("'%s' not supported between instances of '%s' and '%s'", op, x.TypeName(), y.TypeName())
}

// truth is the condition conversion used by if, and, or.
func truth(v Value) (bool, error) {
	switch v.Kind {
	case KindNone:
		return false, nil
	case KindBool:
		return v.Bool, nil
	case KindInt:
		return v.Int != 0, nil
	case KindFloat:
		return v.Float != 0, nil
	case KindStr:
		return v.Str != "", nil
	case KindTensor:
		ok, err := v.Tensor.Truth()
		if err != nil {
			return false, fault("RuntimeError", "%v", err)
		}
		return ok, nil
	default:
		return true, nil
	}
}
