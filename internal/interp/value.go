package interp

import (
	"strconv"

	"recforge/internal/record"
)

// Kind identifies the runtime type of a Value.
type Kind uint8

const (
	KindNone Kind = iota
	KindBool
	KindInt
	KindFloat
	KindStr
	KindTensor
	KindInstance
)

// String returns the type name used in error messages.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "NoneType"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindStr:
		return "str"
	case KindTensor:
		return "Tensor"
	case KindInstance:
		return "instance"
	default:
		return "invalid"
	}
}

// Value is a runtime value. The zero Value is None.
type Value struct {
	Kind   Kind
	Bool   bool
	Int    int64
	Float  float64
	Str    string
	Tensor *Tensor
	Obj    *Instance
}

func NoneValue() Value           { return Value{Kind: KindNone} }
func BoolValue(b bool) Value     { return Value{Kind: KindBool, Bool: b} }
func IntValue(i int64) Value     { return Value{Kind: KindInt, Int: i} }
func FloatValue(f float64) Value { return Value{Kind: KindFloat, Float: f} }
func StrValue(s string) Value    { return Value{Kind: KindStr, Str: s} }

// TensorValue wraps t.
func TensorValue(t *Tensor) Value { return Value{Kind: KindTensor, Tensor: t} }

// ScalarTensor is a one-element tensor holding f.
func ScalarTensor(f float64) Value { return TensorValue(Scalar(f)) }

// FromLiteral converts a declared default into a runtime value.
func FromLiteral(lit record.Literal) Value {
	switch lit.Kind {
	case record.LitBool:
		return BoolValue(lit.Bool)
	case record.LitInt:
		return IntValue(lit.Int)
	case record.LitFloat:
		return FloatValue(lit.Float)
	case record.LitStr:
		return StrValue(lit.Str)
	default:
		return NoneValue()
	}
}

// IsNone reports whether v is None.
func (v Value) IsNone() bool { return v.Kind == KindNone }

// TypeName is the dynamic type name, using the record name for instances.
func (v Value) TypeName() string {
	if v.Kind == KindInstance && v.Obj != nil {
		return v.Obj.Class.Name()
	}
	return v.Kind.String()
}

// String is the default value-to-text conversion. Instances are rendered by
// Interp.Str, which can dispatch to __repr__.
func (v Value) String() string {
	switch v.Kind {
	case KindNone:
		return "None"
	case KindBool:
		if v.Bool {
			return "True"
		}
		return "False"
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return record.FormatFloat(v.Float)
	case KindStr:
		return v.Str
	case KindTensor:
		return v.Tensor.String()
	case KindInstance:
		if v.Obj == nil {
			return "<nil instance>"
		}
		return "<" + v.Obj.Class.Name() + " object>"
	default:
		return "<invalid>"
	}
}

func (v Value) isNumber() bool {
	return v.Kind == KindBool || v.Kind == KindInt || v.Kind == KindFloat
}

func (v Value) asFloat() float64 {
	switch v.Kind {
	case KindBool:
		if v.Bool {
			return 1
		}
		return 0
	case KindInt:
		return float64(v.Int)
	default:
		return v.Float
	}
}

func (v Value) asInt() int64 {
	if v.Kind == KindBool {
		if v.Bool {
			return 1
		}
		return 0
	}
	return v.Int
}
