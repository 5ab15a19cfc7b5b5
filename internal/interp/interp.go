package interp

import (
	"fmt"

	"recforge/internal/ir"
	"recforge/internal/record"
)

// DefaultMaxDepth bounds nested method calls.
const DefaultMaxDepth = 200

// Interp executes compiled methods. It is not safe for concurrent use; give
// each goroutine its own.
type Interp struct {
	maxDepth int
	depth    int
}

// Option configures an Interp.
type Option func(*Interp)

// WithMaxDepth overrides the call depth limit.
func WithMaxDepth(n int) Option {
	return func(in *Interp) {
		if n > 0 {
			in.maxDepth = n
		}
	}
}

// New creates an interpreter.
func New(opts ...Option) *Interp {
	in := &Interp{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Construct allocates an instance of cls and runs its constructor.
func (in *Interp) Construct(cls *Class, args ...Value) (Value, error) {
	self := Value{Kind: KindInstance, Obj: cls.alloc()}
	ctor, ok := cls.Method(record.MethodInit)
	if !ok {
		if len(args) > 0 {
			return Value{}, typeError("%s() takes no arguments", cls.Name())
		}
		return self, nil
	}
	if _, err := in.call(ctor, record.MethodInit, self, args); err != nil {
		return Value{}, err
	}
	return self, nil
}

// Invoke calls method on recv.
func (in *Interp) Invoke(recv Value, method string, args ...Value) (Value, error) {
	if recv.Kind != KindInstance || recv.Obj == nil {
		return Value{}, fault("AttributeError", "'%s' object has no attribute '%s'", recv.TypeName(), method)
	}
	m, ok := recv.Obj.Class.Method(method)
	if !ok {
		if recv.Obj.Class.Record.Defines(method) {
			return Value{}, fault("RuntimeError", "%s.%s is declared but has no body", recv.TypeName(), method)
		}
		return Value{}, fault("AttributeError", "'%s' object has no attribute '%s'", recv.TypeName(), method)
	}
	return in.call(m, method, recv, args)
}

func (in *Interp) call(m Callable, name string, self Value, args []Value) (Value, error) {
	if in.depth >= in.maxDepth {
		return Value{}, fault("RecursionError", "maximum recursion depth exceeded calling %s", name)
	}
	in.depth++
	defer func() { in.depth-- }()
	v, err := m.Call(in, self, args)
	if rt, ok := err.(*RuntimeError); ok && rt.Method == "" {
		rt.Method = self.TypeName() + "." + name
	}
	return v, err
}

// Compare evaluates x op y with the downstream's operator semantics.
func (in *Interp) Compare(op ir.BinaryOp, x, y Value) (Value, error) {
	return in.compare(op, x, y)
}

// Truth converts v to a condition.
func (in *Interp) Truth(v Value) (bool, error) {
	return truth(v)
}

// Check evaluates x op y and converts the result to bool.
func (in *Interp) Check(op ir.BinaryOp, x, y Value) (bool, error) {
	v, err := in.compare(op, x, y)
	if err != nil {
		return false, err
	}
	return truth(v)
}

// Hash is hash(v).
func (in *Interp) Hash(v Value) (Value, error) {
	switch v.Kind {
	case KindInstance:
		return in.Invoke(v, record.MethodHash)
	case KindNone, KindBool, KindInt, KindStr, KindFloat:
		return IntValue(hashScalar(v)), nil
	default:
		return Value{}, typeError("unhashable type: '%s'", v.TypeName())
	}
}

// Str is the value-to-text conversion used by interpolation; instances
// render through __repr__ when the class has one.
func (in *Interp) Str(v Value) (string, error) {
	if v.Kind != KindInstance || v.Obj == nil {
		return v.String(), nil
	}
	if _, ok := v.Obj.Class.Method(record.MethodRepr); !ok {
		return v.String(), nil
	}
	r, err := in.Invoke(v, record.MethodRepr)
	if err != nil {
		return "", err
	}
	if r.Kind != KindStr {
		return "", typeError("__repr__ returned non-string (type %s)", r.TypeName())
	}
	return r.Str, nil
}

func hashScalar(v Value) int64 {
	switch v.Kind {
	case KindBool, KindInt:
		return v.asInt()
	case KindFloat:
		if f := v.Float; f == float64(int64(f)) {
			return int64(f)
		}
		return int64(v.Float * 1e6)
	case KindStr:
		var h int64 = 1469598103934665603
		for i := 0; i < len(v.Str); i++ {
			h ^= int64(v.Str[i])
			h *= 1099511628211
		}
		return h
	default:
		return 0
	}
}

// GetAttr reads attribute name of v.
func GetAttr(v Value, name string) (Value, error) {
	if v.Kind != KindInstance || v.Obj == nil {
		return Value{}, fault("AttributeError", "'%s' object has no attribute '%s'", v.TypeName(), name)
	}
	got, ok := v.Obj.Get(name)
	if !ok {
		return Value{}, fault("AttributeError", "'%s' object has no attribute '%s'", v.TypeName(), name)
	}
	return got, nil
}

// SetAttr writes attribute name of v.
func SetAttr(v Value, name string, val Value) error {
	if v.Kind != KindInstance || v.Obj == nil {
		return fmt.Errorf("cannot set attribute %q on %s", name, v.TypeName())
	}
	v.Obj.Set(name, val)
	return nil
}
