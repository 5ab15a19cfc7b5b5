package interp

import (
	"errors"
	"fmt"

	"recforge/internal/derive"
	"recforge/internal/ir"
)

// Compile checks a fragment against the class it will be installed on and
// returns an executable method. A fragment the class cannot run is a
// synthesis defect and is reported as derive.InternalBug.
func Compile(frag *derive.Fragment, cls *Class) (*Method, error) {
	if frag == nil {
		return nil, &derive.SynthesisError{Kind: derive.InternalBug, Record: cls.Name(), Msg: "nil fragment"}
	}
	bug := func(err error) error {
		return &derive.SynthesisError{
			Kind:   derive.InternalBug,
			Record: frag.Record,
			Method: frag.Method,
			Source: frag.Source,
			Err:    err,
		}
	}
	if frag.Func == nil {
		return nil, bug(errors.New("fragment has no body"))
	}
	if frag.Record != cls.Name() {
		return nil, bug(fmt.Errorf("fragment for %s installed on %s", frag.Record, cls.Name()))
	}
	if frag.Func.Name != frag.Method {
		return nil, bug(fmt.Errorf("fragment defines %s, expected %s", frag.Func.Name, frag.Method))
	}
	if err := ir.Validate(frag.Func); err != nil {
		return nil, bug(err)
	}
	if err := resolve(frag.Func, cls); err != nil {
		return nil, bug(err)
	}
	return &Method{Record: frag.Record, Func: frag.Func}, nil
}

// resolve checks attribute reads on the receiver and the other operand
// against the record's fields and calls on the receiver against its methods.
func resolve(fn *ir.Func, cls *Class) error {
	var err error
	ir.WalkExprs(fn.Body, func(e *ir.Expr) {
		if err != nil {
			return
		}
		switch data := e.Data.(type) {
		case ir.AttrData:
			if !isName(data.X, ir.SelfName, ir.OtherName) {
				return
			}
			f, ok := cls.Record.Field(data.Name)
			if !ok || !f.IsState() {
				err = fmt.Errorf("%s has no attribute %q", cls.Name(), data.Name)
			}
		case ir.CallData:
			if isName(data.Recv, ir.SelfName) && !cls.Resolves(data.Method) {
				err = fmt.Errorf("%s has no method %q", cls.Name(), data.Method)
			}
		}
	})
	return err
}

func isName(e *ir.Expr, names ...string) bool {
	data, ok := e.Data.(ir.NameData)
	if !ok {
		return false
	}
	for _, n := range names {
		if data.Name == n {
			return true
		}
	}
	return false
}

// Install compiles every fragment and defines it on cls. Nothing is
// installed if any fragment fails to compile.
func Install(cls *Class, frags []*derive.Fragment) error {
	methods := make([]*Method, 0, len(frags))
	for _, frag := range frags {
		m, err := Compile(frag, cls)
		if err != nil {
			return err
		}
		methods = append(methods, m)
	}
	for _, m := range methods {
		cls.Define(m.Func.Name, m)
	}
	return nil
}
