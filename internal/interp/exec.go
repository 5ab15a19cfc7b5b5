package interp

import (
	"recforge/internal/ir"
)

// Method is a compiled synthesized method.
type Method struct {
	Record string
	Func   *ir.Func
}

type frame struct {
	locals map[string]Value
}

type returned struct {
	value Value
}

func (m *Method) Call(in *Interp, self Value, args []Value) (Value, error) {
	sig := m.Func.Sig
	if len(args) > sig.Arity() || len(args) < sig.Required() {
		return Value{}, typeError("%s() takes %d positional arguments but %d were given", m.Func.Name, sig.Arity()+1, len(args)+1)
	}
	fr := &frame{locals: make(map[string]Value, len(sig.Params))}
	fr.locals[sig.Params[0].Name] = self
	for i, p := range sig.Params[1:] {
		switch {
		case i < len(args):
			fr.locals[p.Name] = args[i]
		case p.Default != nil:
			fr.locals[p.Name] = FromLiteral(*p.Default)
		}
	}
	ret, err := in.execBlock(fr, m.Func.Body)
	if err != nil {
		return Value{}, err
	}
	if ret != nil {
		return ret.value, nil
	}
	return NoneValue(), nil
}

func (in *Interp) execBlock(fr *frame, stmts []*ir.Stmt) (*returned, error) {
	for _, st := range stmts {
		ret, err := in.exec(fr, st)
		if err != nil || ret != nil {
			return ret, err
		}
	}
	return nil, nil
}

func (in *Interp) exec(fr *frame, st *ir.Stmt) (*returned, error) {
	switch data := st.Data.(type) {
	case ir.PassData:
		return nil, nil
	case ir.AssignData:
		v, err := in.eval(fr, data.Value)
		if err != nil {
			return nil, err
		}
		return nil, in.assign(fr, data.Target, v)
	case ir.IfData:
		c, err := in.eval(fr, data.Cond)
		if err != nil {
			return nil, err
		}
		ok, err := truth(c)
		if err != nil {
			return nil, err
		}
		if ok {
			return in.execBlock(fr, data.Then)
		}
		return in.execBlock(fr, data.Else)
	case ir.ReturnData:
		if data.Value == nil {
			return &returned{value: NoneValue()}, nil
		}
		v, err := in.eval(fr, data.Value)
		if err != nil {
			return nil, err
		}
		return &returned{value: v}, nil
	case ir.RaiseData:
		err := fault(data.Class, "%s", data.Msg)
		if data.Code != 0 {
			err.Code = data.Code
		}
		return nil, err
	case ir.ExprStmtData:
		_, err := in.eval(fr, data.Expr)
		return nil, err
	default:
		return nil, fault("SystemError", "unknown statement %s", st.Kind)
	}
}

func (in *Interp) assign(fr *frame, target *ir.Expr, v Value) error {
	switch data := target.Data.(type) {
	case ir.NameData:
		fr.locals[data.Name] = v
		return nil
	case ir.AttrData:
		recv, err := in.eval(fr, data.X)
		if err != nil {
			return err
		}
		if recv.Kind != KindInstance || recv.Obj == nil {
			return fault("AttributeError", "'%s' object has no attribute '%s'", recv.TypeName(), data.Name)
		}
		recv.Obj.Set(data.Name, v)
		return nil
	default:
		return fault("SystemError", "cannot assign to %s", target.Kind)
	}
}

func (in *Interp) eval(fr *frame, e *ir.Expr) (Value, error) {
	switch data := e.Data.(type) {
	case ir.ConstData:
		return FromLiteral(data.Value), nil
	case ir.NameData:
		v, ok := fr.locals[data.Name]
		if !ok {
			return Value{}, fault("NameError", "name '%s' is not defined", data.Name)
		}
		return v, nil
	case ir.AttrData:
		recv, err := in.eval(fr, data.X)
		if err != nil {
			return Value{}, err
		}
		return GetAttr(recv, data.Name)
	case ir.BinaryData:
		return in.evalBinary(fr, data)
	case ir.IsNoneData:
		v, err := in.eval(fr, data.X)
		if err != nil {
			return Value{}, err
		}
		return BoolValue(v.IsNone() != data.Negate), nil
	case ir.CallData:
		recv, err := in.eval(fr, data.Recv)
		if err != nil {
			return Value{}, err
		}
		args := make([]Value, 0, len(data.Args))
		for _, a := range data.Args {
			v, err := in.eval(fr, a)
			if err != nil {
				return Value{}, err
			}
			args = append(args, v)
		}
		return in.Invoke(recv, data.Method, args...)
	case ir.FormatData:
		var b []byte
		for _, part := range data.Parts {
			if part.Value == nil {
				b = append(b, part.Text...)
				continue
			}
			v, err := in.eval(fr, part.Value)
			if err != nil {
				return Value{}, err
			}
			s, err := in.Str(v)
			if err != nil {
				return Value{}, err
			}
			b = append(b, s...)
		}
		return StrValue(string(b)), nil
	default:
		return Value{}, fault("SystemError", "unknown expression %s", e.Kind)
	}
}

func (in *Interp) evalBinary(fr *frame, data ir.BinaryData) (Value, error) {
	x, err := in.eval(fr, data.X)
	if err != nil {
		return Value{}, err
	}
	switch data.Op {
	case ir.OpAnd, ir.OpOr:
		ok, err := truth(x)
		if err != nil {
			return Value{}, err
		}
		if ok == (data.Op == ir.OpOr) {
			return x, nil
		}
		return in.eval(fr, data.Y)
	}
	y, err := in.eval(fr, data.Y)
	if err != nil {
		return Value{}, err
	}
	return in.compare(data.Op, x, y)
}
