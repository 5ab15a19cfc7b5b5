package derive

import (
	"fmt"

	"recforge/internal/ir"
	"recforge/internal/record"
)

// Compose wraps body into the method declaration for rec. An empty body
// becomes a single pass statement; a nil sig selects the signature of the
// slot method occupies. A tree that fails validation is reported as an
// InternalBug carrying the rendered text.
func Compose(rec *record.Record, method string, body []*ir.Stmt, sig *ir.Signature) (*Fragment, error) {
	if rec == nil || rec.Name == "" || method == "" {
		name := ""
		if rec != nil {
			name = rec.Name
		}
		return nil, &SynthesisError{
			Kind:   InternalBug,
			Record: name,
			Method: method,
			Msg:    "compose called without record type or method name",
		}
	}
	if sig == nil {
		var ok bool
		sig, ok = SlotSignature(rec, method)
		if !ok {
			return nil, &SynthesisError{
				Kind:   InternalBug,
				Record: rec.Name,
				Method: method,
				Msg:    fmt.Sprintf("no slot signature for %s", method),
			}
		}
	}
	if len(body) == 0 {
		body = ir.Block(ir.Pass())
	}
	fn := &ir.Func{Name: method, Sig: sig, Body: body}
	src := ir.Render(fn)
	if err := ir.Validate(fn); err != nil {
		return nil, &SynthesisError{
			Kind:   InternalBug,
			Record: rec.Name,
			Method: method,
			Source: src,
			Err:    err,
		}
	}
	return &Fragment{
		Record:    rec.Name,
		Method:    method,
		Signature: sig.String(),
		Func:      fn,
		Source:    src,
	}, nil
}

// SlotSignature is the user-visible signature of a special method slot.
func SlotSignature(rec *record.Record, method string) (*ir.Signature, bool) {
	switch method {
	case record.MethodInit:
		return initSignature(rec), true
	case record.MethodRepr:
		return ir.NewSignature(record.Named("str")), true
	case record.MethodHash:
		return ir.NewSignature(record.Named("int")), true
	case record.MethodEq, record.MethodNe,
		record.MethodLt, record.MethodLe, record.MethodGt, record.MethodGe:
		return comparisonSignature(rec), true
	default:
		return nil, false
	}
}

func comparisonSignature(rec *record.Record) *ir.Signature {
	return ir.NewSignature(record.Named("bool"), ir.Param{Name: ir.OtherName, Type: record.Named(rec.Name)})
}
