package derive

import (
	"fmt"
	"strings"

	"recforge/internal/ir"
	"recforge/internal/record"
)

func initSignature(rec *record.Record) *ir.Signature {
	fields := rec.InitFields()
	params := make([]ir.Param, 0, len(fields))
	for _, f := range fields {
		params = append(params, ir.Param{Name: f.Name, Type: f.ParamType(), Default: f.Default})
	}
	return ir.NewSignature(record.Named("None"), params...)
}

// synthInit emits the constructor: state assignments for init fields in
// declaration order, then the post-construction hook with the
// constructor-only parameters.
func synthInit(rec *record.Record) (*Fragment, error) {
	if factories := rec.DefaultFactoryFields(); len(factories) > 0 {
		names := make([]string, 0, len(factories))
		for _, f := range factories {
			names = append(names, f.Name)
		}
		return nil, &SynthesisError{
			Kind:   UnsupportedFeature,
			Record: rec.Name,
			Method: record.MethodInit,
			Msg:    fmt.Sprintf("default factory initializers are not supported (fields: %s)", strings.Join(names, ", ")),
		}
	}

	var body []*ir.Stmt
	var hookArgs []*ir.Expr
	for _, f := range rec.InitFields() {
		if f.ConstructorOnly {
			hookArgs = append(hookArgs, ir.Name(f.Name))
			continue
		}
		body = append(body, ir.Assign(ir.SelfAttr(f.Name), ir.Name(f.Name)))
	}
	if rec.HasPostInit() {
		body = append(body, ir.ExprStmt(ir.Call(ir.Name(ir.SelfName), record.MethodPostInit, hookArgs...)))
	}
	return Compose(rec, record.MethodInit, body, initSignature(rec))
}
