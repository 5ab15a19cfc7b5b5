package derive

import (
	"fmt"

	"recforge/internal/diag"
	"recforge/internal/ir"
	"recforge/internal/record"
)

// Locals the optional refinement binds field values to. Assigning to
// locals first lets the downstream refine Optional[T] to T inside the
// presence check.
const (
	leftLocal  = "val1"
	rightLocal = "val2"
)

func bindOperands(name string) []*ir.Stmt {
	return ir.Block(
		ir.Assign(ir.Name(leftLocal), ir.SelfAttr(name)),
		ir.Assign(ir.Name(rightLocal), ir.OtherAttr(name)),
	)
}

func bothPresent() *ir.Expr {
	return ir.And(ir.IsNotNone(ir.Name(leftLocal)), ir.IsNotNone(ir.Name(rightLocal)))
}

func presenceDiffers() *ir.Expr {
	return ir.Binary(ir.OpNe, ir.IsNone(ir.Name(leftLocal)), ir.IsNone(ir.Name(rightLocal)))
}

// synthEquality builds __eq__ (unequal=false) or __ne__ (unequal=true).
// Both test every compared field with != and bail out with the "unequal"
// result on the first mismatch; __ne__ is not derived from __eq__.
func synthEquality(method string, unequal bool) Synthesizer {
	return func(rec *record.Record) (*Fragment, error) {
		bail := func() []*ir.Stmt { return ir.Block(ir.Return(ir.Bool(unequal))) }
		var body []*ir.Stmt
		for _, f := range rec.CompareFields() {
			if !f.IsOptional() {
				body = append(body, ir.If(ir.Binary(ir.OpNe, ir.SelfAttr(f.Name), ir.OtherAttr(f.Name)), bail(), nil))
				continue
			}
			body = append(body, bindOperands(f.Name)...)
			body = append(body, ir.If(bothPresent(),
				ir.Block(ir.If(ir.Binary(ir.OpNe, ir.Name(leftLocal), ir.Name(rightLocal)), bail(), nil)),
				ir.Block(ir.If(presenceDiffers(), bail(), nil)),
			))
		}
		body = append(body, ir.Return(ir.Bool(!unequal)))
		return Compose(rec, method, body, comparisonSignature(rec))
	}
}

// synthOrdering builds a lexicographic comparison with the strict operator
// op. The first field where op holds in either direction decides; when all
// compared fields are equal the result is allowEq.
func synthOrdering(method string, op ir.BinaryOp, allowEq bool) Synthesizer {
	return func(rec *record.Record) (*Fragment, error) {
		// Operand nodes are shared between the forward and reverse tests;
		// trees are immutable once built.
		decide := func(x, y *ir.Expr) *ir.Stmt {
			return ir.If(ir.Binary(op, x, y),
				ir.Block(ir.Return(ir.True())),
				ir.Block(ir.If(ir.Binary(op, y, x), ir.Block(ir.Return(ir.False())), nil)),
			)
		}
		var body []*ir.Stmt
		for _, f := range rec.CompareFields() {
			if !f.IsOptional() {
				body = append(body, decide(ir.SelfAttr(f.Name), ir.OtherAttr(f.Name)))
				continue
			}
			body = append(body, bindOperands(f.Name)...)
			raise := ir.Raise("TypeError", fmt.Sprintf("Cannot compare %s with None", rec.Name), diag.RunIncomparableNone)
			body = append(body, ir.If(bothPresent(),
				ir.Block(decide(ir.Name(leftLocal), ir.Name(rightLocal))),
				ir.Block(ir.If(presenceDiffers(), ir.Block(raise), nil)),
			))
		}
		body = append(body, ir.Return(ir.Bool(allowEq)))
		return Compose(rec, method, body, comparisonSignature(rec))
	}
}
