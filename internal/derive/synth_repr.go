package derive

import (
	"recforge/internal/ir"
	"recforge/internal/record"
)

// synthRepr emits TypeName(f1={self.f1}, ...) over repr fields. The
// downstream never calls it; it exists so the slot is filled.
func synthRepr(rec *record.Record) (*Fragment, error) {
	var parts []ir.FormatPart
	text := func(s string) {
		if n := len(parts); n > 0 && parts[n-1].Value == nil {
			parts[n-1].Text += s
			return
		}
		parts = append(parts, ir.Text(s))
	}
	text(rec.Name + "(")
	for i, f := range rec.ReprFields() {
		if i > 0 {
			text(", ")
		}
		text(f.Name + "=")
		parts = append(parts, ir.Value(ir.SelfAttr(f.Name)))
	}
	text(")")
	body := ir.Block(ir.Return(ir.Format(parts...)))
	return Compose(rec, record.MethodRepr, body, nil)
}
