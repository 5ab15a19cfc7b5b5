package derive

import (
	"fmt"

	"recforge/internal/diag"
	"recforge/internal/ir"
	"recforge/internal/record"
)

// synthHash emits a body that always raises. The downstream does not
// dispatch custom hash implementations, so a value-based hash would be
// silently bypassed.
func synthHash(rec *record.Record) (*Fragment, error) {
	msg := fmt.Sprintf("__hash__ is not supported for record type %s", rec.Name)
	body := ir.Block(ir.Raise("NotImplementedError", msg, diag.RunHashUnsupported))
	return Compose(rec, record.MethodHash, body, nil)
}
