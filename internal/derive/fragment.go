package derive

import "recforge/internal/ir"

// Fragment is one synthesized method. It is handed to the downstream once
// and not retained afterwards.
type Fragment struct {
	Record    string
	Method    string
	Signature string
	Func      *ir.Func
	Source    string
}
