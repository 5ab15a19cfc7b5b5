package interp

import (
	"fmt"

	"recforge/internal/derive"
	"recforge/internal/diag"
)

// RuntimeError is a fault raised while executing a method. Faults raised by
// synthesized bodies carry the code of their raise statement; everything
// else is RunFault.
type RuntimeError struct {
	Code  diag.Code
	Class string
	Msg   string
	// Method is the innermost method executing when the fault was raised.
	Method string
}

func (e *RuntimeError) Error() string {
	where := ""
	if e.Method != "" {
		where = " in " + e.Method
	}
	return fmt.Sprintf("%s: %s%s", e.Class, e.Msg, where)
}

// Is lets callers match synthesized-method faults with the derive sentinels.
func (e *RuntimeError) Is(target error) bool {
	switch target {
	case derive.ErrIncomparableNone:
		return e.Code == diag.RunIncomparableNone
	case derive.ErrHashUnsupported:
		return e.Code == diag.RunHashUnsupported
	}
	return false
}

func fault(class, format string, args ...any) *RuntimeError {
	return &RuntimeError{Code: diag.RunFault, Class: class, Msg: fmt.Sprintf(format, args...)}
}

func typeError(format string, args ...any) *RuntimeError {
	return fault("TypeError", format, args...)
}
