package derive

import (
	"fmt"

	"recforge/internal/record"
)

// Result is the outcome of deriving one record type.
type Result struct {
	Record    *record.Record
	Fragments []*Fragment
	// UserDefined lists table methods left to the record type's own code.
	UserDefined []string
}

// Fragment returns the synthesized fragment for method, if any.
func (r *Result) Fragment(method string) (*Fragment, bool) {
	for _, f := range r.Fragments {
		if f.Method == method {
			return f, true
		}
	}
	return nil, false
}

// Record derives every enabled method rec does not define itself. The first
// failure aborts derivation of rec and no fragments are returned.
func Record(rec *record.Record) (*Result, error) {
	if rec == nil {
		return nil, fmt.Errorf("derive: nil record")
	}
	res := &Result{Record: rec}
	for _, e := range registry {
		if !e.Enabled(rec) {
			continue
		}
		if rec.Defines(e.Method) {
			res.UserDefined = append(res.UserDefined, e.Method)
			continue
		}
		frag, err := e.Synth(rec)
		if err != nil {
			return nil, err
		}
		res.Fragments = append(res.Fragments, frag)
	}
	return res, nil
}

// Method derives a single method. It refuses methods the record type
// defines itself and ordering methods of records without order.
func Method(rec *record.Record, method string) (*Fragment, error) {
	if rec == nil {
		return nil, fmt.Errorf("derive: nil record")
	}
	e, ok := Lookup(method)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
	if !e.Enabled(rec) {
		return nil, fmt.Errorf("%s.%s: %w", rec.Name, method, ErrMethodDisabled)
	}
	if rec.Defines(method) {
		return nil, fmt.Errorf("%s.%s: %w", rec.Name, method, ErrUserDefined)
	}
	return e.Synth(rec)
}
