package derive

import (
	"errors"
	"fmt"

	"recforge/internal/diag"
)

// ErrorKind classifies synthesis failures.
type ErrorKind uint8

const (
	// UnsupportedFeature: the record type asks for something the
	// downstream cannot express, such as a default factory.
	UnsupportedFeature ErrorKind = iota + 1
	// InternalBug: a synthesizer produced a malformed body.
	InternalBug
	// IncomparableNone: ordering met an optional field present on only
	// one operand. Raised at evaluation time.
	IncomparableNone
	// HashUnsupported: the synthesized hash was invoked.
	HashUnsupported
)

func (k ErrorKind) String() string {
	switch k {
	case UnsupportedFeature:
		return "UnsupportedFeature"
	case InternalBug:
		return "InternalBug"
	case IncomparableNone:
		return "IncomparableNone"
	case HashUnsupported:
		return "HashUnsupported"
	default:
		return "Unknown"
	}
}

// Code maps the kind to its diagnostic code.
func (k ErrorKind) Code() diag.Code {
	switch k {
	case UnsupportedFeature:
		return diag.DrvUnsupportedFeature
	case InternalBug:
		return diag.DrvInternalBug
	case IncomparableNone:
		return diag.RunIncomparableNone
	case HashUnsupported:
		return diag.RunHashUnsupported
	default:
		return diag.UnknownCode
	}
}

// Sentinels for errors.Is.
var (
	ErrUnsupportedFeature = errors.New("unsupported feature")
	ErrInternalBug        = errors.New("internal synthesis bug")
	ErrIncomparableNone   = errors.New("incomparable None")
	ErrHashUnsupported    = errors.New("hashing unsupported")
	ErrUserDefined        = errors.New("method is user-defined")
	ErrUnknownMethod      = errors.New("no synthesizer for method")
	ErrMethodDisabled     = errors.New("method not enabled for record")
)

// SynthesisError is a tagged derivation failure.
type SynthesisError struct {
	Kind   ErrorKind
	Record string
	Method string
	Msg    string
	// Source is the offending text for InternalBug.
	Source string
	Err    error
}

func (e *SynthesisError) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Kind == InternalBug {
		return fmt.Sprintf("failed to synthesize method '%s' for record type '%s': %s; please file a bug report", e.Method, e.Record, msg)
	}
	return fmt.Sprintf("%s.%s: %s", e.Record, e.Method, msg)
}

func (e *SynthesisError) Unwrap() error { return e.Err }

// Is matches the kind sentinels.
func (e *SynthesisError) Is(target error) bool {
	switch target {
	case ErrUnsupportedFeature:
		return e.Kind == UnsupportedFeature
	case ErrInternalBug:
		return e.Kind == InternalBug
	case ErrIncomparableNone:
		return e.Kind == IncomparableNone
	case ErrHashUnsupported:
		return e.Kind == HashUnsupported
	}
	return false
}

// Diagnostic converts the failure for reporting.
func (e *SynthesisError) Diagnostic(file string) diag.Diagnostic {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	d := diag.NewError(e.Kind.Code(), diag.Origin{File: file, Record: e.Record, Method: e.Method}, msg)
	switch e.Kind {
	case InternalBug:
		d = d.WithNote("this is a defect in the derivation engine, not in the record declaration").WithSource(e.Source)
	case UnsupportedFeature:
		d = d.WithNote(fmt.Sprintf("define %s on %s manually", e.Method, e.Record))
	}
	return d
}
