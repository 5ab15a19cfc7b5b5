// Package derive synthesizes the standard methods of record types.
//
// Each synthesizer is a pure function from a *record.Record to a Fragment:
// an ir.Func paired with its signature and rendered source. Compose wraps a
// body into a method and rejects malformed trees with an InternalBug error.
// The registry maps method names to synthesizers; Record runs every enabled
// entry the record type has not defined itself.
//
// Failures are reported as *SynthesisError. UnsupportedFeature and
// InternalBug abort derivation of one record type. IncomparableNone and
// HashUnsupported are never returned here: they tag faults raised by the
// synthesized bodies when the downstream executes them.
package derive
