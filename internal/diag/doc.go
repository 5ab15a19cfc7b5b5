// Package diag defines the diagnostic model shared by the loader, the
// derivation engine and the reference downstream.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning, Error (severity.go).
//   - Code – compact numeric identifier with a stable string form (codes.go).
//     DRV codes are derivation-time failures, RUN codes are faults raised by
//     synthesized methods when executed, IO codes come from the loader.
//   - Origin – declaration file, record type and method name.
//   - Notes – optional extra context lines.
//   - Source – synthesized text, attached to internal synthesis bugs so a
//     report can be filed without re-running derivation.
//
// Package diag does no formatting or IO; rendering lives in internal/diagfmt.
// Producers emit through a Reporter. BagReporter aggregates into a Bag and
// DedupReporter drops repeats on the way in.
package diag
