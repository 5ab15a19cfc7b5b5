// Package ir is the statement tree synthesized method bodies are built from.
//
// Nodes follow the Kind + Data layout: the Kind selects which payload type
// Data holds. Synthesizers build trees directly through the helpers in
// build.go, so there is no generate-text-then-reparse round trip; Validate
// checks a tree is well formed and Printer renders it as source text for
// fragments and diagnostics.
package ir
