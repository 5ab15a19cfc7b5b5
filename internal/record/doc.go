// Package record holds the descriptor table a record type is derived from.
//
// A Record is built once, when the record type is declared, through Builder.
// After Build returns, the table is read-only: synthesizers in
// internal/derive consume it as plain data and never inspect the host type.
// Field order is the declaration order and is the canonical order for
// constructor parameters, representation and lexicographic comparison.
package record
