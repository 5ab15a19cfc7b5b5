package derive

import (
	"slices"

	"recforge/internal/ir"
	"recforge/internal/record"
)

// Synthesizer produces one method of a record type.
type Synthesizer func(rec *record.Record) (*Fragment, error)

// Entry binds a method name to its synthesizer.
type Entry struct {
	Method string
	Synth  Synthesizer
	// Enabled reports whether the record type asked for the method at all.
	Enabled func(rec *record.Record) bool
}

func always(*record.Record) bool { return true }
func ordered(rec *record.Record) bool { return rec.Order }

// Entries are independent: no entry reads another's output, so the order
// only fixes the order fragments are reported in.
var registry = []Entry{
	{Method: record.MethodInit, Synth: synthInit, Enabled: always},
	{Method: record.MethodRepr, Synth: synthRepr, Enabled: always},
	{Method: record.MethodHash, Synth: synthHash, Enabled: always},
	{Method: record.MethodEq, Synth: synthEquality(record.MethodEq, false), Enabled: always},
	{Method: record.MethodNe, Synth: synthEquality(record.MethodNe, true), Enabled: always},
	{Method: record.MethodLt, Synth: synthOrdering(record.MethodLt, ir.OpLt, false), Enabled: ordered},
	{Method: record.MethodLe, Synth: synthOrdering(record.MethodLe, ir.OpLt, true), Enabled: ordered},
	{Method: record.MethodGt, Synth: synthOrdering(record.MethodGt, ir.OpGt, false), Enabled: ordered},
	{Method: record.MethodGe, Synth: synthOrdering(record.MethodGe, ir.OpGt, true), Enabled: ordered},
}

// Registry returns a copy of the method table.
func Registry() []Entry {
	return slices.Clone(registry)
}

// Lookup finds the entry for method.
func Lookup(method string) (Entry, bool) {
	for _, e := range registry {
		if e.Method == method {
			return e, true
		}
	}
	return Entry{}, false
}

// Plan lists the entries Record will run for rec, in table order.
func Plan(rec *record.Record) []Entry {
	out := make([]Entry, 0, len(registry))
	for _, e := range registry {
		if e.Enabled(rec) && !rec.Defines(e.Method) {
			out = append(out, e)
		}
	}
	return out
}
