package diag

import "strings"

// Severity ranks diagnostics; errors fail a run, warnings and notes do not.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

var severityNames = [...]string{
	SevInfo:    "INFO",
	SevWarning: "WARNING",
	SevError:   "ERROR",
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}

// Label is the lowercase form printed in front of pretty diagnostics.
func (s Severity) Label() string {
	return strings.ToLower(s.String())
}

// Fails reports whether a diagnostic of this severity fails the run.
func (s Severity) Fails() bool { return s >= SevError }
