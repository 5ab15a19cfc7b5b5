package diag

import "strings"

// Origin locates a diagnostic inside the declaration set. Record types are
// declared as data, so there are no byte spans; the file, the record name and
// the method being synthesized are enough to file a report.
type Origin struct {
	File   string
	Record string
	Method string
}

func (o Origin) String() string {
	var b strings.Builder
	if o.File != "" {
		b.WriteString(o.File)
		b.WriteByte(':')
	}
	b.WriteString(o.Record)
	if o.Method != "" {
		b.WriteByte('.')
		b.WriteString(o.Method)
	}
	return b.String()
}

type Note struct {
	Msg string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Origin   Origin
	Notes    []Note
	// Source is the synthesized text attached to InternalBug reports.
	Source string
}

func New(sev Severity, code Code, origin Origin, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Origin:   origin,
		Message:  msg,
	}
}

func NewError(code Code, origin Origin, msg string) Diagnostic {
	return New(SevError, code, origin, msg)
}

func (d Diagnostic) WithNote(msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Msg: msg})
	return d
}

func (d Diagnostic) WithSource(src string) Diagnostic {
	d.Source = src
	return d
}
