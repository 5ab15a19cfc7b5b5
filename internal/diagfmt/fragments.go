package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"recforge/internal/derive"
	"recforge/internal/record"
)

// Derived is one record's derivation output together with the file it was
// declared in.
type Derived struct {
	File   string
	Result *derive.Result
}

// FragmentJSON is one synthesized method in JSON form.
type FragmentJSON struct {
	Method    string `json:"method"`
	Signature string `json:"signature"`
	Source    string `json:"source"`
}

// RecordJSON is one record's fragments in JSON form.
type RecordJSON struct {
	File        string         `json:"file,omitempty"`
	Record      string         `json:"record"`
	UserDefined []string       `json:"user_defined,omitempty"`
	Fragments   []FragmentJSON `json:"fragments"`
}

// FragmentsOutput is the root of the JSON fragment output.
type FragmentsOutput struct {
	Records []RecordJSON `json:"records"`
	Count   int          `json:"count"`
}

func selected(res *derive.Result, method string) []*derive.Fragment {
	if method == "" {
		return res.Fragments
	}
	if f, ok := res.Fragment(method); ok {
		return []*derive.Fragment{f}
	}
	return nil
}

// FormatFragmentsPretty prints fragments as source text, one header comment
// per record.
func FormatFragmentsPretty(w io.Writer, out []Derived, opts FragmentOpts) error {
	header := color.New(color.FgHiBlack)
	if opts.Color {
		header.EnableColor()
	} else {
		header.DisableColor()
	}
	first := true
	for _, d := range out {
		frags := selected(d.Result, opts.Method)
		if len(frags) == 0 {
			continue
		}
		if !first {
			fmt.Fprintln(w)
		}
		first = false
		title := d.Result.Record.Name
		if file := formatPath(d.File, opts.PathMode, opts.BaseDir); file != "" {
			title = file + ": " + title
		}
		fmt.Fprintln(w, header.Sprint("# "+title))
		if len(d.Result.UserDefined) > 0 && opts.Method == "" {
			fmt.Fprintln(w, header.Sprint("# user-defined: "+strings.Join(d.Result.UserDefined, ", ")))
		}
		for i, f := range frags {
			if i > 0 {
				fmt.Fprintln(w)
			}
			if _, err := io.WriteString(w, f.Source); err != nil {
				return err
			}
		}
	}
	return nil
}

// BuildFragmentsOutput builds the JSON structure without serializing it.
func BuildFragmentsOutput(out []Derived, opts FragmentOpts) FragmentsOutput {
	records := make([]RecordJSON, 0, len(out))
	for _, d := range out {
		rj := RecordJSON{
			File:        formatPath(d.File, opts.PathMode, opts.BaseDir),
			Record:      d.Result.Record.Name,
			UserDefined: d.Result.UserDefined,
			Fragments:   []FragmentJSON{},
		}
		for _, f := range selected(d.Result, opts.Method) {
			rj.Fragments = append(rj.Fragments, FragmentJSON{Method: f.Method, Signature: f.Signature, Source: f.Source})
		}
		records = append(records, rj)
	}
	return FragmentsOutput{Records: records, Count: len(records)}
}

// FormatFragmentsJSON writes fragments as indented JSON.
func FormatFragmentsJSON(w io.Writer, out []Derived, opts FragmentOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildFragmentsOutput(out, opts))
}

// FormatTablePretty prints record descriptors as a tree, one line per field
// with the annotations aligned.
func FormatTablePretty(w io.Writer, records []*record.Record) {
	for ri, rec := range records {
		if ri > 0 {
			fmt.Fprintln(w)
		}
		var flags []string
		if rec.Order {
			flags = append(flags, "order")
		}
		if rec.Methods.Len() > 0 {
			flags = append(flags, "defines "+strings.Join(rec.Methods.Names(), " "))
		}
		if len(flags) > 0 {
			fmt.Fprintf(w, "%s (%s)\n", rec.Name, strings.Join(flags, "; "))
		} else {
			fmt.Fprintln(w, rec.Name)
		}
		width := 0
		for _, f := range rec.Fields {
			width = max(width, runewidth.StringWidth(f.Name))
		}
		for i, f := range rec.Fields {
			branch := "├─ "
			if i == len(rec.Fields)-1 {
				branch = "└─ "
			}
			line := runewidth.FillRight(f.Name, width) + ": " + f.Annotation()
			switch {
			case f.Default != nil:
				line += " = " + f.Default.String()
			case f.HasDefaultFactory():
				line += " = field(default_factory=" + f.DefaultFactory + ")"
			}
			if tags := fieldTags(f); tags != "" {
				line += "  [" + tags + "]"
			}
			fmt.Fprintln(w, branch+line)
		}
	}
}

func fieldTags(f record.Field) string {
	var tags []string
	if !f.Init {
		tags = append(tags, "init=False")
	}
	if !f.Compare {
		tags = append(tags, "compare=False")
	}
	if !f.Repr {
		tags = append(tags, "repr=False")
	}
	return strings.Join(tags, ", ")
}
