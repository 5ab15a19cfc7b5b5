package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"recforge/internal/diag"
)

type palette struct {
	sev    map[diag.Severity]*color.Color
	code   *color.Color
	origin *color.Color
	note   *color.Color
	gutter *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevError:   color.New(color.FgRed, color.Bold),
			diag.SevWarning: color.New(color.FgYellow, color.Bold),
			diag.SevInfo:    color.New(color.FgCyan),
		},
		code:   color.New(color.Bold),
		origin: color.New(color.FgWhite, color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		gutter: color.New(color.FgBlue),
	}
	all := []*color.Color{p.code, p.origin, p.note, p.gutter}
	for _, c := range p.sev {
		all = append(all, c)
	}
	for _, c := range all {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	if c, ok := p.sev[s]; ok {
		return c
	}
	return p.code
}

// Pretty formats diagnostics in human-readable form. It walks bag.Items()
// (bag.Sort() is expected beforehand). Each diagnostic prints as
//
//	<file>:<Record>.<method>: <sev> <CODE>: <Message>
//
// followed by its notes and, for synthesis bugs, the offending source.
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) {
	p := newPalette(opts.Color)
	nerr, nwarn := 0, 0
	for _, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			nerr++
		case diag.SevWarning:
			nwarn++
		}
		origin := d.Origin
		origin.File = formatPath(origin.File, opts.PathMode, opts.BaseDir)
		msg := d.Message
		if opts.Width > 0 {
			msg = runewidth.Truncate(msg, opts.Width, "…")
		}
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			p.origin.Sprint(origin.String()),
			p.severity(d.Severity).Sprint(d.Severity.Label()),
			p.code.Sprint(d.Code.ID()),
			msg)
		if opts.ShowNotes {
			for _, n := range d.Notes {
				fmt.Fprintf(w, "  %s %s\n", p.note.Sprint("note:"), n.Msg)
			}
		}
		if opts.ShowSource && d.Source != "" {
			for _, line := range strings.Split(strings.TrimRight(d.Source, "\n"), "\n") {
				fmt.Fprintf(w, "  %s %s\n", p.gutter.Sprint("|"), line)
			}
		}
	}
	if nerr+nwarn > 0 {
		fmt.Fprintf(w, "%s, %s\n", plural(nerr, "error"), plural(nwarn, "warning"))
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
