package main

import (
	"encoding/json"
	"fmt"
	"io"

	"recforge/internal/observ"
)

// printTimings writes the phase table, or the phase report as JSON when the
// command output is JSON too.
func printTimings(out io.Writer, timer *observ.Timer, format string) error {
	if out == nil || timer == nil {
		return nil
	}
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(timer.Report())
	}
	_, err := fmt.Fprint(out, timer.Summary())
	return err
}
