package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"recforge/internal/diagfmt"
	"recforge/internal/driver"
	"recforge/internal/observ"
)

// execute runs the driver over the command's inputs, with the progress view
// when requested.
func execute(cmd *cobra.Command, s *settings, args []string, verify bool, timer *observ.Timer) (*driver.Report, error) {
	files, err := s.inputs(args)
	if err != nil {
		return nil, err
	}
	opts := driver.Options{
		Jobs:           s.cfg.Derive.Jobs,
		Verify:         verify,
		MaxDiagnostics: s.maxDiagnostics,
		Logger:         s.log,
		Timer:          timer,
	}
	if len(files) > 0 && !s.quiet && shouldUseTUI(s.ui) {
		return runWithUI(cmd.Context(), "deriving record methods", files, opts)
	}
	return driver.Run(cmd.Context(), files, opts)
}

func printDiagnostics(w io.Writer, rep *driver.Report, s *settings, format string, withNotes bool) error {
	if rep.Bag.Len() == 0 {
		return nil
	}
	base, _ := os.Getwd()
	if format == "json" {
		return diagfmt.JSON(w, rep.Bag, diagfmt.JSONOpts{
			PathMode:      diagfmt.PathModeAuto,
			BaseDir:       base,
			IncludeNotes:  withNotes,
			IncludeSource: true,
		})
	}
	diagfmt.Pretty(w, rep.Bag, diagfmt.PrettyOpts{
		Color:      s.color,
		PathMode:   diagfmt.PathModeAuto,
		BaseDir:    base,
		ShowNotes:  withNotes,
		ShowSource: true,
	})
	return nil
}

func readFormat(cmd *cobra.Command, s *settings) (string, error) {
	format := s.cfg.Output.Format
	if cmd.Flags().Changed("format") {
		var err error
		if format, err = cmd.Flags().GetString("format"); err != nil {
			return "", fmt.Errorf("failed to get format flag: %w", err)
		}
	}
	switch format {
	case "text", "json":
		return format, nil
	default:
		return "", fmt.Errorf("unsupported format %q (must be text or json)", format)
	}
}
