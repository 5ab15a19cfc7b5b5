package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"recforge/internal/observ"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [declarations...]",
	Short: "Derive and verify record methods, reporting only diagnostics",
	Long: `Check derives every declared record, compiles the fragments in the
reference downstream and prints diagnostics. It exits with status 1 when any
record fails.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "text", "output format (text|json)")
	checkCmd.Flags().Bool("with-notes", true, "include diagnostic notes in output")
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	format, err := readFormat(cmd, s)
	if err != nil {
		return err
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}

	timer := observ.NewTimer()
	rep, err := execute(cmd, s, args, true, timer)
	if err != nil {
		return err
	}
	end := timer.Track(observ.PhaseRender)
	if err := printDiagnostics(cmd.OutOrStdout(), rep, s, format, withNotes); err != nil {
		return err
	}
	end("")

	if !s.quiet && !rep.Failed() && format == "text" {
		fmt.Fprintf(cmd.OutOrStdout(), "%d records ok\n", len(rep.Records))
	}
	if s.timings {
		if err := printTimings(cmd.ErrOrStderr(), timer, format); err != nil {
			return err
		}
	}
	if rep.Failed() {
		return exitStatus{code: 1}
	}
	return nil
}
