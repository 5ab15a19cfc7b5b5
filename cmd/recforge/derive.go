package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"recforge/internal/diagfmt"
	"recforge/internal/observ"
	"recforge/internal/record"
)

var deriveCmd = &cobra.Command{
	Use:   "derive [flags] [declarations...]",
	Short: "Synthesize the special methods of declared record types",
	Long: `Derive every record declared in the given TOML, YAML or MessagePack files
(or in [inputs].records of recforge.toml) and print the synthesized methods.
Records that fail are reported without affecting the others.`,
	RunE: runDerive,
}

var knownMethods = []string{
	record.MethodInit, record.MethodRepr, record.MethodHash,
	record.MethodEq, record.MethodNe,
	record.MethodLt, record.MethodLe, record.MethodGt, record.MethodGe,
}

func init() {
	deriveCmd.Flags().Bool("verify", false, "compile every fragment in the reference downstream")
	deriveCmd.Flags().String("method", "", "print only this method (e.g. __eq__)")
	deriveCmd.Flags().String("format", "text", "output format (text|json)")
	deriveCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
}

func runDerive(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	format, err := readFormat(cmd, s)
	if err != nil {
		return err
	}
	method, err := cmd.Flags().GetString("method")
	if err != nil {
		return fmt.Errorf("failed to get method flag: %w", err)
	}
	if method != "" && !isKnownMethod(method) {
		return fmt.Errorf("unknown method %q", method)
	}
	verify := s.cfg.Derive.Verify
	if cmd.Flags().Changed("verify") {
		if verify, err = cmd.Flags().GetBool("verify"); err != nil {
			return fmt.Errorf("failed to get verify flag: %w", err)
		}
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}

	timer := observ.NewTimer()
	rep, err := execute(cmd, s, args, verify, timer)
	if err != nil {
		return err
	}

	end := timer.Track(observ.PhaseRender)
	var out []diagfmt.Derived
	for _, r := range rep.Records {
		if r.Err == nil {
			out = append(out, diagfmt.Derived{File: r.File, Result: r.Result})
		}
	}
	base, _ := os.Getwd()
	fopts := diagfmt.FragmentOpts{Color: s.color, PathMode: diagfmt.PathModeAuto, BaseDir: base, Method: method}
	if format == "json" {
		err = diagfmt.FormatFragmentsJSON(cmd.OutOrStdout(), out, fopts)
	} else {
		err = diagfmt.FormatFragmentsPretty(cmd.OutOrStdout(), out, fopts)
	}
	if err != nil {
		return err
	}
	if err := printDiagnostics(cmd.ErrOrStderr(), rep, s, format, withNotes); err != nil {
		return err
	}
	end("")

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

func isKnownMethod(name string) bool {
	for _, m := range knownMethods {
		if m == name {
			return true
		}
	}
	return false
}
