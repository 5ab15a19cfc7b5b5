package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"recforge/internal/diagfmt"
	"recforge/internal/driver"
	"recforge/internal/record"
	"recforge/internal/schema"
)

var schemaCmd = &cobra.Command{
	Use:   "schema [flags] [declarations...]",
	Short: "Print the normalized record descriptor table",
	Long: `Schema loads record declarations, validates them and prints the
normalized descriptor table. --emit-msgpack re-encodes the valid records for
collectors that consume the binary format.`,
	RunE: runSchema,
}

func init() {
	schemaCmd.Flags().String("format", "tree", "output format (tree|toml|yaml)")
	schemaCmd.Flags().String("emit-msgpack", "", "write the table as MessagePack to this file")
}

func runSchema(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	emit, err := cmd.Flags().GetString("emit-msgpack")
	if err != nil {
		return fmt.Errorf("failed to get emit-msgpack flag: %w", err)
	}
	files, err := s.inputs(args)
	if err != nil {
		return err
	}
	rep, err := driver.Load(cmd.Context(), files, driver.Options{
		Jobs:           s.cfg.Derive.Jobs,
		MaxDiagnostics: s.maxDiagnostics,
		Logger:         s.log,
	})
	if err != nil {
		return err
	}
	if err := printDiagnostics(cmd.ErrOrStderr(), rep, s, "text", true); err != nil {
		return err
	}
	var records []*record.Record
	for _, src := range rep.Sources {
		records = append(records, src.Records...)
	}

	doc := schema.Table(records)
	out := cmd.OutOrStdout()
	switch format {
	case "tree":
		sorted := make([]*record.Record, 0, len(doc.Records))
		for _, d := range doc.Records {
			rec, err := d.Record()
			if err != nil {
				return err
			}
			sorted = append(sorted, rec)
		}
		diagfmt.FormatTablePretty(out, sorted)
	case "toml":
		err = schema.EncodeTOML(out, doc)
	case "yaml":
		err = schema.EncodeYAML(out, doc)
	default:
		return fmt.Errorf("unsupported format %q (must be tree, toml or yaml)", format)
	}
	if err != nil {
		return err
	}

	if emit != "" {
		f, err := os.Create(emit)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", emit, err)
		}
		if err := schema.EncodeMsgpack(f, doc); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		if !s.quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d records to %s\n", len(doc.Records), emit)
		}
	}
	if rep.Failed() {
		return exitStatus{code: 1}
	}
	return nil
}
