package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"mexpand/internal/diag"
	"mexpand/internal/diagfmt"
	"mexpand/internal/source"
)

// printDiagnostics пишет диагностики в stderr в формате --diag-format.
func printDiagnostics(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet, context int) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	mode, err := cmd.Root().PersistentFlags().GetString("diag-format")
	if err != nil {
		return fmt.Errorf("failed to get diag-format flag: %w", err)
	}
	w := cmd.ErrOrStderr()
	switch mode {
	case "", "pretty":
		opts := diagfmt.PrettyOpts{Color: useColor(cmd, os.Stderr), Context: context, ShowNotes: true}
		return diagfmt.Pretty(w, bag, fs, opts)
	case "short":
		return writeShortDiagnostics(w, bag, fs)
	default:
		return fmt.Errorf("unknown diag-format %q (expected: pretty|short)", mode)
	}
}

func writeShortDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet) error {
	out := diag.FormatShortDiagnostics(bag.Items(), fs, true)
	if out == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, out)
	return err
}
