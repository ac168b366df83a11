package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mexpand/internal/diagfmt"
	"mexpand/internal/driver"
	"mexpand/internal/project"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.rs",
	Short: "List the macro calls and macro_rules! definitions of a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	parseCmd.Flags().String("syntax", string(project.SyntaxNative), "parser backend (native|tree-sitter)")
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	syntaxFlag, err := cmd.Flags().GetString("syntax")
	if err != nil {
		return fmt.Errorf("failed to get syntax flag: %w", err)
	}
	syntax, err := project.ParseSyntax(syntaxFlag)
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	result, err := driver.Parse(args[0], syntax, maxDiagnostics)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	if err := printDiagnostics(cmd, result.Bag, result.FileSet, 2); err != nil {
		return err
	}

	if format == "json" {
		err = diagfmt.FormatCallsJSON(cmd.OutOrStdout(), result.Tree, result.FileSet, diagfmt.PathModeAuto)
	} else {
		err = diagfmt.FormatCallsPretty(cmd.OutOrStdout(), result.Tree, result.FileSet, diagfmt.PathModeAuto)
	}
	if err != nil {
		return err
	}
	if result.Bag.HasErrors() {
		return errFailed
	}
	return nil
}
