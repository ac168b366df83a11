package main

import (
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"mexpand/internal/source"
)

var posCmd = &cobra.Command{
	Use:   "pos file.rs OFFSET",
	Short: "Print the line and column of a byte offset",
	Long: `Pos prints line:col for a byte offset the way line! and column! count them:
lines from 1, columns in characters from 1.

The file is loaded the way expand loads it: a UTF-8 BOM is dropped and CRLF
line endings become LF. OFFSET counts bytes of that normalized text, the same
offsets expand reports, not bytes of the raw file.`,
	Args: cobra.ExactArgs(2),
	RunE: runPos,
}

func runPos(cmd *cobra.Command, args []string) error {
	off, err := cast.ToUint32E(args[1])
	if err != nil {
		return fmt.Errorf("invalid offset %q: %w", args[1], err)
	}
	fs := source.NewFileSet()
	id, err := fs.Load(args[0])
	if err != nil {
		return err
	}
	text := fs.Get(id).Text()
	if err := checkOffset(text, off); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d:%d\n", source.LineOf(text, off), source.ColumnOf(text, off))
	return err
}

func checkOffset(text string, off uint32) error {
	if int(off) > len(text) {
		return fmt.Errorf("offset %d is past the end of the file (%d bytes)", off, len(text))
	}
	if int(off) < len(text) && !utf8.RuneStart(text[off]) {
		return fmt.Errorf("offset %d is inside a multi-byte character", off)
	}
	return nil
}
