package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newDissectCmd())
}

func newDissectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dissect <image> <dir>",
		Short: "Write every in-use record of every section to its own file",
		Long: `The dissect command splits the image into raw record chunks. Each
section gets a directory named after its type (0xTTTT) holding one file per
in-use record, named by logical position (NNNN). Useful for diffing images
and for studying unknown fields.

Example:
  cpctl dissect radio.bin ./chunks`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDissect(args)
		},
	}
}

func runDissect(args []string) error {
	cp, _, err := open(args[0])
	if err != nil {
		return err
	}
	out := args[1]

	var files int
	for _, s := range cp.Directory.Sorted() {
		dir := filepath.Join(out, fmt.Sprintf("0x%04x", s.Header.Type))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		for pos := 0; pos < int(s.Header.InUse); pos++ {
			chunk, err := s.Chunk(pos)
			if err != nil {
				return fmt.Errorf("section 0x%x: %w", s.Header.Type, err)
			}
			if err := os.WriteFile(filepath.Join(dir, fmt.Sprintf("%04d", pos)), chunk, 0o644); err != nil {
				return err
			}
			files++
		}
		printVerbose("  0x%04x: %d records\n", s.Header.Type, s.Header.InUse)
	}
	printInfo("Wrote %d records from %d sections to %s\n", files, len(cp.Directory), out)
	return nil
}
