package main

import (
	"github.com/spf13/cobra"

	"github.com/yl3im/hyrps/codeplug/printer"
)

var sectionsDigest bool

func init() {
	cmd := newSectionsCmd()
	cmd.Flags().BoolVar(&sectionsDigest, "digest", false, "Show an xxhash64 digest of every section region")
	rootCmd.AddCommand(cmd)
}

func newSectionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sections <image>",
		Short: "List the section directory",
		Long: `The sections command prints every section of the image in address order:
type, address, capacity, records in use, region size, element size, header
flags and the opaque header word.

Example:
  cpctl sections radio.bin
  cpctl sections radio.bin --digest --format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSections(args)
		},
	}
}

func runSections(args []string) error {
	cp, _, err := open(args[0])
	if err != nil {
		return err
	}
	opts, err := printerOptions()
	if err != nil {
		return err
	}
	opts.ShowDigest = sectionsDigest
	return printer.New(stdout, opts).Sections(cp.Directory)
}
