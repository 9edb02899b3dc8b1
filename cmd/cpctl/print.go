package main

import (
	"github.com/spf13/cobra"

	"github.com/yl3im/hyrps/codeplug/printer"
)

func init() {
	rootCmd.AddCommand(newPrintCmd())
}

func newPrintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "print <image>",
		Short: "Print contacts, channels, zones, scans and roams",
		Long: `The print command decodes every collection and prints it with channel
pointers resolved to channel names. References to records that do not exist
are marked with '?'.

Example:
  cpctl print radio.bin
  cpctl print radio.bin --format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrint(args)
		},
	}
}

func runPrint(args []string) error {
	cp, _, err := open(args[0])
	if err != nil {
		return err
	}
	opts, err := printerOptions()
	if err != nil {
		return err
	}
	return printer.New(stdout, opts).Codeplug(cp)
}
