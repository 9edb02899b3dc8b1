package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yl3im/hyrps/codeplug"
	"github.com/yl3im/hyrps/internal/writer"
)

var (
	blankModel string
	blankCaps  = codeplug.DefaultCapacities
)

func init() {
	cmd := newBlankCmd()
	f := cmd.Flags()
	f.StringVar(&blankModel, "model", "", "Model string stored in the image (required)")
	f.Uint16Var(&blankCaps.Contacts, "contacts", blankCaps.Contacts, "Contact slots")
	f.Uint16Var(&blankCaps.Digital, "digital", blankCaps.Digital, "Digital channel slots")
	f.Uint16Var(&blankCaps.Analog, "analog", blankCaps.Analog, "Analog channel slots")
	f.Uint16Var(&blankCaps.Zones, "zones", blankCaps.Zones, "Zone slots")
	f.Uint16Var(&blankCaps.Scans, "scans", blankCaps.Scans, "Scan slots")
	f.Uint16Var(&blankCaps.Roams, "roams", blankCaps.Roams, "Roam slots")
	_ = cmd.MarkFlagRequired("model")
	rootCmd.AddCommand(cmd)
}

func newBlankCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "blank <output>",
		Short: "Create an empty image with the given section capacities",
		Long: `The blank command lays out a new image holding every section the codec
decodes, each empty. One slot of every section is reserved by the radio, so
a section with N slots holds N-1 records.

Example:
  cpctl blank --model "TEST" empty.bin
  cpctl blank --model "m-radio" --contacts 2048 empty.bin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBlank(args)
		},
	}
}

func runBlank(args []string) error {
	cp, img, err := codeplug.NewBlank(blankModel, blankCaps)
	if err != nil {
		return err
	}
	if err := (&writer.FileWriter{Path: args[0]}).WriteImage(img.Bytes()); err != nil {
		return fmt.Errorf("write %s: %w", args[0], err)
	}
	printInfo("Wrote %s: %s, %d sections, %d bytes\n", args[0], cp.DeviceType(), len(cp.Directory), img.Len())
	return nil
}
