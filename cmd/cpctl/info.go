package main

import (
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <image>",
		Short: "Show the model, device class and collection sizes",
		Long: `The info command decodes a codeplug image and reports the radio model,
whether it is a mobile or portable unit, and how many records each
collection holds.

Example:
  cpctl info radio.bin
  cpctl info radio.bin --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args)
		},
	}
}

type collectionInfo struct {
	Name     string `json:"name"`
	InUse    int    `json:"in_use"`
	Capacity int    `json:"capacity"`
}

func runInfo(args []string) error {
	cp, img, err := open(args[0])
	if err != nil {
		return err
	}

	cols := []collectionInfo{
		{cp.Contacts.Name(), cp.Contacts.Len(), int(cp.Contacts.Section().Header.Capacity)},
		{cp.Digital.Name(), cp.Digital.Len(), int(cp.Digital.Section().Header.Capacity)},
		{cp.Analog.Name(), cp.Analog.Len(), int(cp.Analog.Section().Header.Capacity)},
		{cp.Zones.Records.Name(), cp.Zones.Len(), int(cp.Zones.Records.Section().Header.Capacity)},
		{cp.Scans.Records.Name(), cp.Scans.Len(), int(cp.Scans.Records.Section().Header.Capacity)},
		{cp.Roams.Records.Name(), cp.Roams.Len(), int(cp.Roams.Records.Section().Header.Capacity)},
	}

	if structured() {
		return printJSON(map[string]any{
			"file":        args[0],
			"size":        img.Len(),
			"model":       cp.Model(),
			"device":      cp.DeviceType().String(),
			"sections":    len(cp.Directory),
			"collections": cols,
		})
	}

	printInfo("\nCodeplug Information:\n")
	printInfo("  File: %s\n", args[0])
	printInfo("  Size: %d bytes\n", img.Len())
	printInfo("  Model: %s\n", cp.Model())
	printInfo("  Device: %s\n", cp.DeviceType())
	printInfo("  Sections: %d\n", len(cp.Directory))
	printInfo("\nCollections:\n")
	for _, c := range cols {
		printInfo("  %-18s %5d / %d\n", c.Name+":", c.InUse, c.Capacity-1)
	}
	return nil
}
