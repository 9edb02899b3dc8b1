package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/yl3im/hyrps/codeplug/verify"
)

// errInvalid is returned after a failed verification has been reported.
var errInvalid = errors.New("codeplug failed verification")

func init() {
	rootCmd.AddCommand(newVerifyCmd())
}

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <image>",
		Short: "Check every cross reference in the codeplug",
		Long: `The verify command decodes the image and checks that every channel
pointer, contact reference and list reference names an existing record,
that paired collections have equal lengths and that scan and roam lists
start with the selected channel.

Example:
  cpctl verify radio.bin
  cpctl verify radio.bin --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(args)
		},
	}
}

func runVerify(args []string) error {
	cp, _, err := open(args[0])
	if err != nil {
		return err
	}
	verr := cp.Verify()

	if structured() {
		result := map[string]any{
			"file":  args[0],
			"valid": verr == nil,
		}
		if ve, ok := verify.AsError(verr); ok {
			result["kind"] = ve.Kind
			result["collection"] = ve.Collection
			result["index"] = ve.Index
			result["error"] = ve.Error()
		}
		if err := printJSON(result); err != nil {
			return err
		}
	} else if verr == nil {
		printInfo("%s: OK\n", args[0])
	} else {
		printInfo("%s: %v\n", args[0], verr)
	}

	if verr != nil {
		return errInvalid
	}
	return nil
}
