// Package quote provides the command pricing a device configuration.
package quote

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agentstation/techmarket/cmd/application"
	"github.com/agentstation/techmarket/internal/cmd/output"
	"github.com/agentstation/techmarket/internal/cmd/table"
	"github.com/agentstation/techmarket/pkg/errors"
)

// NewCommand creates the quote command with app dependencies.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "quote <device-id>",
		GroupID: "core",
		Short:   "Price a device with options and add-ons",
		Example: `  techmarket quote 1 --option 1 --addon 1 --addon 2
  techmarket quote 2 -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deviceID, err := ParseDeviceID(args[0])
			if err != nil {
				return err
			}
			optionIDs, _ := cmd.Flags().GetInt64Slice("option")
			addOnIDs, _ := cmd.Flags().GetInt64Slice("addon")

			svc, err := app.Service()
			if err != nil {
				return err
			}
			q, err := svc.Quote(cmd.Context(), deviceID, optionIDs, addOnIDs)
			if err != nil {
				return err
			}
			format := output.DetectFormat(app.OutputFormat())
			return output.Write(cmd.OutOrStdout(), format, table.Quote(q), q)
		},
	}
	AddSelectionFlags(cmd)
	return cmd
}

// AddSelectionFlags adds the option and add-on selection flags.
func AddSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().Int64Slice("option", nil, "Option id to include (repeatable)")
	cmd.Flags().Int64Slice("addon", nil, "Add-on id to include (repeatable)")
}

// ParseDeviceID parses a device id argument.
func ParseDeviceID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewValidationError("device_id", arg, "must be a positive integer")
	}
	return id, nil
}
