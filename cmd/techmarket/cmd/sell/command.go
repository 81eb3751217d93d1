// Package sell provides the command recording a sale.
package sell

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/techmarket/cmd/application"
	"github.com/agentstation/techmarket/cmd/techmarket/cmd/quote"
	"github.com/agentstation/techmarket/internal/cmd/output"
	"github.com/agentstation/techmarket/internal/cmd/table"
	"github.com/agentstation/techmarket/pkg/catalogs"
)

// NewCommand creates the sell command with app dependencies.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sell <device-id>",
		GroupID: "core",
		Short:   "Record the sale of a configured device",
		Long: `Sell prices the device with the selected options and add-ons, submits
the sale to the remote catalog when one is configured, and records it in
the local catalog.`,
		Example: `  techmarket sell 1 --option 1 --addon 2 --user 1`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deviceID, err := quote.ParseDeviceID(args[0])
			if err != nil {
				return err
			}
			optionIDs, _ := cmd.Flags().GetInt64Slice("option")
			addOnIDs, _ := cmd.Flags().GetInt64Slice("addon")
			userID, _ := cmd.Flags().GetInt64("user")

			svc, err := app.Service()
			if err != nil {
				return err
			}
			sale, err := svc.Sell(cmd.Context(), userID, deviceID, optionIDs, addOnIDs)
			if err != nil {
				return err
			}

			format := output.DetectFormat(app.OutputFormat())
			tabular := table.Entities(catalogs.KindSale, []catalogs.Entity{sale}, false)
			if err := output.Write(cmd.OutOrStdout(), format, tabular, sale); err != nil {
				return err
			}
			if format.IsTable() {
				fmt.Fprintf(cmd.ErrOrStderr(), "Sale %d recorded\n", sale.ID)
			}
			return nil
		},
	}
	quote.AddSelectionFlags(cmd)
	cmd.Flags().Int64("user", 0, "User credited with the sale")
	return cmd
}
