// Package list provides the command for listing catalog entities.
package list

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agentstation/techmarket/cmd/application"
	"github.com/agentstation/techmarket/internal/cmd/output"
	"github.com/agentstation/techmarket/internal/cmd/table"
	"github.com/agentstation/techmarket/pkg/catalogs"
	"github.com/agentstation/techmarket/pkg/errors"
)

// NewCommand creates the list command with app dependencies.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list <entity> [id]",
		GroupID: "core",
		Short:   "List entities from the local catalog",
		Long: `List displays entities from the local catalog.

Entities: devices, add-ons, characteristics, customizations, options,
sales and users. The names used by the remote catalog are accepted too.`,
		Example: `  techmarket list devices             # List all devices
  techmarket list options 3           # Show option 3
  techmarket list add-ons -o wide     # Include descriptions
  techmarket list sales -o json       # Machine readable sales`,
		Aliases: []string{"ls"},
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, args)
		},
	}
	return cmd
}

func run(cmd *cobra.Command, app application.Application, args []string) error {
	kind, err := catalogs.ParseKind(args[0])
	if err != nil {
		return err
	}

	svc, err := app.Service()
	if err != nil {
		return err
	}

	var items []catalogs.Entity
	var raw any
	if len(args) == 2 {
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil || id <= 0 {
			return errors.NewValidationError("id", args[1], "must be a positive integer")
		}
		e, err := svc.Get(cmd.Context(), kind, id)
		if err != nil {
			return err
		}
		items, raw = []catalogs.Entity{e}, e
	} else {
		if items, err = svc.List(cmd.Context(), kind); err != nil {
			return err
		}
		raw = items
		app.Logger().Debug().
			Str("kind", kind.String()).
			Int("count", len(items)).
			Msg("Listed entities")
	}

	format := output.DetectFormat(app.OutputFormat())
	tabular := table.Entities(kind, items, format == output.FormatWide)
	if err := output.Write(cmd.OutOrStdout(), format, tabular, raw); err != nil {
		return err
	}
	if format.IsTable() && len(args) == 1 {
		fmt.Fprintf(cmd.ErrOrStderr(), "Found %d %s\n", len(items), kind.Plural())
	}
	return nil
}
