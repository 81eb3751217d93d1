// Package options provides the command showing the relationship options an
// entity form offers.
package options

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agentstation/techmarket/cmd/application"
	"github.com/agentstation/techmarket/internal/cmd/output"
	"github.com/agentstation/techmarket/internal/cmd/table"
	"github.com/agentstation/techmarket/pkg/catalogs"
	"github.com/agentstation/techmarket/pkg/errors"
	"github.com/agentstation/techmarket/pkg/forms"
)

// View is the json and yaml rendering of a form.
type View struct {
	Kind   catalogs.Kind `json:"kind"`
	ID     int64         `json:"id"`
	Fields []forms.Field `json:"fields"`
}

// NewCommand creates the options command with app dependencies.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "options <entity> [id]",
		GroupID: "core",
		Short:   "Show the relationship options of an entity form",
		Long: `Options loads the edit form of an entity, or of a new one when no id is
given, and shows every relationship field with its options. Selected
options are marked.

When some options cannot be loaded the form is still shown and a warning
is printed.`,
		Example: `  techmarket options customizations 2   # Options of customization 2
  techmarket options devices            # Options offered for a new device`,
		Aliases: []string{"form"},
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, args)
		},
	}
}

func run(cmd *cobra.Command, app application.Application, args []string) error {
	kind, err := catalogs.ParseKind(args[0])
	if err != nil {
		return err
	}

	var id int64
	if len(args) == 2 {
		id, err = strconv.ParseInt(args[1], 10, 64)
		if err != nil || id <= 0 {
			return errors.NewValidationError("id", args[1], "must be a positive integer")
		}
	}

	svc, err := app.Service()
	if err != nil {
		return err
	}

	f, err := svc.Form(cmd.Context(), kind, id)
	if f == nil {
		return err
	}
	if err != nil {
		if !errors.IsFetchError(err) {
			return err
		}
		app.Logger().Warn().Err(err).Msg("Some options could not be loaded")
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
	}

	view := View{Kind: f.Kind(), ID: f.ID(), Fields: f.Fields()}
	format := output.DetectFormat(app.OutputFormat())
	return output.Write(cmd.OutOrStdout(), format, table.Form(f), view)
}
