// Package sync provides the command pulling the remote catalog into the
// local store.
package sync

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/techmarket/cmd/application"
	"github.com/agentstation/techmarket/internal/cmd/output"
	"github.com/agentstation/techmarket/internal/cmd/table"
	"github.com/agentstation/techmarket/internal/remote"
)

// NewCommand creates the sync command with app dependencies.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sync",
		GroupID: "management",
		Short:   "Sync the local catalog with the remote catalog API",
		Long: `Sync pulls devices with their characteristics, customizations and
options from the remote catalog and stores them locally.

With --watch the sync repeats every sync_interval until interrupted.`,
		Example: `  techmarket sync
  techmarket sync --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			watch, _ := cmd.Flags().GetBool("watch")

			svc, err := app.Service()
			if err != nil {
				return err
			}
			format := output.DetectFormat(app.OutputFormat())
			write := func(r remote.SyncResult) error {
				return output.Write(cmd.OutOrStdout(), format, table.Sync(r), r)
			}

			if !watch {
				result, err := svc.Sync(cmd.Context())
				if err != nil {
					return err
				}
				return write(result)
			}

			logger := app.Logger()
			svc.OnSynced(func(r remote.SyncResult) {
				if !r.Changed() {
					return
				}
				if err := write(r); err != nil {
					logger.Error().Err(err).Msg("Failed to write sync result")
				}
			})
			if err := svc.AutoSyncOn(); err != nil {
				return err
			}
			<-cmd.Context().Done()
			return svc.AutoSyncOff()
		},
	}
	cmd.Flags().BoolP("watch", "w", false, "Keep syncing every sync interval")
	return cmd
}
