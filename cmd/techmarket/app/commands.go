package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/techmarket/cmd/techmarket/cmd/list"
	"github.com/agentstation/techmarket/cmd/techmarket/cmd/options"
	"github.com/agentstation/techmarket/cmd/techmarket/cmd/quote"
	"github.com/agentstation/techmarket/cmd/techmarket/cmd/sell"
	"github.com/agentstation/techmarket/cmd/techmarket/cmd/serve"
	"github.com/agentstation/techmarket/cmd/techmarket/cmd/sync"
	"github.com/agentstation/techmarket/cmd/techmarket/cmd/version"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(list.NewCommand(a))
	rootCmd.AddCommand(options.NewCommand(a))
	rootCmd.AddCommand(quote.NewCommand(a))
	rootCmd.AddCommand(sell.NewCommand(a))
	rootCmd.AddCommand(serve.NewCommand(a, a.serveDefaults))

	// Management commands
	rootCmd.AddCommand(sync.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(version.NewCommand(a))
}

func (a *App) serveDefaults() serve.Defaults {
	return serve.Defaults{Server: a.config.Server, AutoSync: a.config.AutoSync}
}
