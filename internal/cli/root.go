// Package cli defines the warbot command tree: the long-running serve
// command plus small operational helpers that query the ops server.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "warbot",
		Short: "WhatsApp clan war bot",
		Long: `warbot manages a clan's war scoreboard over WhatsApp: player
registration, guided and quick points entry, warnings with escalation,
rankings and war-cycle bookkeeping.

Configuration comes from WARBOT_* environment variables.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newHealthCmd())
	rootCmd.AddCommand(newStatusCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
