package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFiles []string

// NewRootCmd creates the root command for the conduit CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "conduit",
		Short: "Conduit - a social-networking REST API",
		Long: `Conduit is a social-networking REST API with token-based
authentication, user profiles, and follow relationships.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringSliceVar(&configFiles, "config", nil, "config file path(s), later files override earlier ones")

	cmd.AddCommand(NewServeCmd())

	return cmd
}
