package commands

import (
	"github.com/spf13/cobra"

	"sitewright/cmd/sitewright/handlers"
)

// Tunnel returns the command for opening a remote debug tunnel session.
//
// The session stays open until the spawned shell exits or the process is
// interrupted; either way the tunnel is closed and the site's remote-debug
// configuration is restored before the command returns.
func Tunnel() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "tunnel <group/site>",
		Short: "Open a remote debug tunnel into a running site",
		Long: `Open an SSH session into a running Linux site through a local tunnel.

The command reserves a local port, forwards it to the site's tunnel
endpoint, temporarily disables remote debugging (the two cannot be active
at once), and drops you into a shell on the site. Closing the shell, or
interrupting the command, tears everything down and restores the
remote-debug setting.

Examples:
  # Tunnel into site app1 in resource group demo
  sitewright tunnel demo/app1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Tunnel(cmd.Context(), configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to settings file")

	return cmd
}
