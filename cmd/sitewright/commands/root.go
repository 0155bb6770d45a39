// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing, flag binding, and validation. Command execution is delegated to
// handler functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the sitewright CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitewright",
		Short: "Provision and debug web apps from the terminal",
	}

	cmd.AddCommand(Create())
	cmd.AddCommand(Swap())
	cmd.AddCommand(Tunnel())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
