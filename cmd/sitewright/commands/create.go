package commands

import (
	"github.com/spf13/cobra"

	"sitewright/cmd/sitewright/handlers"
)

// Create returns the command for provisioning a new web app interactively.
//
// Optional flags:
//
//	--config, -c: Path to the settings file (default: per-user config dir)
//
// Environment variables:
//
//	SITEWRIGHT_ENDPOINT: Management API endpoint
//	SITEWRIGHT_TOKEN:    Management API token (required)
func Create() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Provision a new web app interactively",
		Long: `Provision a new web app through a guided wizard.

The wizard first gathers every decision (location, resource group, plan,
site name, runtime) without touching anything, then applies them in order:
  1. Create resource group
  2. Create app service plan
  3. Create site

Backing out of any question leaves your account untouched.

Examples:
  # Provision using the per-user settings file
  sitewright create

  # Provision using a specific settings file
  sitewright create -c staging.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Create(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to settings file")

	return cmd
}
