package commands

import (
	"github.com/spf13/cobra"

	"sitewright/cmd/sitewright/handlers"
)

// Swap returns the command for swapping deployment slots of a site.
func Swap() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "swap <site>",
		Short: "Swap deployment slots of a site",
		Long: `Swap one deployment slot of a site into another.

The wizard asks which slot to promote and into which, confirms, and then
performs the swap. Declining the confirmation leaves both slots untouched.

Examples:
  # Promote a slot of my-app
  sitewright swap my-app`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return handlers.Swap(cmd.Context(), configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to settings file")

	return cmd
}
