// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Directory holding main.toml (default ./etc/)")
}

var rootCmd = &cobra.Command{
	Use:   "dishdash-admin",
	Short: "DishDash Admin is the web console of the DishDash food delivery platform",
	Long: `DishDash Admin is the web console of the DishDash food delivery platform.
Super admins, restaurant owners and delivery partners sign in against the
DishDash backend and manage their part of the platform.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
