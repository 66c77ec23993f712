// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "howufeelin",
	Short: "HowUFeelin is a group mood-rating web application",
	Long: `HowUFeelin is a web application where friends form private groups,
record how they feel each day on a 1-10 scale and keep an eye on each other.
Groups are managed with role-based permissions (admin, moderator, member).`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
