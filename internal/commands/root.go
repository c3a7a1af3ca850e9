package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "finance-ledger",
		Short: "Personal finance tracker: transactions, categories and CSV import",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to config file")

	rootCmd.AddCommand(newServeCommand(&configPath))
	rootCmd.AddCommand(newImportCommand(&configPath))
	rootCmd.AddCommand(newTokenCommand(&configPath))

	return rootCmd
}
