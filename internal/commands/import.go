package commands

import (
	"encoding/json"
	"fmt"

	"finance-ledger/internal/repository"
	"finance-ledger/internal/service"

	"github.com/spf13/cobra"
)

func newImportCommand(configPath *string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import transactions from a CSV file (the file is deleted on success)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			svc := service.NewTransactionService(repository.NewStore(a.db), a.log)
			res, err := svc.ImportTransactions(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			fmt.Fprintf(out, "imported %d transactions (%d skipped, %d new categories)\n",
				res.Imported, res.Skipped, res.CategoriesCreated)
			fmt.Fprintf(out, "balance: %s\n", res.Balance.Total.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	return cmd
}
