package commands

import (
	"fmt"
	"time"

	"finance-ledger/internal/config"
	"finance-ledger/internal/util"

	"github.com/spf13/cobra"
)

func newTokenCommand(configPath *string) *cobra.Command {
	var subject string
	var hours int

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a signed API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.New(*configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cfg.Auth.Secret == "" {
				return fmt.Errorf("auth.secret is not set; the API runs without authentication")
			}
			if hours <= 0 {
				hours = cfg.Auth.ExpireHours
			}

			token, err := util.GenerateToken(cfg.Auth.Secret, cfg.Auth.Issuer, subject, time.Duration(hours)*time.Hour)
			if err != nil {
				return fmt.Errorf("sign token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "cli", "token subject")
	cmd.Flags().IntVar(&hours, "hours", 0, "validity in hours (defaults to auth.expire_hours)")
	return cmd
}
