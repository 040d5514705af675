package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/janekbaraniewski/budgetview/internal/config"
	"github.com/spf13/cobra"
)

func newTokenCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the bearer token for the comparison endpoint",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set [token]",
		Short: "Store a token for the configured endpoint",
		Long:  "Store a token for the configured endpoint's host. Without an argument the token is read from stdin.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token := ""
			if len(args) == 1 {
				token = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read token from stdin: %w", err)
				}
				token = line
			}
			token = strings.TrimSpace(token)
			if token == "" {
				return fmt.Errorf("token is empty")
			}
			if err := config.SaveToken(cfg.Source.Endpoint, token); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "token stored for %s\n", cfg.Source.Endpoint)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete",
		Short: "Remove the token for the configured endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.DeleteTokenFrom(config.CredentialsPath(), cfg.Source.Endpoint); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "token removed for %s\n", cfg.Source.Endpoint)
			return nil
		},
	})

	return cmd
}
