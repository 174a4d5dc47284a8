package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/SscSPs/payment_reconciler/internal/utils"
	"github.com/spf13/cobra"
)

// hashPasswordCmd prints the bcrypt hash to put in NOTIFICATION_PASSWORD_HASH.
// The password is read from stdin so it does not end up in shell history.
func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password",
		Short: "Hash a notification password read from stdin",
		// Skip the root config loading, this needs no configuration
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("failed to read password: %w", err)
			}
			hash, err := utils.HashPassword(strings.TrimRight(line, "\r\n"))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
