// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/evote/auth"
)

func init() {
	tokenCmd.Flags().String("secret", "", "JWT signing secret (default $JWT_SECRET)")
	tokenCmd.Flags().String("role", auth.RoleVoter, "Role: voter or admin")
	tokenCmd.Flags().Bool("approved", false, "Mark an admin as approved")
	tokenCmd.Flags().Duration("ttl", 12*time.Hour, "Token lifetime")
	rootCmd.AddCommand(tokenCmd)
}

var tokenCmd = &cobra.Command{
	Use:   "token <identity>",
	Short: "Mint a session token for an identity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		secretFlag, _ := flags.GetString("secret")
		role, _ := flags.GetString("role")
		approved, _ := flags.GetBool("approved")
		ttl, _ := flags.GetDuration("ttl")

		if role != auth.RoleVoter && role != auth.RoleAdmin {
			return fmt.Errorf("unknown role %q", role)
		}
		secret, err := envOr(secretFlag, "JWT_SECRET")
		if err != nil {
			return err
		}

		token, err := auth.IssueToken(secret, auth.Principal{
			Identity: args[0],
			Role:     role,
			Approved: approved,
		}, ttl, time.Now())
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}
