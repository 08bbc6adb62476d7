// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/evote/auth"
)

func init() {
	pseudonymCmd.Flags().String("salt", "", "Voter token salt (default $VOTER_TOKEN_SALT)")
	rootCmd.AddCommand(pseudonymCmd)
}

// pseudonymCmd prints the voter_token stored for an identity, for support
// requests such as "did my vote count".
var pseudonymCmd = &cobra.Command{
	Use:   "pseudonym <identity>",
	Short: "Print the stored voter token for an identity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		saltFlag, _ := cmd.Flags().GetString("salt")
		salt, err := envOr(saltFlag, "VOTER_TOKEN_SALT")
		if err != nil {
			return err
		}
		if args[0] == "" {
			return auth.ErrUnauthenticated
		}

		fmt.Fprintln(cmd.OutOrStdout(), auth.Pseudonymize(args[0], salt))
		return nil
	},
}
