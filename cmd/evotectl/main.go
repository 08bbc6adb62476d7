// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command evotectl is the operator tool for an evote deployment: it mints
// session tokens, computes voter pseudonyms, and prints election results
// straight from the database.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/evote/cliparse"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:           "evotectl",
	Short:         "Operator tool for evote",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return cliparse.LoadEnvFile(envFile)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "Path to .env file")
}

// envOr returns the flag value if set, else the named environment variable.
func envOr(flagValue, envName string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if v := os.Getenv(envName); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("%s required", envName)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "evotectl:", err)
		os.Exit(1)
	}
}
