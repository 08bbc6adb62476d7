// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/danielhkuo/evote/ballot"
	"github.com/danielhkuo/evote/catalog"
	"github.com/danielhkuo/evote/cliparse"
	"github.com/danielhkuo/evote/db"
	"github.com/danielhkuo/evote/models"
	"github.com/danielhkuo/evote/voting"
)

func init() {
	resultsCmd.Flags().String("percent-scope", "", "Percentage denominator: election or position (default $PERCENT_SCOPE)")
	rootCmd.AddCommand(resultsCmd)
}

var resultsCmd = &cobra.Command{
	Use:   "results <election-id>",
	Short: "Tally an election and print the results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Same sources as the server, minus the session secrets
		serverArgs := []string{"-env", envFile}
		if scope, _ := cmd.Flags().GetString("percent-scope"); scope != "" {
			serverArgs = append(serverArgs, "-percent-scope", scope)
		}
		cfg, err := cliparse.ParseTallyFlags(serverArgs)
		if err != nil {
			return err
		}

		conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer conn.Close()

		svc := voting.NewService(
			catalog.NewStore(conn),
			ballot.NewStore(conn),
			ballot.NewEncoder(cfg.VoteEncryptionKey),
			cfg.VoterTokenSalt,
			voting.SystemClock{},
		)
		svc.SetPercentScope(cfg.PercentScope)

		results, err := svc.GetResults(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to tally election %s: %w", args[0], err)
		}

		return printResults(cmd.OutOrStdout(), results)
	},
}

func printResults(out io.Writer, r models.ElectionResults) error {
	fmt.Fprintf(out, "%s\n", r.Election.Title)
	fmt.Fprintf(out, "%s ballots counted, percentages per %s\n\n", humanize.Comma(int64(r.TotalVotes)), r.PercentScope)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, p := range r.Positions {
		fmt.Fprintf(tw, "%s\t\t\n", p.Position.Title)
		for _, c := range p.Candidates {
			fmt.Fprintf(tw, "  %s\t%s\t%.1f%%\n", c.Candidate.Name, humanize.Comma(int64(c.Count)), c.Percentage)
		}
	}
	return tw.Flush()
}
