package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// showCmd prints one hydrated case with its transactions.
var showCmd = &cobra.Command{
	Use:   "show <case-id>",
	Short: "Show a single case with its transactions",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var showAnalyze bool

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showAnalyze, "analyze", false, "Run anomaly analysis and flag matching transactions")
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := newLogger(GetConfig())

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid case id %q", args[0])
	}

	client, err := newClient(logger)
	if err != nil {
		return err
	}

	cs, err := client.GetCase(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch case %d: %w", id, err)
	}

	fmt.Printf("Case #%d: %s\n", cs.ID, cs.Title)
	if cs.Status != "" {
		fmt.Printf("Status:      %s\n", cs.Status)
	}
	if cs.Description != "" {
		fmt.Printf("Description: %s\n", cs.Description)
	}
	if !cs.CreatedAt.IsZero() {
		fmt.Printf("Created:     %s\n", cs.CreatedAt)
	}

	// The flag map is computed against the exact transaction list fetched
	// above; entries for already-deleted transactions flag nothing.
	flags := make(map[int64]string)
	if showAnalyze {
		entries, err := client.Analyze(ctx, id)
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}
		for _, e := range entries {
			flags[e.ID] = e.Reason
		}
		if len(entries) == 0 {
			fmt.Println("\nAnalysis complete: no anomalies found.")
		}
	}

	if len(cs.Transactions) == 0 {
		fmt.Println("\nThis case has no transactions.")
		return nil
	}

	fmt.Printf("\n%-6s %-12s %12s  %-40s %s\n", "ID", "DATE", "AMOUNT", "DESCRIPTION", "FLAG")
	for _, tx := range cs.Transactions {
		fmt.Printf("%-6d %-12s %12s  %-40s %s\n",
			tx.ID, tx.TransactionDate, tx.Amount.StringFixed(2), truncate(tx.Description, 40), flags[tx.ID])
	}
	return nil
}
