package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List cases and transactions",
	Long: `List cases and transactions from the case service in a simple text format.
This command works in any terminal environment and provides an alternative
to the TUI interface when terminal capabilities are limited.

Examples:
  # List all cases
  console-fin list cases

  # List transactions for a specific case
  console-fin list transactions --case-id 7`,
	RunE: runList,
}

var (
	listType   string
	listCaseID int64
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listType, "type", "cases", "What to list: cases, transactions")
	listCmd.Flags().Int64Var(&listCaseID, "case-id", 0, "Case id for listing transactions")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := newLogger(GetConfig())

	client, err := newClient(logger)
	if err != nil {
		return err
	}

	targetType := listType
	if len(args) > 0 {
		targetType = strings.ToLower(args[0])
	}

	switch targetType {
	case "cases":
		cases, err := client.ListCases(ctx)
		if err != nil {
			return fmt.Errorf("failed to list cases: %w", err)
		}
		// Newest first, same ordering contract as the TUI list.
		sort.Slice(cases, func(i, j int) bool { return cases[i].ID > cases[j].ID })

		if len(cases) == 0 {
			fmt.Println("No cases found.")
			return nil
		}
		fmt.Printf("%-6s %-10s %-40s %s\n", "ID", "STATUS", "TITLE", "DESCRIPTION")
		for _, cs := range cases {
			fmt.Printf("%-6d %-10s %-40s %s\n", cs.ID, cs.Status, truncate(cs.Title, 40), truncate(cs.Description, 50))
		}
		return nil

	case "transactions":
		if listCaseID == 0 {
			return fmt.Errorf("--case-id is required when listing transactions")
		}
		txs, err := client.ListTransactions(ctx, listCaseID)
		if err != nil {
			return fmt.Errorf("failed to list transactions for case %d: %w", listCaseID, err)
		}
		if len(txs) == 0 {
			fmt.Printf("Case %d has no transactions.\n", listCaseID)
			return nil
		}
		fmt.Printf("%-6s %-12s %12s  %s\n", "ID", "DATE", "AMOUNT", "DESCRIPTION")
		for _, tx := range txs {
			fmt.Printf("%-6d %-12s %12s  %s\n", tx.ID, tx.TransactionDate, tx.Amount.StringFixed(2), truncate(tx.Description, 50))
		}
		return nil

	default:
		return fmt.Errorf("unknown list type %q (want cases or transactions)", targetType)
	}
}

// truncate shortens s to at most max runes. Case data is frequently CJK, so
// cutting on bytes would split characters.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
