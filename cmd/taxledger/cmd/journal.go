package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/taxledger/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query journaled analysis runs",
	Long: `Query and display journal records from the SQLite database.

Subcommands:
  run    - Show the summary of a specific run by ID
  gains  - List the realized gains of a run

Examples:
  taxledger journal run <run-id>
  taxledger journal gains <run-id>`,
}

var journalRunCmd = &cobra.Command{
	Use:   "run <run-id>",
	Short: "Show the summary of a specific run",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalRun,
}

var journalGainsCmd = &cobra.Command{
	Use:   "gains <run-id>",
	Short: "List the realized gains of a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalGains,
}

var journalDBPath string

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalRunCmd)
	journalCmd.AddCommand(journalGainsCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./taxledger.sqlite", "path to SQLite journal DB")
}

func runJournalRun(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	rec, err := j.GetRun(args[0])
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}

	fmt.Printf("Run %s: %s on %s (%s)\n", rec.RunID, rec.Wallet, rec.Chain,
		rec.StartedAt.UTC().Format("2006-01-02 15:04:05"))
	fmt.Printf("  Total realized: %s\n", rec.TotalRealized.StringFixed(2))
	fmt.Printf("  Short-term:     %s\n", rec.ShortTerm.StringFixed(2))
	fmt.Printf("  Long-term:      %s\n", rec.LongTerm.StringFixed(2))
	fmt.Printf("  Unrealized:     %s\n", rec.Unrealized.StringFixed(2))
	fmt.Printf("  Disposals:      %d\n", rec.SellCount)
	fmt.Printf("  Warnings:       %d\n", rec.WarningCount)
	return nil
}

func runJournalGains(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	gains, err := j.ListGainsByRun(args[0])
	if err != nil {
		return fmt.Errorf("query gains: %w", err)
	}

	fmt.Println(journal.FormatGainsOrg(gains))
	return nil
}
