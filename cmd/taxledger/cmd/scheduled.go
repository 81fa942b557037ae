package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/taxledger/classify"
	"github.com/rustyeddy/taxledger/journal"
	"github.com/rustyeddy/taxledger/report"
)

var scheduledCmd = &cobra.Command{
	Use:   "scheduled",
	Short: "Export a Schedule D summary for a tax year",
	Long: `Aggregate the journaled realized gains of a tax year into the
Schedule D short-term/long-term totals.

Examples:
  taxledger scheduled --year 2024
  taxledger scheduled --year 2024 --format csv -o scheduled.csv`,
	Args: cobra.NoArgs,
	RunE: runScheduleD,
}

var (
	scheduledDBPath string
	scheduledYear   int
	scheduledFormat string
	scheduledOut    string
)

func init() {
	rootCmd.AddCommand(scheduledCmd)

	scheduledCmd.Flags().StringVarP(&scheduledDBPath, "db", "d", "./taxledger.sqlite", "path to SQLite journal DB")
	scheduledCmd.Flags().IntVarP(&scheduledYear, "year", "y", 0, "tax year (required)")
	scheduledCmd.Flags().StringVarP(&scheduledFormat, "format", "F", "text", "output format: text or csv")
	scheduledCmd.Flags().StringVarP(&scheduledOut, "output", "o", "", "output file (default stdout)")
	scheduledCmd.MarkFlagRequired("year")
}

func runScheduleD(cmd *cobra.Command, args []string) error {
	now := time.Now()
	if !report.ValidYear(scheduledYear, now) {
		return fmt.Errorf("tax year %d out of supported range %d-%d",
			scheduledYear, report.FirstSupportedYear, now.UTC().Year())
	}

	j, err := journal.NewSQLite(scheduledDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	start := time.Date(scheduledYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	gains, err := j.ListGainsDisposedBetween(start, end)
	if err != nil {
		return fmt.Errorf("query gains: %w", err)
	}

	out := os.Stdout
	if scheduledOut != "" {
		out, err = os.Create(scheduledOut)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer out.Close()
	}

	records := make([]classify.RealizedGain, 0, len(gains))
	for _, g := range gains {
		records = append(records, g.RealizedGain)
	}
	if err := report.ScheduleD(out, records, scheduledYear, report.Format(scheduledFormat), now); err != nil {
		return fmt.Errorf("export schedule d: %w", err)
	}
	return nil
}
