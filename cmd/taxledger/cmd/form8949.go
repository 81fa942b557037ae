package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/taxledger/classify"
	"github.com/rustyeddy/taxledger/journal"
	"github.com/rustyeddy/taxledger/report"
)

var form8949Cmd = &cobra.Command{
	Use:   "form8949 <run-id>",
	Short: "Export Form 8949 rows for an analysis run",
	Long: `Export the realized gains of a journaled run as Form 8949 CSV rows.

Examples:
  taxledger form8949 <run-id>
  taxledger form8949 <run-id> --term short-term -o 8949.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runForm8949,
}

var (
	form8949DBPath string
	form8949Term   string
	form8949Out    string
)

func init() {
	rootCmd.AddCommand(form8949Cmd)

	form8949Cmd.Flags().StringVarP(&form8949DBPath, "db", "d", "./taxledger.sqlite", "path to SQLite journal DB")
	form8949Cmd.Flags().StringVarP(&form8949Term, "term", "t", "all", "term filter: all, short-term or long-term")
	form8949Cmd.Flags().StringVarP(&form8949Out, "output", "o", "", "output file (default stdout)")
}

func runForm8949(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(form8949DBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	gains, err := j.ListGainsByRun(args[0])
	if err != nil {
		return fmt.Errorf("query gains: %w", err)
	}

	out := os.Stdout
	if form8949Out != "" {
		out, err = os.Create(form8949Out)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer out.Close()
	}

	records := make([]classify.RealizedGain, 0, len(gains))
	for _, g := range gains {
		records = append(records, g.RealizedGain)
	}
	if err := report.Form8949(out, records, report.TermFilter(form8949Term)); err != nil {
		return fmt.Errorf("export form 8949: %w", err)
	}
	return nil
}
