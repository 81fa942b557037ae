package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "taxledger",
	Short: "Capital-gains analysis for blockchain wallet histories",
	Long: `Taxledger computes tax-relevant metrics from normalized wallet
transaction histories.

It provides tools for:
  - FIFO cost-basis matching and realized gain calculation
  - Short-term/long-term holding-period classification
  - Form 8949 and Schedule D report generation
  - Rule-based and automatic transaction categorization
  - Journaling analysis runs to SQLite or CSV

Complete documentation is available at https://github.com/rustyeddy/taxledger`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
