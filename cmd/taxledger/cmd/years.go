package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/taxledger/report"
)

var yearsCmd = &cobra.Command{
	Use:   "years",
	Short: "List the tax years available for reports",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		now := time.Now()
		for _, y := range report.SupportedYears(now) {
			fmt.Println(y)
		}
	},
}

func init() {
	rootCmd.AddCommand(yearsCmd)
}
