package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the taxledger CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("taxledger version %s\n", version)
		fmt.Println("Capital-gains analysis for blockchain wallet histories")
		fmt.Println("https://github.com/rustyeddy/taxledger")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
