package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/taxledger/analysis"
	"github.com/rustyeddy/taxledger/chain"
	"github.com/rustyeddy/taxledger/config"
	"github.com/rustyeddy/taxledger/journal"
	"github.com/rustyeddy/taxledger/pricing"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <transactions.csv>",
	Short: "Run the FIFO capital-gains analysis over a transaction history",
	Long: `Analyze a wallet's normalized transaction history and print the tax
summary. Realized gains and the run record are written to the configured
journal.

The transactions file is the CSV export of the wallet pollers; the prices
file carries daily USD closes (asset,date,price_usd).

Example:
  taxledger analyze history.csv --prices prices.csv --wallet 0xabc --chain ethereum`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeWallet     string
	analyzeChain      string
	analyzePricesPath string
	analyzeConfigPath string
	analyzeTimeout    time.Duration
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeWallet, "wallet", "w", "", "wallet address (required)")
	analyzeCmd.Flags().StringVarP(&analyzeChain, "chain", "c", "ethereum", "chain name")
	analyzeCmd.Flags().StringVarP(&analyzePricesPath, "prices", "p", "", "price history CSV (required)")
	analyzeCmd.Flags().StringVarP(&analyzeConfigPath, "config", "f", "", "config file (YAML or JSON); defaults apply when omitted")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 5*time.Minute, "overall analysis timeout")
	analyzeCmd.MarkFlagRequired("wallet")
	analyzeCmd.MarkFlagRequired("prices")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(analyzeConfigPath)
	if err != nil {
		return err
	}

	txs, err := chain.ReadCSV(args[0])
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}

	oracle, err := buildOracle(cfg)
	if err != nil {
		return err
	}

	j, err := openJournal(cfg)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	log, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	overrides, err := j.Categories(analyzeWallet, analyzeChain)
	if err != nil {
		return fmt.Errorf("load category overrides: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	a := analysis.New(oracle, cfg.EnginePolicy(),
		analysis.WithJournal(j), analysis.WithLogger(log))
	rep, err := a.Run(ctx, analysis.Request{
		Wallet:       analyzeWallet,
		Chain:        analyzeChain,
		Transactions: txs,
		Overrides:    overrides,
	})
	if err != nil {
		return err
	}

	printReport(rep)
	return nil
}

func printReport(rep *analysis.Report) {
	s := rep.Summary
	fmt.Printf("Run %s: %s on %s\n\n", rep.RunID, rep.Wallet, rep.Chain)
	fmt.Printf("Method:               %s\n", s.Method)
	fmt.Printf("Total realized gain:  %s\n", s.TotalRealizedGain.StringFixed(2))
	fmt.Printf("  Short-term:         %s\n", s.ShortTermGains.StringFixed(2))
	fmt.Printf("  Long-term:          %s\n", s.LongTermGains.StringFixed(2))
	fmt.Printf("Total unrealized:     %s\n", s.TotalUnrealized.StringFixed(2))
	fmt.Printf("Remaining cost basis: %s\n", s.RemainingCostBasis.StringFixed(2))
	fmt.Printf("Disposals:            %d\n", s.SellCount)
	fmt.Printf("Gas fees (native):    %s\n", rep.Flows.TotalGasFees.String())

	if s.EstimatedRecords > 0 {
		fmt.Printf("\nNote: %d record(s) use estimated fallback prices.\n", s.EstimatedRecords)
	}
	if len(rep.Warnings) > 0 {
		fmt.Printf("\nWarnings (%d):\n", len(rep.Warnings))
		for _, w := range rep.Warnings {
			fmt.Printf("  - %s\n", w)
		}
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func buildOracle(cfg *config.Config) (pricing.Oracle, error) {
	static, err := pricing.LoadCSV(analyzePricesPath)
	if err != nil {
		return nil, fmt.Errorf("load prices: %w", err)
	}
	if cfg.Pricing.RatePerSecond > 0 {
		return pricing.NewThrottled(static, cfg.Pricing.RatePerSecond), nil
	}
	return static, nil
}

func openJournal(cfg *config.Config) (journal.Journal, error) {
	if cfg.Journal.Type == "csv" {
		return journal.NewCSV(cfg.Journal.RunsFile, cfg.Journal.GainsFile, cfg.Journal.CategoriesFile)
	}
	return journal.NewSQLite(cfg.Journal.DBPath)
}

func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Logging.Level != "" {
		lvl, err := zap.ParseAtomicLevel(cfg.Logging.Level)
		if err != nil {
			return nil, fmt.Errorf("logging level: %w", err)
		}
		zcfg.Level = lvl
	}
	return zcfg.Build()
}
