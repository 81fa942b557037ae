package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/taxledger/chain"
	"github.com/rustyeddy/taxledger/rules"
)

var categorizeCmd = &cobra.Command{
	Use:   "categorize <transactions.csv>",
	Short: "Assign tax categories to transactions",
	Long: `Assign categories by rule file or by the automatic heuristic, and
optionally persist them as overrides for later analyses.

The rules file is a YAML list of predicates; the first matching rule wins:

  - kind: direction
    direction: in
    category: income
  - kind: amount_lt
    amount: "0.01"
    category: fee

Examples:
  taxledger categorize history.csv --rules rules.yaml
  taxledger categorize history.csv --auto --save --wallet 0xabc`,
	Args: cobra.ExactArgs(1),
	RunE: runCategorize,
}

var (
	categorizeRulesPath string
	categorizeAuto      bool
	categorizeSave      bool
	categorizeWallet    string
	categorizeChain     string
	categorizeConfig    string
)

func init() {
	rootCmd.AddCommand(categorizeCmd)

	categorizeCmd.Flags().StringVarP(&categorizeRulesPath, "rules", "r", "", "YAML rules file")
	categorizeCmd.Flags().BoolVar(&categorizeAuto, "auto", false, "use the automatic direction-based heuristic")
	categorizeCmd.Flags().BoolVar(&categorizeSave, "save", false, "persist assignments as category overrides")
	categorizeCmd.Flags().StringVarP(&categorizeWallet, "wallet", "w", "", "wallet address (required with --save)")
	categorizeCmd.Flags().StringVarP(&categorizeChain, "chain", "c", "ethereum", "chain name")
	categorizeCmd.Flags().StringVarP(&categorizeConfig, "config", "f", "", "config file (YAML or JSON)")
}

func runCategorize(cmd *cobra.Command, args []string) error {
	if categorizeAuto == (categorizeRulesPath != "") {
		return fmt.Errorf("exactly one of --rules or --auto is required")
	}
	if categorizeSave && categorizeWallet == "" {
		return fmt.Errorf("--save requires --wallet")
	}

	txs, err := chain.ReadCSV(args[0])
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}

	var res rules.Result
	if categorizeAuto {
		res = rules.AutoCategorize(txs, nil)
	} else {
		ruleSet, err := loadRules(categorizeRulesPath)
		if err != nil {
			return err
		}
		res, err = rules.BatchCategorize(txs, ruleSet)
		if err != nil {
			return fmt.Errorf("categorize: %w", err)
		}
	}

	hashes := make([]string, 0, len(res.Categories))
	for h := range res.Categories {
		hashes = append(hashes, h)
	}
	sort.Strings(hashes)
	for _, h := range hashes {
		fmt.Printf("%s  %s\n", h, res.Categories[h])
	}
	fmt.Printf("\n%d transaction(s) categorized\n", res.Count)

	if categorizeSave {
		cfg, err := loadConfig(categorizeConfig)
		if err != nil {
			return err
		}
		j, err := openJournal(cfg)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer j.Close()

		if err := j.SaveCategories(categorizeWallet, categorizeChain, res.Categories); err != nil {
			return fmt.Errorf("save categories: %w", err)
		}
		fmt.Printf("Saved as overrides for %s on %s\n", categorizeWallet, categorizeChain)
	}
	return nil
}

func loadRules(path string) ([]rules.Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	var ruleSet []rules.Rule
	if err := yaml.Unmarshal(data, &ruleSet); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	return ruleSet, nil
}
