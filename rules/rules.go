// Package rules assigns tax categories to transactions. Batch rules are an
// ordered list of typed predicates where the first match wins; auto
// categorization is the fixed direction-based heuristic applied when no
// override exists.
package rules

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/taxledger/chain"
)

// Kind selects the predicate a rule evaluates.
type Kind string

const (
	KindDirection   Kind = "direction"    // matches transaction direction
	KindAddress     Kind = "address"      // matches counterparty address
	KindAmountAbove Kind = "amount_gt"    // amount strictly greater
	KindAmountBelow Kind = "amount_lt"    // amount strictly less
	KindAsset       Kind = "asset"        // matches asset symbol
)

// Rule is one predicate with the category it assigns. Only the payload
// field for its Kind is meaningful.
type Rule struct {
	Kind      Kind            `yaml:"kind" json:"kind"`
	Direction string          `yaml:"direction,omitempty" json:"direction,omitempty"` // "in" or "out"
	Address   string          `yaml:"address,omitempty" json:"address,omitempty"`
	Amount    decimal.Decimal `yaml:"amount,omitempty" json:"amount,omitempty"`
	Asset     string          `yaml:"asset,omitempty" json:"asset,omitempty"`
	Category  chain.Category  `yaml:"category" json:"category"`
}

// InvalidRuleError rejects a malformed rule set before any rule is applied.
type InvalidRuleError struct {
	Index  int
	Reason string
}

func (e *InvalidRuleError) Error() string {
	return fmt.Sprintf("rule %d invalid: %s", e.Index, e.Reason)
}

// Validate checks every rule. A single bad rule fails the whole set, so
// categorization is all-or-nothing.
func Validate(ruleSet []Rule) error {
	for i, r := range ruleSet {
		if !chain.ValidCategory(r.Category) {
			return &InvalidRuleError{Index: i, Reason: fmt.Sprintf("unknown category %q", r.Category)}
		}
		switch r.Kind {
		case KindDirection:
			if r.Direction != "in" && r.Direction != "out" {
				return &InvalidRuleError{Index: i, Reason: fmt.Sprintf("direction must be in or out, got %q", r.Direction)}
			}
		case KindAddress:
			if strings.TrimSpace(r.Address) == "" {
				return &InvalidRuleError{Index: i, Reason: "address is empty"}
			}
		case KindAmountAbove, KindAmountBelow:
			if r.Amount.IsNegative() {
				return &InvalidRuleError{Index: i, Reason: "amount threshold is negative"}
			}
		case KindAsset:
			if strings.TrimSpace(r.Asset) == "" {
				return &InvalidRuleError{Index: i, Reason: "asset is empty"}
			}
		default:
			return &InvalidRuleError{Index: i, Reason: fmt.Sprintf("unknown kind %q", r.Kind)}
		}
	}
	return nil
}

func (r Rule) matches(tx chain.Transaction) bool {
	switch r.Kind {
	case KindDirection:
		return tx.Direction.String() == r.Direction
	case KindAddress:
		return strings.EqualFold(tx.Counterparty, r.Address)
	case KindAmountAbove:
		return tx.Amount.GreaterThan(r.Amount)
	case KindAmountBelow:
		return tx.Amount.LessThan(r.Amount)
	case KindAsset:
		return strings.EqualFold(tx.Asset, r.Asset)
	}
	return false
}

// Result maps transaction hashes to the categories assigned, plus how many
// transactions were touched.
type Result struct {
	Categories map[string]chain.Category
	Count      int
}

// BatchCategorize applies ruleSet to each transaction; the first matching
// rule wins. Transactions matching no rule are left out of the result. The
// rule set is validated first and a validation failure applies nothing.
func BatchCategorize(txs []chain.Transaction, ruleSet []Rule) (Result, error) {
	if err := Validate(ruleSet); err != nil {
		return Result{}, err
	}
	res := Result{Categories: make(map[string]chain.Category)}
	for _, tx := range txs {
		for _, r := range ruleSet {
			if r.matches(tx) {
				res.Categories[tx.Hash] = r.Category
				res.Count++
				break
			}
		}
	}
	return res, nil
}

// AutoCategorize applies the fixed heuristic: a counterparty present in
// knownAddresses takes that category, anything else defaults by direction.
// Running it twice over the same input yields the same assignments.
func AutoCategorize(txs []chain.Transaction, knownAddresses map[string]chain.Category) Result {
	res := Result{Categories: make(map[string]chain.Category)}
	for _, tx := range txs {
		if cat, ok := knownAddresses[strings.ToLower(tx.Counterparty)]; ok {
			res.Categories[tx.Hash] = cat
		} else {
			res.Categories[tx.Hash] = chain.DefaultCategory(tx.Direction)
		}
		res.Count++
	}
	return res
}

// Apply copies assigned categories onto a transaction slice, returning a
// new slice. Existing categories are overwritten only when the map has an
// entry for the hash.
func Apply(txs []chain.Transaction, categories map[string]chain.Category) []chain.Transaction {
	out := make([]chain.Transaction, len(txs))
	copy(out, txs)
	for i := range out {
		if cat, ok := categories[out[i].Hash]; ok {
			out[i].Category = cat
		}
	}
	return out
}
