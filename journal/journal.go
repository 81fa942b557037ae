// Package journal persists analysis runs, their realized gains and user
// category overrides. SQLite is the default store; the CSV journal exists
// for spreadsheet workflows.
package journal

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/taxledger/chain"
	"github.com/rustyeddy/taxledger/classify"
)

// RunRecord captures the headline numbers of one completed analysis run.
type RunRecord struct {
	RunID         string
	Wallet        string
	Chain         string
	StartedAt     time.Time
	TotalRealized decimal.Decimal
	ShortTerm     decimal.Decimal
	LongTerm      decimal.Decimal
	Unrealized    decimal.Decimal
	SellCount     int
	WarningCount  int
}

// GainRecord is a realized gain persisted under its run.
type GainRecord struct {
	RunID string
	classify.RealizedGain
}

// Journal persists analysis output and user category overrides.
type Journal interface {
	RecordRun(RunRecord) error
	RecordGain(GainRecord) error
	SaveCategories(wallet, chainName string, categories map[string]chain.Category) error
	Categories(wallet, chainName string) (map[string]chain.Category, error)
	Close() error
}
