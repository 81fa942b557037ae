// Package classify labels realized gains by holding period and aggregates
// realized and unrealized results into the tax summary.
package classify

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/taxledger/ledger"
)

// Term is the holding-period classification of a realized gain.
type Term string

const (
	ShortTerm Term = "short-term"
	LongTerm  Term = "long-term"
)

// DefaultLongTermAfter is the US threshold: a holding period of one year or
// more is long-term.
const DefaultLongTermAfter = 365 * 24 * time.Hour

// RealizedGain is one disposal-to-lot match. A disposal spanning several
// lots produces one record per lot. Records are immutable once emitted.
type RealizedGain struct {
	ID         string // record id, ULID
	Asset      string
	Amount     decimal.Decimal
	AcquiredAt time.Time
	DisposedAt time.Time
	CostBasis  decimal.Decimal
	Proceeds   decimal.Decimal
	Gain       decimal.Decimal // Proceeds - CostBasis
	Term       Term
	BuyHash    string
	SellHash   string
	Estimated  bool // either side priced via fallback
}

// TermOf classifies a holding period against threshold. Exactly at the
// threshold counts as long-term.
func TermOf(acquired, disposed time.Time, threshold time.Duration) Term {
	if disposed.Sub(acquired) >= threshold {
		return LongTerm
	}
	return ShortTerm
}

// LotValuation is one open lot marked against the current price.
type LotValuation struct {
	Lot          ledger.Lot
	CurrentPrice decimal.Decimal
	CostBasis    decimal.Decimal
	CurrentValue decimal.Decimal
	Unrealized   decimal.Decimal
}

// UnrealizedPosition is the remaining holdings of one asset valued at the
// current price. Always derived from live ledger state, never stored.
type UnrealizedPosition struct {
	Asset        string
	Lots         []LotValuation
	CostBasis    decimal.Decimal
	CurrentValue decimal.Decimal
	Unrealized   decimal.Decimal
}

// Positions values every open lot in l against currentPrices (USD per unit,
// keyed by asset). Assets without a current price are valued at zero and
// their valuations marked by a zero CurrentPrice; callers that need more
// should resolve prices before calling.
func Positions(l *ledger.Ledger, currentPrices map[string]decimal.Decimal) []UnrealizedPosition {
	var out []UnrealizedPosition
	for _, asset := range l.Assets() {
		price := currentPrices[asset]
		pos := UnrealizedPosition{Asset: asset}
		for _, lot := range l.Lots(asset) {
			cost := lot.CostBasis()
			value := lot.Remaining.Mul(price)
			pos.Lots = append(pos.Lots, LotValuation{
				Lot:          lot,
				CurrentPrice: price,
				CostBasis:    cost,
				CurrentValue: value,
				Unrealized:   value.Sub(cost),
			})
			pos.CostBasis = pos.CostBasis.Add(cost)
			pos.CurrentValue = pos.CurrentValue.Add(value)
		}
		pos.Unrealized = pos.CurrentValue.Sub(pos.CostBasis)
		out = append(out, pos)
	}
	return out
}

// Summary is the aggregate tax view over one analysis run.
type Summary struct {
	Method             string // always "FIFO"
	TotalRealizedGain  decimal.Decimal
	ShortTermGains     decimal.Decimal
	LongTermGains      decimal.Decimal
	TotalUnrealized    decimal.Decimal
	RemainingCostBasis decimal.Decimal
	SellCount          int
	EstimatedRecords   int
}

// Summarize folds realized records and open positions into totals. The sell
// count is the number of distinct disposal transactions, not record count.
func Summarize(records []RealizedGain, positions []UnrealizedPosition) Summary {
	s := Summary{Method: "FIFO"}
	sells := map[string]bool{}
	for _, r := range records {
		s.TotalRealizedGain = s.TotalRealizedGain.Add(r.Gain)
		switch r.Term {
		case LongTerm:
			s.LongTermGains = s.LongTermGains.Add(r.Gain)
		default:
			s.ShortTermGains = s.ShortTermGains.Add(r.Gain)
		}
		if r.Estimated {
			s.EstimatedRecords++
		}
		sells[r.SellHash] = true
	}
	s.SellCount = len(sells)

	for _, p := range positions {
		s.TotalUnrealized = s.TotalUnrealized.Add(p.Unrealized)
		s.RemainingCostBasis = s.RemainingCostBasis.Add(p.CostBasis)
	}
	return s
}
