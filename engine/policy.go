package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/taxledger/chain"
	"github.com/rustyeddy/taxledger/classify"
)

// Policy controls which categories count as taxable lot events and how
// holding periods are classified. Jurisdiction-dependent choices live here
// instead of being hardcoded in the matcher.
type Policy struct {
	// NonTaxableAcquisitions lists categories whose inflows do not open a
	// lot (e.g. a transfer from the user's own other wallet keeps its
	// original basis upstream).
	NonTaxableAcquisitions map[chain.Category]bool

	// NonTaxableDisposals lists categories whose outflows do not realize a
	// gain.
	NonTaxableDisposals map[chain.Category]bool

	// LongTermAfter is the holding-period threshold; exactly at the
	// threshold is long-term.
	LongTermAfter time.Duration

	// FallbackPrices supplies a per-asset estimate when the oracle cannot
	// resolve a timestamp, typically the current price. Affected records
	// are flagged estimated. Assets missing here fall back to zero.
	FallbackPrices map[string]decimal.Decimal
}

// DefaultPolicy reflects common US practice: transfers between own wallets
// move basis rather than realize it, gifts sent and lost coins are not
// disposals, and everything received (apart from transfers) establishes a
// lot at fair market value.
func DefaultPolicy() Policy {
	return Policy{
		NonTaxableAcquisitions: map[chain.Category]bool{
			chain.CategoryTransfer: true,
		},
		NonTaxableDisposals: map[chain.Category]bool{
			chain.CategoryTransfer: true,
			chain.CategoryGiftSent: true,
			chain.CategoryLost:     true,
		},
		LongTermAfter:  classify.DefaultLongTermAfter,
		FallbackPrices: map[string]decimal.Decimal{},
	}
}

func (p Policy) fallback(asset string) decimal.Decimal {
	if f, ok := p.FallbackPrices[asset]; ok {
		return f
	}
	return decimal.Zero
}

func (p Policy) threshold() time.Duration {
	if p.LongTermAfter > 0 {
		return p.LongTermAfter
	}
	return classify.DefaultLongTermAfter
}
