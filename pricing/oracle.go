// Package pricing supplies USD prices for assets at points in time. The
// oracle is the only external dependency on the engine's hot path, so the
// package also ships a per-run cache and a rate-limited wrapper for slow
// upstream price APIs.
package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrPriceUnavailable means the oracle has no price for the requested
// asset/timestamp. Callers recover with a fallback price and flag the
// affected records as estimated.
var ErrPriceUnavailable = errors.New("price unavailable")

// Oracle answers "what was one unit of asset worth in USD at time t".
type Oracle interface {
	Price(ctx context.Context, asset string, t time.Time) (decimal.Decimal, error)
}

// Quote is a resolved price plus whether it came from a fallback.
type Quote struct {
	Price     decimal.Decimal
	Estimated bool
}

// Resolve queries the oracle and falls back to fallback on
// ErrPriceUnavailable, marking the quote estimated. Other oracle errors are
// returned as-is.
func Resolve(ctx context.Context, o Oracle, asset string, t time.Time, fallback decimal.Decimal) (Quote, error) {
	p, err := o.Price(ctx, asset, t)
	if err == nil {
		return Quote{Price: p}, nil
	}
	if errors.Is(err, ErrPriceUnavailable) {
		return Quote{Price: fallback, Estimated: true}, nil
	}
	return Quote{}, err
}
