package pricing

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint is one historical observation for an asset.
type PricePoint struct {
	Time  time.Time
	Price decimal.Decimal
}

// Static is an in-memory oracle backed by per-asset price histories. It
// answers with the most recent observation at or before the requested time,
// which matches how daily close series are consumed. Unknown assets and
// requests before the first observation return ErrPriceUnavailable.
type Static struct {
	history map[string][]PricePoint
}

func NewStatic() *Static {
	return &Static{history: make(map[string][]PricePoint)}
}

// Add records an observation. Points may be added in any order.
func (s *Static) Add(asset string, t time.Time, price decimal.Decimal) {
	pts := append(s.history[asset], PricePoint{Time: t, Price: price})
	sort.Slice(pts, func(i, j int) bool { return pts[i].Time.Before(pts[j].Time) })
	s.history[asset] = pts
}

func (s *Static) Price(_ context.Context, asset string, t time.Time) (decimal.Decimal, error) {
	pts := s.history[asset]
	// first index after t
	i := sort.Search(len(pts), func(i int) bool { return pts[i].Time.After(t) })
	if i == 0 {
		return decimal.Decimal{}, ErrPriceUnavailable
	}
	return pts[i-1].Price, nil
}
