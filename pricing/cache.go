package pricing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Cached wraps an oracle with a per-run lookup cache. Lookups are bucketed
// to the day so many transactions on the same date cost one upstream call.
// A Cached oracle is scoped to a single analysis run and is not safe for
// concurrent use; each run builds its own.
type Cached struct {
	next  Oracle
	cache map[cacheKey]cacheEntry
}

type cacheKey struct {
	asset string
	day   string // UTC YYYY-MM-DD
}

type cacheEntry struct {
	price decimal.Decimal
	err   error
}

func NewCached(next Oracle) *Cached {
	return &Cached{next: next, cache: make(map[cacheKey]cacheEntry)}
}

func (c *Cached) Price(ctx context.Context, asset string, t time.Time) (decimal.Decimal, error) {
	key := cacheKey{asset: asset, day: t.UTC().Format("2006-01-02")}
	if e, ok := c.cache[key]; ok {
		return e.price, e.err
	}
	p, err := c.next.Price(ctx, asset, t)
	// Negative results are cached too; a missing day stays missing for the
	// duration of the run.
	c.cache[key] = cacheEntry{price: p, err: err}
	return p, err
}
