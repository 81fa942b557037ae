package pricing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/ratelimit"
)

// Throttled caps the rate of oracle calls. Public price APIs enforce tight
// request budgets; sharing one Throttled instance across concurrent chain
// analyses keeps the aggregate rate under the upstream limit.
type Throttled struct {
	next    Oracle
	limiter ratelimit.Limiter
}

func NewThrottled(next Oracle, perSecond int) *Throttled {
	return &Throttled{
		next:    next,
		limiter: ratelimit.New(perSecond),
	}
}

func (t *Throttled) Price(ctx context.Context, asset string, at time.Time) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Decimal{}, err
	}
	t.limiter.Take()
	return t.next.Price(ctx, asset, at)
}
