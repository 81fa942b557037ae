// Package engine runs the single-pass FIFO matcher over a sorted
// transaction stream: acquisitions open lots, disposals consume the oldest
// lots first and emit realized-gain records.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rustyeddy/taxledger/chain"
	"github.com/rustyeddy/taxledger/classify"
	"github.com/rustyeddy/taxledger/ledger"
	"github.com/rustyeddy/taxledger/pkg/id"
	"github.com/rustyeddy/taxledger/pricing"
)

// Warning is a recoverable per-transaction diagnostic. Warnings accompany
// whatever results were computable instead of failing the run; incomplete
// on-chain history is expected, not exceptional.
type Warning struct {
	TxHash string
	Asset  string
	Err    error
}

func (w Warning) String() string {
	return fmt.Sprintf("%s (%s): %v", w.Asset, w.TxHash, w.Err)
}

// Result is everything one run produced. The ledger is the live remaining
// state; callers value it for unrealized positions.
type Result struct {
	Gains    []classify.RealizedGain
	Warnings []Warning
	Flows    FlowStats
	Ledger   *ledger.Ledger
}

// Engine is single-use and single-goroutine: one instance per
// (wallet, chain) run, never shared. Concurrent analyses each build their
// own engine and ledger.
type Engine struct {
	oracle pricing.Oracle
	policy Policy
	log    *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) { e.log = log }
}

func New(oracle pricing.Oracle, policy Policy, opts ...Option) *Engine {
	e := &Engine{
		oracle: oracle,
		policy: policy,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Process consumes the history in one pass and returns the realized gains,
// remaining ledger and warnings. The input is re-sorted defensively; the
// sort is stable so equal keys keep their original chain order.
//
// Cancellation is honored between transactions only. A lot mutation is an
// atomic step, so an aborted run never leaves a half-applied disposal.
func (e *Engine) Process(ctx context.Context, txs []chain.Transaction) (*Result, error) {
	sorted := make([]chain.Transaction, len(txs))
	copy(sorted, txs)
	chain.SortTransactions(sorted)

	res := &Result{
		Flows:  newFlowStats(),
		Ledger: ledger.New(),
	}

	for _, tx := range sorted {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("analysis aborted: %w", err)
		}

		category := tx.Category
		if category == chain.CategoryUnset {
			category = chain.DefaultCategory(tx.Direction)
		}
		res.Flows.add(tx, category)

		if tx.Amount.IsZero() || category == chain.CategoryFee {
			// Fee-only and zero-value transactions never touch lots; the
			// flow stats already captured them.
			continue
		}

		var err error
		switch tx.Direction {
		case chain.DirectionIn:
			err = e.acquire(ctx, res, tx, category)
		case chain.DirectionOut:
			err = e.dispose(ctx, res, tx, category)
		default:
			res.Warnings = append(res.Warnings, Warning{
				TxHash: tx.Hash,
				Asset:  tx.Asset,
				Err:    fmt.Errorf("unknown direction %d", tx.Direction),
			})
		}
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (e *Engine) acquire(ctx context.Context, res *Result, tx chain.Transaction, category chain.Category) error {
	if e.policy.NonTaxableAcquisitions[category] {
		e.log.Debug("acquisition excluded by policy",
			zap.String("tx", tx.Hash), zap.String("category", string(category)))
		return nil
	}

	quote, err := pricing.Resolve(ctx, e.oracle, tx.Asset, tx.Time, e.policy.fallback(tx.Asset))
	if err != nil {
		return fmt.Errorf("price %s at %s: %w", tx.Asset, tx.Time, err)
	}
	amount := tx.Amount.Round(chain.Precision(tx.Asset))
	res.Ledger.OpenLot(tx.Asset, amount, quote.Price, tx.Time, tx.Hash, quote.Estimated)

	e.log.Debug("lot opened",
		zap.String("asset", tx.Asset),
		zap.String("amount", amount.String()),
		zap.String("unit_cost", quote.Price.String()),
		zap.Bool("estimated", quote.Estimated))
	return nil
}

func (e *Engine) dispose(ctx context.Context, res *Result, tx chain.Transaction, category chain.Category) error {
	if e.policy.NonTaxableDisposals[category] {
		e.log.Debug("disposal excluded by policy",
			zap.String("tx", tx.Hash), zap.String("category", string(category)))
		return nil
	}

	quote, err := pricing.Resolve(ctx, e.oracle, tx.Asset, tx.Time, e.policy.fallback(tx.Asset))
	if err != nil {
		return fmt.Errorf("price %s at %s: %w", tx.Asset, tx.Time, err)
	}

	amount := tx.Amount.Round(chain.Precision(tx.Asset))
	consumed, err := res.Ledger.Consume(tx.Asset, amount)

	var insufficient *ledger.InsufficientLotsError
	if errors.As(err, &insufficient) {
		// Match whatever lots exist and surface the excess as a warning;
		// one asset's broken history must not sink the whole run.
		res.Warnings = append(res.Warnings, Warning{TxHash: tx.Hash, Asset: tx.Asset, Err: err})
		e.log.Warn("disposal exceeds known acquisitions",
			zap.String("asset", tx.Asset),
			zap.String("requested", insufficient.Requested.String()),
			zap.String("available", insufficient.Available.String()))

		if insufficient.Available.IsZero() {
			return nil
		}
		consumed, err = res.Ledger.Consume(tx.Asset, insufficient.Available)
	}
	if err != nil {
		return fmt.Errorf("consume %s: %w", tx.Asset, err)
	}

	for _, c := range consumed {
		res.Gains = append(res.Gains, e.realize(tx, c, quote))
	}
	return nil
}

func (e *Engine) realize(tx chain.Transaction, c ledger.Consumption, quote pricing.Quote) classify.RealizedGain {
	proceeds := c.Amount.Mul(quote.Price)
	costBasis := c.Amount.Mul(c.Lot.UnitCost)
	gain := proceeds.Sub(costBasis)

	rec := classify.RealizedGain{
		ID:         id.New(),
		Asset:      tx.Asset,
		Amount:     c.Amount,
		AcquiredAt: c.Lot.AcquiredAt,
		DisposedAt: tx.Time,
		CostBasis:  costBasis,
		Proceeds:   proceeds,
		Gain:       gain,
		Term:       classify.TermOf(c.Lot.AcquiredAt, tx.Time, e.policy.threshold()),
		BuyHash:    c.Lot.TxHash,
		SellHash:   tx.Hash,
		Estimated:  quote.Estimated || c.Lot.Estimated,
	}

	e.log.Debug("gain realized",
		zap.String("asset", rec.Asset),
		zap.String("amount", rec.Amount.String()),
		zap.String("gain", rec.Gain.String()),
		zap.String("term", string(rec.Term)))
	return rec
}

// CurrentPrices resolves the present value of every asset still open in the
// ledger, for unrealized valuation. Assets the oracle cannot price fall
// back per policy.
func (e *Engine) CurrentPrices(ctx context.Context, l *ledger.Ledger, now time.Time) (map[string]decimal.Decimal, error) {
	prices := make(map[string]decimal.Decimal)
	for _, asset := range l.Assets() {
		quote, err := pricing.Resolve(ctx, e.oracle, asset, now, e.policy.fallback(asset))
		if err != nil {
			return nil, fmt.Errorf("current price %s: %w", asset, err)
		}
		prices[asset] = quote.Price
	}
	return prices, nil
}
