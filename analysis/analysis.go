// Package analysis wires the pipeline together: category overrides, FIFO
// matching, classification and summary for one (wallet, chain) history, and
// the concurrent fan-out across chains.
package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rustyeddy/taxledger/chain"
	"github.com/rustyeddy/taxledger/classify"
	"github.com/rustyeddy/taxledger/engine"
	"github.com/rustyeddy/taxledger/journal"
	"github.com/rustyeddy/taxledger/pricing"
	"github.com/rustyeddy/taxledger/rules"
)

// Request is one (wallet, chain) history to analyze. Transactions need not
// be pre-sorted; the engine orders them deterministically.
type Request struct {
	Wallet       string
	Chain        string
	Transactions []chain.Transaction
	Overrides    map[string]chain.Category // user-assigned categories by tx hash
	AsOf         time.Time                 // valuation time for unrealized gains; zero means now
}

// Report is the full output of one run.
type Report struct {
	RunID     string
	Wallet    string
	Chain     string
	StartedAt time.Time
	Summary   classify.Summary
	Gains     []classify.RealizedGain
	Positions []classify.UnrealizedPosition
	Flows     engine.FlowStats
	Warnings  []engine.Warning
}

// Analyzer runs analyses against a shared oracle and policy. The analyzer
// itself is stateless across runs; every run gets its own engine, ledger
// and price cache, so concurrent runs never share mutable state.
type Analyzer struct {
	oracle  pricing.Oracle
	policy  engine.Policy
	journal journal.Journal // nil disables persistence
	log     *zap.Logger
}

type Option func(*Analyzer)

func WithJournal(j journal.Journal) Option {
	return func(a *Analyzer) { a.journal = j }
}

func WithLogger(log *zap.Logger) Option {
	return func(a *Analyzer) { a.log = log }
}

func New(oracle pricing.Oracle, policy engine.Policy, opts ...Option) *Analyzer {
	a := &Analyzer{
		oracle: oracle,
		policy: policy,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run analyzes one history. An empty history is not an error: it produces a
// zero-valued report. Per-asset inconsistencies surface as warnings on the
// report, never as a failed run.
func (a *Analyzer) Run(ctx context.Context, req Request) (*Report, error) {
	startedAt := time.Now().UTC()
	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = startedAt
	}

	txs := rules.Apply(req.Transactions, req.Overrides)

	eng := engine.New(pricing.NewCached(a.oracle), a.policy, engine.WithLogger(a.log))
	res, err := eng.Process(ctx, txs)
	if err != nil {
		return nil, fmt.Errorf("analyze %s/%s: %w", req.Chain, req.Wallet, err)
	}

	prices, err := eng.CurrentPrices(ctx, res.Ledger, asOf)
	if err != nil {
		return nil, fmt.Errorf("analyze %s/%s: %w", req.Chain, req.Wallet, err)
	}
	positions := classify.Positions(res.Ledger, prices)

	rep := &Report{
		RunID:     uuid.NewString(),
		Wallet:    req.Wallet,
		Chain:     req.Chain,
		StartedAt: startedAt,
		Summary:   classify.Summarize(res.Gains, positions),
		Gains:     res.Gains,
		Positions: positions,
		Flows:     res.Flows,
		Warnings:  res.Warnings,
	}

	a.log.Info("analysis complete",
		zap.String("run_id", rep.RunID),
		zap.String("wallet", rep.Wallet),
		zap.String("chain", rep.Chain),
		zap.Int("gains", len(rep.Gains)),
		zap.Int("warnings", len(rep.Warnings)))

	if a.journal != nil {
		if err := a.record(rep); err != nil {
			return nil, fmt.Errorf("journal run %s: %w", rep.RunID, err)
		}
	}
	return rep, nil
}

func (a *Analyzer) record(rep *Report) error {
	err := a.journal.RecordRun(journal.RunRecord{
		RunID:         rep.RunID,
		Wallet:        rep.Wallet,
		Chain:         rep.Chain,
		StartedAt:     rep.StartedAt,
		TotalRealized: rep.Summary.TotalRealizedGain,
		ShortTerm:     rep.Summary.ShortTermGains,
		LongTerm:      rep.Summary.LongTermGains,
		Unrealized:    rep.Summary.TotalUnrealized,
		SellCount:     rep.Summary.SellCount,
		WarningCount:  len(rep.Warnings),
	})
	if err != nil {
		return err
	}
	for _, g := range rep.Gains {
		if err := a.journal.RecordGain(journal.GainRecord{RunID: rep.RunID, RealizedGain: g}); err != nil {
			return err
		}
	}
	return nil
}
