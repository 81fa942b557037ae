package analysis

import (
	"context"
	"sort"
	"sync"

	"github.com/rustyeddy/taxledger/classify"
)

// MultiResult joins the fan-out: one report per chain that completed, one
// error per chain that did not, and the combined summary of the successes.
type MultiResult struct {
	Reports   []*Report
	Failed    map[string]error // keyed by chain name
	Aggregate classify.Summary
}

// MultiChain runs every request concurrently. Each run owns its ledger and
// price cache, so the only shared piece is the oracle, which callers
// throttle when the upstream rate-limits. One chain failing does not stop
// the others; its error lands in Failed.
func (a *Analyzer) MultiChain(ctx context.Context, reqs []Request) *MultiResult {
	type outcome struct {
		chainName string
		rep       *Report
		err       error
	}

	out := make(chan outcome, len(reqs))
	var wg sync.WaitGroup
	for _, req := range reqs {
		wg.Add(1)
		go func(req Request) {
			defer wg.Done()
			rep, err := a.Run(ctx, req)
			out <- outcome{chainName: req.Chain, rep: rep, err: err}
		}(req)
	}
	wg.Wait()
	close(out)

	res := &MultiResult{Failed: make(map[string]error)}
	for o := range out {
		if o.err != nil {
			res.Failed[o.chainName] = o.err
			continue
		}
		res.Reports = append(res.Reports, o.rep)
	}
	sort.Slice(res.Reports, func(i, j int) bool { return res.Reports[i].Chain < res.Reports[j].Chain })

	res.Aggregate = aggregate(res.Reports)
	return res
}

func aggregate(reports []*Report) classify.Summary {
	agg := classify.Summary{Method: "FIFO"}
	for _, r := range reports {
		s := r.Summary
		agg.TotalRealizedGain = agg.TotalRealizedGain.Add(s.TotalRealizedGain)
		agg.ShortTermGains = agg.ShortTermGains.Add(s.ShortTermGains)
		agg.LongTermGains = agg.LongTermGains.Add(s.LongTermGains)
		agg.TotalUnrealized = agg.TotalUnrealized.Add(s.TotalUnrealized)
		agg.RemainingCostBasis = agg.RemainingCostBasis.Add(s.RemainingCostBasis)
		agg.SellCount += s.SellCount
		agg.EstimatedRecords += s.EstimatedRecords
	}
	return agg
}
