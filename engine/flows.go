package engine

import (
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/taxledger/chain"
)

// FlowStats aggregates wallet flows over a history, independent of tax
// treatment: every transaction counts here even when its category excludes
// it from lot matching.
type FlowStats struct {
	SentByAsset     map[string]decimal.Decimal
	ReceivedByAsset map[string]decimal.Decimal
	FeesByAsset     map[string]decimal.Decimal // fee-category transactions
	TotalGasFees    decimal.Decimal            // native-asset gas across the run
	SentCount       int
	ReceivedCount   int
}

func newFlowStats() FlowStats {
	return FlowStats{
		SentByAsset:     make(map[string]decimal.Decimal),
		ReceivedByAsset: make(map[string]decimal.Decimal),
		FeesByAsset:     make(map[string]decimal.Decimal),
	}
}

func (f *FlowStats) add(tx chain.Transaction, category chain.Category) {
	f.TotalGasFees = f.TotalGasFees.Add(tx.GasFee)
	if category == chain.CategoryFee {
		f.FeesByAsset[tx.Asset] = f.FeesByAsset[tx.Asset].Add(tx.Amount)
	}
	switch tx.Direction {
	case chain.DirectionIn:
		f.ReceivedByAsset[tx.Asset] = f.ReceivedByAsset[tx.Asset].Add(tx.Amount)
		f.ReceivedCount++
	case chain.DirectionOut:
		f.SentByAsset[tx.Asset] = f.SentByAsset[tx.Asset].Add(tx.Amount)
		f.SentCount++
	}
}

// Net is received minus sent for one asset.
func (f FlowStats) Net(asset string) decimal.Decimal {
	return f.ReceivedByAsset[asset].Sub(f.SentByAsset[asset])
}
