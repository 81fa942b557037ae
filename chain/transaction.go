package chain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Direction tells whether value moved into or out of the analyzed wallet.
type Direction int

const (
	DirectionIn Direction = iota + 1
	DirectionOut
)

func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "in"
	case DirectionOut:
		return "out"
	}
	return "unknown"
}

// Transaction is one normalized transfer from a wallet's history. The
// upstream pollers own fetching and normalization; the engine only consumes.
type Transaction struct {
	Hash         string
	Time         time.Time
	BlockIndex   int64
	LogIndex     int64
	Asset        string
	Amount       decimal.Decimal // always positive; Direction carries the sign
	Direction    Direction
	Counterparty string
	GasFee       decimal.Decimal // native-asset units, zero when unknown
	Category     Category        // CategoryUnset unless assigned
}

// SortTransactions orders a history for deterministic lot consumption:
// block time first, chain position (block index, then log index) on ties.
func SortTransactions(txs []Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		a, b := txs[i], txs[j]
		if !a.Time.Equal(b.Time) {
			return a.Time.Before(b.Time)
		}
		if a.BlockIndex != b.BlockIndex {
			return a.BlockIndex < b.BlockIndex
		}
		return a.LogIndex < b.LogIndex
	})
}
