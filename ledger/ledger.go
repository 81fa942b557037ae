// Package ledger tracks acquisition lots per asset and consumes them in
// FIFO order. One Ledger belongs to exactly one (wallet, chain) analysis
// run; runs never share a Ledger.
package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Lot is a discrete acquisition of an asset, held until fully disposed.
type Lot struct {
	Asset      string
	Remaining  decimal.Decimal
	UnitCost   decimal.Decimal // USD per unit at acquisition
	AcquiredAt time.Time
	TxHash     string
	Estimated  bool // unit cost came from a fallback price
}

// CostBasis is the USD cost of what remains in the lot.
func (l Lot) CostBasis() decimal.Decimal {
	return l.Remaining.Mul(l.UnitCost)
}

// Consumption records how much of a single lot a disposal used.
type Consumption struct {
	Lot    Lot // snapshot of the lot before this consumption
	Amount decimal.Decimal
}

// InsufficientLotsError reports a disposal that exceeds the known
// acquisitions for an asset. It signals incomplete history (an externally
// funded wallet, missing transactions) and is surfaced rather than clamped.
type InsufficientLotsError struct {
	Asset     string
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientLotsError) Error() string {
	return fmt.Sprintf("insufficient lots for %s: requested %s, available %s",
		e.Asset, e.Requested, e.Available)
}

// Ledger holds the open-lot queues, one FIFO queue per asset.
type Ledger struct {
	lots map[string][]*Lot
}

func New() *Ledger {
	return &Ledger{lots: make(map[string][]*Lot)}
}

// OpenLot appends a new lot at the tail of the asset's queue. The stream is
// processed in chronological order, so appending keeps the queue sorted by
// acquisition time.
func (l *Ledger) OpenLot(asset string, amount, unitCost decimal.Decimal, acquiredAt time.Time, txHash string, estimated bool) {
	l.lots[asset] = append(l.lots[asset], &Lot{
		Asset:      asset,
		Remaining:  amount,
		UnitCost:   unitCost,
		AcquiredAt: acquiredAt,
		TxHash:     txHash,
		Estimated:  estimated,
	})
}

// Consume removes amount from the head of the asset's queue, oldest lot
// first, spanning lots as needed. It returns one Consumption per lot
// touched. On insufficient balance nothing is consumed and an
// *InsufficientLotsError is returned, so the ledger never holds a partially
// applied disposal.
func (l *Ledger) Consume(asset string, amount decimal.Decimal) ([]Consumption, error) {
	if avail := l.Balance(asset); avail.LessThan(amount) {
		return nil, &InsufficientLotsError{Asset: asset, Requested: amount, Available: avail}
	}

	var used []Consumption
	queue := l.lots[asset]
	remaining := amount

	for len(queue) > 0 && remaining.IsPositive() {
		head := queue[0]
		take := decimal.Min(head.Remaining, remaining)
		used = append(used, Consumption{Lot: *head, Amount: take})

		head.Remaining = head.Remaining.Sub(take)
		remaining = remaining.Sub(take)
		if head.Remaining.IsZero() {
			queue = queue[1:]
		}
	}
	l.lots[asset] = queue
	return used, nil
}

// Balance is the total remaining amount across the asset's open lots.
func (l *Ledger) Balance(asset string) decimal.Decimal {
	total := decimal.Zero
	for _, lot := range l.lots[asset] {
		total = total.Add(lot.Remaining)
	}
	return total
}

// Lots returns copies of the open lots for asset, oldest first.
func (l *Ledger) Lots(asset string) []Lot {
	out := make([]Lot, 0, len(l.lots[asset]))
	for _, lot := range l.lots[asset] {
		out = append(out, *lot)
	}
	return out
}

// Assets lists the assets with at least one open lot, sorted for
// deterministic iteration.
func (l *Ledger) Assets() []string {
	var out []string
	for asset, lots := range l.lots {
		if len(lots) > 0 {
			out = append(out, asset)
		}
	}
	sort.Strings(out)
	return out
}

// AllLots returns every open lot across assets, grouped by asset in
// Assets() order.
func (l *Ledger) AllLots() []Lot {
	var out []Lot
	for _, asset := range l.Assets() {
		out = append(out, l.Lots(asset)...)
	}
	return out
}
