package costbasis

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// longTermDays is the holding-period boundary: a disposal held for at most
// this many whole days is short-term. Fixed policy, not configurable.
const longTermDays = 365

// ErrOversell is returned when a disposal exceeds the asset's remaining
// inventory. Options.AllowOversell downgrades it to a logged truncation.
var ErrOversell = errors.New("disposal exceeds remaining inventory")

// Lot is a discrete quantity of one asset acquired at a specific time and
// cost. Invariants: 0 <= Remaining <= Original, and TotalCost equals
// Remaining times CostBasis after any split. A lot is destroyed once its
// remaining amount reaches zero.
type Lot struct {
	ID         string          `json:"id"`
	AcquiredAt time.Time       `json:"acquiredAt"`
	Remaining  decimal.Decimal `json:"remaining"`
	Original   decimal.Decimal `json:"original"`
	CostBasis  decimal.Decimal `json:"costBasis"` // per unit
	TotalCost  decimal.Decimal `json:"totalCost"`
	Exchange   string          `json:"exchange,omitempty"`
}

// consumption is one slice taken from a single lot during a disposal.
type consumption struct {
	lot    Lot             // state of the lot before consumption
	amount decimal.Decimal // amount taken from it
	cost   decimal.Decimal // cost basis attributed to that amount
}

// consumeFunc consumes amount from an asset's open lots per one accounting
// convention, returning the slices taken and the surviving lots. Callers
// guarantee amount is positive and covered by the open lots.
type consumeFunc func(symbol string, open []Lot, amount decimal.Decimal) ([]consumption, []Lot)

// consumeFIFO consumes the oldest lots first.
func consumeFIFO(_ string, open []Lot, amount decimal.Decimal) ([]consumption, []Lot) {
	return consumeInOrder(sortedByAcquisition(open, false), amount)
}

// consumeLIFO consumes the newest lots first.
func consumeLIFO(_ string, open []Lot, amount decimal.Decimal) ([]consumption, []Lot) {
	return consumeInOrder(sortedByAcquisition(open, true), amount)
}

// consumeInOrder walks the ordered lots taking from each until the amount is
// covered. A partially consumed lot keeps its id, date and unit cost with the
// remaining amount reduced and total cost recomputed.
func consumeInOrder(ordered []Lot, amount decimal.Decimal) ([]consumption, []Lot) {
	var taken []consumption
	var survivors []Lot
	for _, l := range ordered {
		if !amount.IsPositive() {
			survivors = append(survivors, l)
			continue
		}
		if l.Remaining.GreaterThan(amount) {
			// Partial consumption: split the lot.
			taken = append(taken, consumption{lot: l, amount: amount, cost: l.CostBasis.Mul(amount)})
			l.Remaining = l.Remaining.Sub(amount)
			l.TotalCost = l.Remaining.Mul(l.CostBasis)
			survivors = append(survivors, l)
			amount = decimal.Zero
		} else {
			// Full consumption: the lot is destroyed.
			taken = append(taken, consumption{lot: l, amount: l.Remaining, cost: l.TotalCost})
			amount = amount.Sub(l.Remaining)
		}
	}
	return taken, survivors
}

// consumeAverage collapses all open lots into a single weighted-average lot,
// consumes the amount at that average, and leaves the remainder as one
// synthetic lot. The synthetic lot is dated to the EARLIEST pre-collapse
// acquisition so holding-period continuity survives the collapse; this is an
// intentional policy, see docs/methods.md.
func consumeAverage(symbol string, open []Lot, amount decimal.Decimal) ([]consumption, []Lot) {
	totalAmount := decimal.Zero
	totalCost := decimal.Zero
	earliest := open[0].AcquiredAt
	for _, l := range open {
		totalAmount = totalAmount.Add(l.Remaining)
		totalCost = totalCost.Add(l.TotalCost)
		if l.AcquiredAt.Before(earliest) {
			earliest = l.AcquiredAt
		}
	}
	average := totalCost.Div(totalAmount)
	collapsed := Lot{
		ID:         syntheticLotID(symbol, earliest),
		AcquiredAt: earliest,
		Remaining:  totalAmount,
		Original:   totalAmount,
		CostBasis:  average,
		TotalCost:  totalCost,
	}

	taken := consumption{
		lot:    collapsed,
		amount: amount,
		cost:   totalCost.Mul(amount).Div(totalAmount),
	}

	remaining := totalAmount.Sub(amount)
	if !remaining.IsPositive() {
		return []consumption{taken}, nil
	}
	survivor := collapsed
	survivor.Remaining = remaining
	survivor.Original = remaining
	survivor.TotalCost = average.Mul(remaining)
	return []consumption{taken}, []Lot{survivor}
}

// syntheticLotID derives a stable identifier for an average-cost lot. It must
// be deterministic: identical inputs yield bit-identical results.
func syntheticLotID(symbol string, earliest time.Time) string {
	return fmt.Sprintf("%s-AVG-%s", symbol, earliest.UTC().Format("20060102"))
}

// sortedByAcquisition returns a copy of the lots ordered by acquisition date.
// The sort is stable so same-day lots keep insertion order.
func sortedByAcquisition(open []Lot, newestFirst bool) []Lot {
	ordered := make([]Lot, len(open))
	copy(ordered, open)
	sort.SliceStable(ordered, func(i, j int) bool {
		if newestFirst {
			return ordered[j].AcquiredAt.Before(ordered[i].AcquiredAt)
		}
		return ordered[i].AcquiredAt.Before(ordered[j].AcquiredAt)
	})
	return ordered
}

// holdingDays returns the elapsed whole days (floored) between acquisition
// and disposal.
func holdingDays(acquired, disposed time.Time) int {
	return int(disposed.Sub(acquired) / (24 * time.Hour))
}

// lotBook holds the open lots of every asset, keyed by normalized symbol.
// It is the accumulator threaded through the chronological transaction fold.
type lotBook map[string][]Lot

// acquire appends a new lot for an acquisition transaction. The cost basis is
// the unit price, zero when the price is unknown. A zero-amount acquisition
// (legal input, and what a degraded numeric field parses to) opens no lot:
// an empty lot would be consumed by the next disposal and emit a spurious
// zero-amount event.
func (b lotBook) acquire(tx Transaction) {
	if !tx.Amount.IsPositive() {
		return
	}
	symbol := tx.Symbol()
	b[symbol] = append(b[symbol], Lot{
		ID:         tx.ID,
		AcquiredAt: tx.Date,
		Remaining:  tx.Amount,
		Original:   tx.Amount,
		CostBasis:  tx.Price,
		TotalCost:  tx.Amount.Mul(tx.Price),
		Exchange:   tx.Exchange,
	})
}

// dispose matches one disposal transaction against the asset's open lots and
// emits one DisposalEvent per lot touched. The transaction's total proceeds
// are apportioned pro-rata over the amount consumed from each lot.
func (b lotBook) dispose(tx Transaction, consume consumeFunc, allowOversell bool) ([]DisposalEvent, error) {
	symbol := tx.Symbol()
	amount := tx.Amount
	if !amount.IsPositive() {
		return nil, nil
	}

	open := b[symbol]
	available := decimal.Zero
	for _, l := range open {
		available = available.Add(l.Remaining)
	}
	if amount.GreaterThan(available) {
		if !allowOversell {
			return nil, fmt.Errorf("%w: %s disposes %s but only %s held (transaction %s)",
				ErrOversell, symbol, amount, available, tx.ID)
		}
		slog.Warn("disposal exceeds remaining inventory, truncating",
			"asset", symbol, "transaction", tx.ID,
			"requested", amount.String(), "available", available.String())
		amount = available
	}
	if !amount.IsPositive() {
		return nil, nil
	}

	taken, survivors := consume(symbol, open, amount)
	b[symbol] = survivors

	perUnit := tx.Proceeds().Div(tx.Amount)
	events := make([]DisposalEvent, 0, len(taken))
	for _, c := range taken {
		days := holdingDays(c.lot.AcquiredAt, tx.Date)
		proceeds := perUnit.Mul(c.amount)
		events = append(events, DisposalEvent{
			TransactionID: tx.ID,
			Date:          tx.Date,
			Asset:         symbol,
			Amount:        c.amount,
			Proceeds:      proceeds,
			CostBasis:     c.cost,
			GainLoss:      proceeds.Sub(c.cost),
			ShortTerm:     days <= longTermDays,
			HoldingDays:   days,
			LotID:         c.lot.ID,
			Exchange:      tx.Exchange,
		})
	}
	return events, nil
}
