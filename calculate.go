package costbasis

import (
	"fmt"
)

// Options tunes a single computation. The zero value reports the whole
// history, performs no valuation, and rejects oversells.
type Options struct {
	// Window restricts which disposal events appear in the report. It never
	// restricts which transactions mutate lot state: the complete history is
	// always folded so in-window cost bases stay correct.
	Window Range
	// Prices optionally values the remaining holdings.
	Prices PriceMap
	// AllowOversell truncates a disposal exceeding the remaining inventory
	// to what is available (with a logged warning) instead of returning
	// ErrOversell.
	AllowOversell bool
}

// Calculate runs the engine over the complete transaction history and
// returns the Result envelope. The input slice is not mutated; identical
// inputs produce bit-identical results.
//
// The ledger must be complete. See the package documentation for the caller
// contract on date-range filtering.
func Calculate(txs []Transaction, method CostBasisMethod, opts Options) (*Result, error) {
	consume, err := method.consumer()
	if err != nil {
		return nil, err
	}
	for i, tx := range txs {
		if err := tx.Validate(); err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
	}

	ledger := sortedByDate(txs)
	book := make(lotBook)
	var events []DisposalEvent
	for _, tx := range ledger {
		switch {
		case tx.Type.IsAcquisition():
			book.acquire(tx)
		case tx.Type.IsDisposal():
			evs, err := book.dispose(tx, consume, opts.AllowOversell)
			if err != nil {
				return nil, err
			}
			events = append(events, evs...)
		}
		// Every other type leaves the lot pool untouched.
	}

	reported := events
	if !opts.Window.IsZero() {
		reported = make([]DisposalEvent, 0, len(events))
		for _, e := range events {
			if opts.Window.Contains(e.Date) {
				reported = append(reported, e)
			}
		}
	}

	assets, summary := aggregateGains(reported)
	return &Result{
		Method:    method,
		Period:    effectivePeriod(opts.Window, ledger),
		Summary:   summary,
		Assets:    assets,
		Holdings:  buildHoldings(book, opts.Prices.normalized()),
		Disposals: reported,
	}, nil
}

// effectivePeriod is the requested window, or the ledger's own span when no
// window was asked for.
func effectivePeriod(window Range, ledger []Transaction) Range {
	if !window.IsZero() || len(ledger) == 0 {
		return window
	}
	return Range{From: ledger[0].Date, To: ledger[len(ledger)-1].Date}
}
