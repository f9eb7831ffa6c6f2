package costbasis

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// AssetHolding is the terminal state of one asset's lot ledger: what the
// investor still holds once the full history has been folded. Valuation
// fields are present only when the caller supplied a price for the asset.
type AssetHolding struct {
	Asset               string           `json:"asset"`
	Amount              decimal.Decimal  `json:"amount"`
	AverageCost         decimal.Decimal  `json:"averageCost"`
	TotalCostBasis      decimal.Decimal  `json:"totalCostBasis"`
	EarliestAcquisition time.Time        `json:"earliestAcquisition"`
	LatestAcquisition   time.Time        `json:"latestAcquisition"`
	Lots                []Lot            `json:"lots"`
	CurrentPrice        *decimal.Decimal `json:"currentPrice,omitempty"`
	CurrentValue        *decimal.Decimal `json:"currentValue,omitempty"`
	UnrealizedGainLoss  *decimal.Decimal `json:"unrealizedGainLoss,omitempty"`
}

// buildHoldings reads the terminal lot book into a reportable view, sorted by
// symbol. Assets with nothing remaining are excluded.
func buildHoldings(book lotBook, prices PriceMap) []AssetHolding {
	symbols := make([]string, 0, len(book))
	for symbol := range book {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	var holdings []AssetHolding
	for _, symbol := range symbols {
		open := book[symbol]
		if len(open) == 0 {
			continue
		}
		h := AssetHolding{
			Asset:               symbol,
			EarliestAcquisition: open[0].AcquiredAt,
			LatestAcquisition:   open[0].AcquiredAt,
			Lots:                sortedByAcquisition(open, false),
		}
		for _, l := range open {
			h.Amount = h.Amount.Add(l.Remaining)
			h.TotalCostBasis = h.TotalCostBasis.Add(l.TotalCost)
			if l.AcquiredAt.Before(h.EarliestAcquisition) {
				h.EarliestAcquisition = l.AcquiredAt
			}
			if l.AcquiredAt.After(h.LatestAcquisition) {
				h.LatestAcquisition = l.AcquiredAt
			}
		}
		if !h.Amount.IsPositive() {
			continue
		}
		h.AverageCost = h.TotalCostBasis.Div(h.Amount)

		if price, ok := prices.Lookup(symbol); ok {
			value := h.Amount.Mul(price)
			unrealized := value.Sub(h.TotalCostBasis)
			h.CurrentPrice = &price
			h.CurrentValue = &value
			h.UnrealizedGainLoss = &unrealized
		}
		holdings = append(holdings, h)
	}
	return holdings
}
