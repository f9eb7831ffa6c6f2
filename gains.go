package costbasis

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DisposalEvent records the part of one disposal matched against a single
// lot. A FIFO or LIFO disposal spanning several lots yields several events;
// an average-cost disposal always yields exactly one. Immutable once created.
type DisposalEvent struct {
	TransactionID string          `json:"transactionId"`
	Date          time.Time       `json:"date"`
	Asset         string          `json:"asset"`
	Amount        decimal.Decimal `json:"amount"`
	Proceeds      decimal.Decimal `json:"proceeds"`
	CostBasis     decimal.Decimal `json:"costBasis"`
	GainLoss      decimal.Decimal `json:"gainLoss"`
	ShortTerm     bool            `json:"shortTerm"`
	HoldingDays   int             `json:"holdingPeriodDays"`
	LotID         string          `json:"lotId"`
	Exchange      string          `json:"exchange,omitempty"`
}

// Term renders the holding-period classification for reports.
func (e DisposalEvent) Term() string {
	if e.ShortTerm {
		return "Short"
	}
	return "Long"
}

// AssetGains aggregates every reported disposal event of one asset. Losses
// are carried as positive magnitudes; NetGainLoss is gains minus losses.
type AssetGains struct {
	Asset          string          `json:"asset"`
	TotalGain      decimal.Decimal `json:"totalGain"`
	TotalLoss      decimal.Decimal `json:"totalLoss"`
	NetGainLoss    decimal.Decimal `json:"netGainLoss"`
	ShortTermGain  decimal.Decimal `json:"shortTermGain"`
	ShortTermLoss  decimal.Decimal `json:"shortTermLoss"`
	LongTermGain   decimal.Decimal `json:"longTermGain"`
	LongTermLoss   decimal.Decimal `json:"longTermLoss"`
	TotalProceeds  decimal.Decimal `json:"totalProceeds"`
	TotalCostBasis decimal.Decimal `json:"totalCostBasis"`
	DisposalCount  int             `json:"disposalCount"`
	Events         []DisposalEvent `json:"events"`
}

// add folds one event into the aggregate. The short/long bucket comes from
// the event's own flag; no re-derivation happens here.
func (g *AssetGains) add(e DisposalEvent) {
	g.TotalProceeds = g.TotalProceeds.Add(e.Proceeds)
	g.TotalCostBasis = g.TotalCostBasis.Add(e.CostBasis)
	g.NetGainLoss = g.NetGainLoss.Add(e.GainLoss)
	g.DisposalCount++
	g.Events = append(g.Events, e)

	if e.GainLoss.IsNegative() {
		loss := e.GainLoss.Neg()
		g.TotalLoss = g.TotalLoss.Add(loss)
		if e.ShortTerm {
			g.ShortTermLoss = g.ShortTermLoss.Add(loss)
		} else {
			g.LongTermLoss = g.LongTermLoss.Add(loss)
		}
		return
	}
	g.TotalGain = g.TotalGain.Add(e.GainLoss)
	if e.ShortTerm {
		g.ShortTermGain = g.ShortTermGain.Add(e.GainLoss)
	} else {
		g.LongTermGain = g.LongTermGain.Add(e.GainLoss)
	}
}

// PortfolioSummary is the portfolio-level rollup: the field-wise sum of every
// per-asset aggregate.
type PortfolioSummary struct {
	TotalGain      decimal.Decimal `json:"totalGain"`
	TotalLoss      decimal.Decimal `json:"totalLoss"`
	NetGainLoss    decimal.Decimal `json:"netGainLoss"`
	ShortTermGain  decimal.Decimal `json:"shortTermGain"`
	ShortTermLoss  decimal.Decimal `json:"shortTermLoss"`
	LongTermGain   decimal.Decimal `json:"longTermGain"`
	LongTermLoss   decimal.Decimal `json:"longTermLoss"`
	TotalProceeds  decimal.Decimal `json:"totalProceeds"`
	TotalCostBasis decimal.Decimal `json:"totalCostBasis"`
	DisposalCount  int             `json:"disposalCount"`
	AssetCount     int             `json:"assetCount"`
}

// aggregateGains rolls the reported disposal events into one AssetGains per
// asset (sorted by symbol for deterministic output) plus the portfolio total.
func aggregateGains(events []DisposalEvent) ([]AssetGains, PortfolioSummary) {
	byAsset := make(map[string]*AssetGains)
	for _, e := range events {
		g, ok := byAsset[e.Asset]
		if !ok {
			g = &AssetGains{Asset: e.Asset}
			byAsset[e.Asset] = g
		}
		g.add(e)
	}

	symbols := make([]string, 0, len(byAsset))
	for symbol := range byAsset {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	assets := make([]AssetGains, 0, len(symbols))
	var summary PortfolioSummary
	for _, symbol := range symbols {
		g := byAsset[symbol]
		assets = append(assets, *g)
		summary.TotalGain = summary.TotalGain.Add(g.TotalGain)
		summary.TotalLoss = summary.TotalLoss.Add(g.TotalLoss)
		summary.NetGainLoss = summary.NetGainLoss.Add(g.NetGainLoss)
		summary.ShortTermGain = summary.ShortTermGain.Add(g.ShortTermGain)
		summary.ShortTermLoss = summary.ShortTermLoss.Add(g.ShortTermLoss)
		summary.LongTermGain = summary.LongTermGain.Add(g.LongTermGain)
		summary.LongTermLoss = summary.LongTermLoss.Add(g.LongTermLoss)
		summary.TotalProceeds = summary.TotalProceeds.Add(g.TotalProceeds)
		summary.TotalCostBasis = summary.TotalCostBasis.Add(g.TotalCostBasis)
		summary.DisposalCount += g.DisposalCount
	}
	summary.AssetCount = len(assets)
	return assets, summary
}
