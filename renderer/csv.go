package renderer

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/clearlot/costbasis"
)

// DisposalsCSV writes one row per disposal event, in the order the engine
// reported them.
func DisposalsCSV(w io.Writer, disposals []costbasis.DisposalEvent) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"Asset", "Disposal Date", "Amount", "Proceeds", "Cost Basis",
		"Gain/Loss", "Term", "Holding Period (Days)", "Exchange", "Transaction ID",
	}); err != nil {
		return err
	}
	for _, e := range disposals {
		if err := cw.Write([]string{
			e.Asset,
			e.Date.Format("2006-01-02"),
			e.Amount.String(),
			e.Proceeds.String(),
			e.CostBasis.String(),
			e.GainLoss.String(),
			e.Term(),
			strconv.Itoa(e.HoldingDays),
			e.Exchange,
			e.TransactionID,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// AssetSummaryCSV writes one row per asset plus a final TOTAL row carrying
// the portfolio rollup.
func AssetSummaryCSV(w io.Writer, assets []costbasis.AssetGains, summary costbasis.PortfolioSummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"Asset", "Total Proceeds", "Total Cost Basis", "Net Gain/Loss",
		"Short-Term Gain", "Short-Term Loss", "Long-Term Gain", "Long-Term Loss",
		"Disposal Count",
	}); err != nil {
		return err
	}
	for _, a := range assets {
		if err := cw.Write([]string{
			a.Asset,
			a.TotalProceeds.String(),
			a.TotalCostBasis.String(),
			a.NetGainLoss.String(),
			a.ShortTermGain.String(),
			a.ShortTermLoss.String(),
			a.LongTermGain.String(),
			a.LongTermLoss.String(),
			strconv.Itoa(a.DisposalCount),
		}); err != nil {
			return err
		}
	}
	if err := cw.Write([]string{
		"TOTAL",
		summary.TotalProceeds.String(),
		summary.TotalCostBasis.String(),
		summary.NetGainLoss.String(),
		summary.ShortTermGain.String(),
		summary.ShortTermLoss.String(),
		summary.LongTermGain.String(),
		summary.LongTermLoss.String(),
		strconv.Itoa(summary.DisposalCount),
	}); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// HoldingsCSV writes one row per asset still held.
func HoldingsCSV(w io.Writer, holdings []costbasis.AssetHolding) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"Asset", "Amount", "Average Cost", "Total Cost Basis",
		"Earliest Acquisition", "Latest Acquisition", "Number of Lots",
	}); err != nil {
		return err
	}
	for _, h := range holdings {
		if err := cw.Write([]string{
			h.Asset,
			h.Amount.String(),
			h.AverageCost.String(),
			h.TotalCostBasis.String(),
			h.EarliestAcquisition.Format("2006-01-02"),
			h.LatestAcquisition.Format("2006-01-02"),
			strconv.Itoa(len(h.Lots)),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
