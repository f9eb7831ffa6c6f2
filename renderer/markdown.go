package renderer

import (
	"fmt"
	"strings"

	"github.com/clearlot/costbasis"
)

// SummaryMarkdown renders the realized-gains report to a markdown string.
func SummaryMarkdown(r *costbasis.Result, currency string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Realized Gains Report from %s to %s\n\n",
		r.Period.From.Format("2006-01-02"), r.Period.To.Format("2006-01-02"))
	fmt.Fprintf(&b, "Method: %s\n\n", r.Method)

	fmt.Fprint(&b, "## Gains per Asset\n\n")
	fmt.Fprintln(&b, "| Asset | Proceeds | Cost Basis | Net Gain/Loss | Short-Term | Long-Term | Disposals |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|")

	for _, a := range r.Assets {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %d |\n",
			a.Asset,
			formatMoney(a.TotalProceeds, currency),
			formatMoney(a.TotalCostBasis, currency),
			formatMoney(a.NetGainLoss, currency),
			formatMoney(a.ShortTermGain.Sub(a.ShortTermLoss), currency),
			formatMoney(a.LongTermGain.Sub(a.LongTermLoss), currency),
			a.DisposalCount,
		)
	}
	s := r.Summary
	fmt.Fprintf(&b, "| **%s** | **%s** | **%s** | **%s** | **%s** | **%s** | **%d** |\n",
		"Total",
		formatMoney(s.TotalProceeds, currency),
		formatMoney(s.TotalCostBasis, currency),
		formatMoney(s.NetGainLoss, currency),
		formatMoney(s.ShortTermGain.Sub(s.ShortTermLoss), currency),
		formatMoney(s.LongTermGain.Sub(s.LongTermLoss), currency),
		s.DisposalCount,
	)

	return b.String()
}

// HoldingsMarkdown renders the remaining-holdings snapshot to a markdown
// string. Valuation columns appear only when at least one holding is priced.
func HoldingsMarkdown(holdings []costbasis.AssetHolding, currency string) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Holdings\n\n")
	if len(holdings) == 0 {
		fmt.Fprintln(&b, "Nothing held.")
		return b.String()
	}

	priced := false
	for _, h := range holdings {
		if h.CurrentValue != nil {
			priced = true
			break
		}
	}

	if priced {
		fmt.Fprintln(&b, "| Asset | Amount | Average Cost | Cost Basis | Value | Unrealized |")
		fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|")
	} else {
		fmt.Fprintln(&b, "| Asset | Amount | Average Cost | Cost Basis |")
		fmt.Fprintln(&b, "|:---|---:|---:|---:|")
	}

	for _, h := range holdings {
		if priced {
			value, unrealized := "", ""
			if h.CurrentValue != nil {
				value = formatMoney(*h.CurrentValue, currency)
				unrealized = formatMoney(*h.UnrealizedGainLoss, currency)
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
				h.Asset, h.Amount, formatMoney(h.AverageCost, currency),
				formatMoney(h.TotalCostBasis, currency), value, unrealized)
			continue
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			h.Asset, h.Amount, formatMoney(h.AverageCost, currency),
			formatMoney(h.TotalCostBasis, currency))
	}

	return b.String()
}
