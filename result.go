package costbasis

// Result is the engine's sole output contract: the chosen method, the
// effective reporting period, the portfolio rollup, the per-asset breakdown,
// the remaining holdings and the full reported disposal-event list. It is
// JSON-serializable with RFC 3339 timestamps.
type Result struct {
	Method    CostBasisMethod  `json:"method"`
	Period    Range            `json:"period"`
	Summary   PortfolioSummary `json:"summary"`
	Assets    []AssetGains     `json:"assets"`
	Holdings  []AssetHolding   `json:"holdings"`
	Disposals []DisposalEvent  `json:"disposals"`
}
