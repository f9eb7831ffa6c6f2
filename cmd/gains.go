package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/clearlot/costbasis"
	"github.com/clearlot/costbasis/renderer"
)

type gainsCmd struct {
	ledgerFlags
	from          string
	to            string
	method        string
	currency      string
	allowOversell bool
	asJSON        bool
}

func (*gainsCmd) Name() string     { return "gains" }
func (*gainsCmd) Synopsis() string { return "realized gains report" }
func (*gainsCmd) Usage() string {
	return `cbt gains [-from <date>] [-to <date>] [-method <method>] [-currency <code>]

  Computes realized gains and losses per asset and for the whole portfolio.
  Dates restrict which disposals are reported; cost basis always comes from
  the full ledger history.
`
}

func (c *gainsCmd) SetFlags(f *flag.FlagSet) {
	c.setCalcFlags(f)
	f.BoolVar(&c.asJSON, "json", false, "Print the full result as JSON instead of the markdown summary")
}

// setCalcFlags registers the flags feeding calculate. exportCmd shares them
// without the output flags that only apply to the gains command itself.
func (c *gainsCmd) setCalcFlags(f *flag.FlagSet) {
	cfg := loadConfig()
	f.StringVar(&c.ledgerFile, "ledger-file", cfg.Ledger, "Path to the ledger file (JSONL format)")
	f.StringVar(&c.dbFile, "db", cfg.Database, "Path to a SQLite ledger database, used instead of the ledger file")
	f.StringVar(&c.from, "from", "", "Start of the reporting window (YYYY-MM-DD)")
	f.StringVar(&c.to, "to", "", "End of the reporting window (YYYY-MM-DD)")
	f.StringVar(&c.method, "method", cfg.Method, "Cost basis method (fifo, lifo, average)")
	f.StringVar(&c.currency, "currency", cfg.Currency, "Reporting currency code")
	f.BoolVar(&c.allowOversell, "allow-oversell", false, "Clamp disposals exceeding holdings instead of failing")
}

func (c *gainsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	result, status := c.calculate()
	if status != subcommands.ExitSuccess {
		return status
	}
	if c.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding result: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.SummaryMarkdown(result, c.currency))
	return subcommands.ExitSuccess
}

// calculate runs the engine with the command's flags. exportCmd shares it.
func (c *gainsCmd) calculate() (*costbasis.Result, subcommands.ExitStatus) {
	method, err := costbasis.ParseCostBasisMethod(c.method)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing cost basis method: %v\n", err)
		return nil, subcommands.ExitUsageError
	}

	window, err := parseWindow(c.from, c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing window: %v\n", err)
		return nil, subcommands.ExitUsageError
	}

	txs, err := c.load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return nil, subcommands.ExitFailure
	}

	result, err := costbasis.Calculate(txs, method, costbasis.Options{
		Window:        window,
		AllowOversell: c.allowOversell,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error calculating gains: %v\n", err)
		return nil, subcommands.ExitFailure
	}
	return result, subcommands.ExitSuccess
}

func parseWindow(from, to string) (costbasis.Range, error) {
	var w costbasis.Range
	var err error
	if from != "" {
		w.From, err = time.Parse("2006-01-02", from)
		if err != nil {
			return w, fmt.Errorf("bad -from date %q: %w", from, err)
		}
	}
	if to != "" {
		w.To, err = time.Parse("2006-01-02", to)
		if err != nil {
			return w, fmt.Errorf("bad -to date %q: %w", to, err)
		}
		// The -to day is inclusive.
		w.To = w.To.Add(24*time.Hour - time.Nanosecond)
	}
	return w, nil
}
