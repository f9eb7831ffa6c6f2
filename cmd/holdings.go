package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/clearlot/costbasis"
	"github.com/clearlot/costbasis/renderer"
)

type holdingsCmd struct {
	ledgerFlags
	method     string
	currency   string
	pricesFile string
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "current holdings snapshot" }
func (*holdingsCmd) Usage() string {
	return `cbt holdings [-method <method>] [-prices <file>] [-currency <code>]

  Shows what is still held after folding the whole ledger: amount, average
  cost and total cost basis per asset. With -prices, also current value and
  unrealized gain.
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {
	cfg := loadConfig()
	f.StringVar(&c.ledgerFile, "ledger-file", cfg.Ledger, "Path to the ledger file (JSONL format)")
	f.StringVar(&c.dbFile, "db", cfg.Database, "Path to a SQLite ledger database, used instead of the ledger file")
	f.StringVar(&c.method, "method", cfg.Method, "Cost basis method (fifo, lifo, average)")
	f.StringVar(&c.currency, "currency", cfg.Currency, "Reporting currency code")
	f.StringVar(&c.pricesFile, "prices", "", "JSON file mapping asset symbols to current unit prices")
}

func (c *holdingsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	method, err := costbasis.ParseCostBasisMethod(c.method)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing cost basis method: %v\n", err)
		return subcommands.ExitUsageError
	}

	var prices costbasis.PriceMap
	if c.pricesFile != "" {
		data, err := os.ReadFile(c.pricesFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading prices file: %v\n", err)
			return subcommands.ExitFailure
		}
		if err := json.Unmarshal(data, &prices); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing prices file %q: %v\n", c.pricesFile, err)
			return subcommands.ExitFailure
		}
	}

	txs, err := c.load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	result, err := costbasis.Calculate(txs, method, costbasis.Options{Prices: prices})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error calculating holdings: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.HoldingsMarkdown(result.Holdings, c.currency))
	return subcommands.ExitSuccess
}
