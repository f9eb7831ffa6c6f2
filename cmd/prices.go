package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/clearlot/costbasis"
)

type pricesCmd struct {
	outputFile string
	timeout    time.Duration
}

func (*pricesCmd) Name() string     { return "prices" }
func (*pricesCmd) Synopsis() string { return "fetch current prices from configured providers" }
func (*pricesCmd) Usage() string {
	return `cbt prices [-o <file>]

  Fetches the current unit price of each asset listed under 'prices' in the
  config file and writes them as a JSON map, ready for 'cbt holdings -prices'.

  A config entry names the asset, the provider URL and a jsonpath to the
  price inside the response:

    prices:
      - asset: BTC
        url: https://api.example.com/ticker/btc
        path: $.data.last
`
}

func (c *pricesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.outputFile, "o", "prices.json", "Output file for the fetched prices")
	f.DurationVar(&c.timeout, "timeout", 30*time.Second, "Overall HTTP timeout")
}

func (c *pricesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	queries := loadConfig().Prices
	if len(queries) == 0 {
		fmt.Fprintln(os.Stderr, "No price providers configured, nothing to fetch.")
		return subcommands.ExitUsageError
	}

	client := &http.Client{Timeout: c.timeout}
	prices, err := costbasis.FetchPrices(client, queries)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching prices: %v\n", err)
		return subcommands.ExitFailure
	}

	data, err := json.MarshalIndent(prices, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding prices: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := os.WriteFile(c.outputFile, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", c.outputFile, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Fetched %d prices into %s\n", len(prices), c.outputFile)
	return subcommands.ExitSuccess
}
