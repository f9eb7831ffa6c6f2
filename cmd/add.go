package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/oklog/ulid/v2"

	"github.com/clearlot/costbasis"
	"github.com/clearlot/costbasis/store"
)

type addCmd struct {
	ledgerFlags
	id       string
	date     string
	typ      string
	asset    string
	amount   string
	price    string
	fee      string
	exchange string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record a transaction in the ledger" }
func (*addCmd) Usage() string {
	return `cbt add -type <type> -asset <symbol> -amount <qty> -price <unit price> [-date <date>] [-fee <fee>] [-exchange <name>]

  Appends one transaction to the ledger. An ID is generated when none is
  given.

Usage Examples:
$ cbt add -type buy -asset BTC -amount 0.5 -price 64000 -exchange kraken

`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	cfg := loadConfig()
	f.StringVar(&c.ledgerFile, "ledger-file", cfg.Ledger, "Path to the ledger file (JSONL format)")
	f.StringVar(&c.dbFile, "db", cfg.Database, "Path to a SQLite ledger database, used instead of the ledger file")
	f.StringVar(&c.id, "id", "", "Transaction ID, generated when empty")
	f.StringVar(&c.date, "date", time.Now().UTC().Format("2006-01-02"), "Transaction date (YYYY-MM-DD)")
	f.StringVar(&c.typ, "type", "", "Transaction type (buy, sell, deposit, withdrawal, ...)")
	f.StringVar(&c.asset, "asset", "", "Asset symbol")
	f.StringVar(&c.amount, "amount", "", "Quantity of the asset")
	f.StringVar(&c.price, "price", "", "Unit price in the reporting currency")
	f.StringVar(&c.fee, "fee", "0", "Transaction fee")
	f.StringVar(&c.exchange, "exchange", "", "Exchange or venue name")
}

func (c *addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	date, err := time.Parse("2006-01-02", c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	tx := costbasis.Transaction{
		ID:       c.id,
		Date:     date,
		Type:     costbasis.ParseTransactionType(c.typ),
		Asset:    c.asset,
		Amount:   costbasis.ParseAmount("amount", c.amount),
		Price:    costbasis.ParseAmount("price", c.price),
		Fee:      costbasis.ParseAmount("fee", c.fee),
		Exchange: c.exchange,
	}
	if tx.ID == "" {
		tx.ID = ulid.Make().String()
	}
	if err := tx.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid transaction: %v\n", err)
		return subcommands.ExitUsageError
	}

	if c.dbFile != "" {
		s, err := store.Open(c.dbFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening database %q: %v\n", c.dbFile, err)
			return subcommands.ExitFailure
		}
		defer s.Close()
		if err := s.Save([]costbasis.Transaction{tx}); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving transaction: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Recorded transaction %s in %s\n", tx.ID, c.dbFile)
		return subcommands.ExitSuccess
	}

	file, err := os.OpenFile(c.ledgerFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger %q: %v\n", c.ledgerFile, err)
		return subcommands.ExitFailure
	}
	defer file.Close()
	if err := costbasis.EncodeTransaction(file, tx); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing to ledger %q: %v\n", c.ledgerFile, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Recorded transaction %s in %s\n", tx.ID, c.ledgerFile)
	return subcommands.ExitSuccess
}
