// Package cmd implements the CLI application to compute realized gains.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/clearlot/costbasis"
	"github.com/clearlot/costbasis/store"
)

// Commands lists every subcommand. A main package registers them on a
// commander and executes the user-selected one.
var Commands = []subcommands.Command{
	&gainsCmd{},
	&holdingsCmd{},
	&exportCmd{},
	&addCmd{},
	&pricesCmd{},
	&topicCmd{},
}

// ledgerFlags are the flags every ledger-reading subcommand shares. Exactly
// one source is used: the SQLite database when -db is set, the JSONL file
// otherwise.
type ledgerFlags struct {
	ledgerFile string
	dbFile     string
}

func (l *ledgerFlags) load() ([]costbasis.Transaction, error) {
	if l.dbFile != "" {
		s, err := store.Open(l.dbFile)
		if err != nil {
			return nil, err
		}
		defer s.Close()
		return s.Load()
	}

	f, err := os.Open(l.ledgerFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("ledger %q does not exist, use 'cbt add' to record a first transaction", l.ledgerFile)
		}
		return nil, err
	}
	defer f.Close()
	return costbasis.DecodeTransactions(f)
}

// printMarkdown renders markdown to the terminal, falling back to the raw
// text when the renderer cannot be built (no TTY, unknown TERM).
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(0))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
