package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/clearlot/costbasis/renderer"
)

type exportCmd struct {
	gains      gainsCmd
	report     string
	outputFile string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export a report as CSV" }
func (*exportCmd) Usage() string {
	return `cbt export -report <disposals|summary|holdings> [-o <file>]

  Writes a report as CSV, to stdout by default. Accepts the same window,
  method and ledger flags as 'cbt gains'.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	c.gains.setCalcFlags(f)
	f.StringVar(&c.report, "report", "disposals", "Report to export: disposals, summary or holdings")
	f.StringVar(&c.outputFile, "o", "", "Output file, stdout if empty")
}

func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	result, status := c.gains.calculate()
	if status != subcommands.ExitSuccess {
		return status
	}

	var w io.Writer = os.Stdout
	if c.outputFile != "" {
		file, err := os.Create(c.outputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.outputFile, err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		w = file
	}

	var err error
	switch c.report {
	case "disposals":
		err = renderer.DisposalsCSV(w, result.Disposals)
	case "summary":
		err = renderer.AssetSummaryCSV(w, result.Assets, result.Summary)
	case "holdings":
		err = renderer.HoldingsCSV(w, result.Holdings)
	default:
		fmt.Fprintf(os.Stderr, "Unknown report %q, want disposals, summary or holdings\n", c.report)
		return subcommands.ExitUsageError
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
