package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/rebalance"
	"github.com/etnz/rebalance/renderer"
	"github.com/google/subcommands"
)

// holdingsCmd holds the flags for the 'holdings' subcommand.
type holdingsCmd struct {
	rollup bool
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "display aggregated holdings per asset class" }
func (*holdingsCmd) Usage() string {
	return `prb holdings [-rollup]

  Displays the portfolio holdings grouped by asset class, with the per-lot
  detail in liquidation order (losses first).
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.rollup, "rollup", false, "roll nested classes up into their top-level ancestors")
}

func (c *holdingsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := DecodeStoreFile()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := store.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid store: %v\n", err)
		return subcommands.ExitFailure
	}

	summaries := rebalance.AssetSummaryMap(store.Lots, store.SecurityMap())
	if c.rollup {
		hierarchy, err := store.Hierarchy()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		hierarchy.Rollup(summaries, nil)
	}

	printMarkdown(renderer.HoldingsMarkdown(summaries))

	return subcommands.ExitSuccess
}
