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

// planCmd holds the flags for the 'plan' subcommand.
type planCmd struct {
	cutoff       string
	lookback     int
	minSale      float64
	preserveZero bool
}

func (*planCmd) Name() string     { return "plan" }
func (*planCmd) Synopsis() string { return "compute the tax-aware trade plan for the target allocation" }
func (*planCmd) Usage() string {
	return `prb plan [-d <date>] [-lookback <days>] [-min-sale <amount>] [-preserve-zero]

  Computes the minimal set of trades that moves the portfolio toward the
  target allocation declared in the store, annotated with wash-sale amounts.
`
}

func (c *planCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.cutoff, "d", "0d", "Cutoff date for the wash-sale lookback. See the user manual for supported date formats.")
	f.IntVar(&c.lookback, "lookback", rebalance.DefaultLookbackDays, "Length of the wash-sale lookback window, in days")
	f.Float64Var(&c.minSale, "min-sale", 0, "Skip sales below this dollar amount; also the dust threshold")
	f.BoolVar(&c.preserveZero, "preserve-zero", false, "Keep fully netted classes visible at $0.00")
}

func (c *planCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cutoff, err := rebalance.ParseDate(c.cutoff)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	store, err := DecodeStoreFile()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	plan, err := rebalance.BuildPlan(store, rebalance.PlanOptions{
		Cutoff:       cutoff,
		LookbackDays: c.lookback,
		MinimumSale:  rebalance.M(c.minSale, ""),
		PreserveZero: c.preserveZero,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building plan: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.PlanMarkdown(plan))

	return subcommands.ExitSuccess
}
