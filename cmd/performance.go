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

// performanceCmd holds the flags for the 'performance' subcommand.
type performanceCmd struct {
	period string
	date   string
}

func (*performanceCmd) Name() string     { return "performance" }
func (*performanceCmd) Synopsis() string { return "report the portfolio return over a period" }
func (*performanceCmd) Usage() string {
	return `prb performance [-p <period>] [-d <date>]

  Computes the Modified Dietz return of the portfolio over the period
  containing the given date, from the snapshots and flows in the store.
`
}

func (c *performanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "monthly", "Reporting period (monthly, quarterly, yearly)")
	f.StringVar(&c.date, "d", "0d", "A date inside the reporting period")
}

func (c *performanceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	day, err := rebalance.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	period, err := rebalance.ParsePeriod(c.period)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	store, err := DecodeStoreFile()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	snapshots := rebalance.ConsolidateSnapshots(store.SnapshotSeries())
	reportRange := period.Range(day)
	perf, err := rebalance.NewPerformance(snapshots, store.Flows, reportRange)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing performance: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.PerformanceMarkdown(reportRange, perf))

	return subcommands.ExitSuccess
}
