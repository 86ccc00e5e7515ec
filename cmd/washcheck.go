package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/rebalance"
	"github.com/google/subcommands"
)

// washcheckCmd holds the flags for the 'washcheck' subcommand.
type washcheckCmd struct {
	cutoff   string
	lookback int
}

func (*washcheckCmd) Name() string     { return "washcheck" }
func (*washcheckCmd) Synopsis() string { return "list recent sales with incomplete realized-gain records" }
func (*washcheckCmd) Usage() string {
	return `prb washcheck [-d <date>] [-lookback <days>]

  Lists the recent taxable sales whose realized gain or loss was never
  recorded. Wash-sale amounts cannot be trusted until these are completed.
`
}

func (c *washcheckCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.cutoff, "d", "0d", "Cutoff date for the lookback window")
	f.IntVar(&c.lookback, "lookback", rebalance.DefaultLookbackDays, "Length of the lookback window, in days")
}

func (c *washcheckCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	if err := store.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid store: %v\n", err)
		return subcommands.ExitFailure
	}

	window := rebalance.Lookback(cutoff, c.lookback)
	flagged := rebalance.NeedsRealizedGain(store.Transactions, window.From, store.SecurityMap(), store.AccountMap())
	if len(flagged) == 0 {
		fmt.Println("All recent sales have realized-gain records.")
		return subcommands.ExitSuccess
	}

	for _, tx := range flagged {
		fmt.Printf("%s  %-8s %-8s %s shares: no realized gain recorded\n",
			tx.Date, tx.Account, tx.Security, tx.Shares)
	}
	fmt.Printf("%d sale(s) need completing before wash results can be trusted.\n", len(flagged))

	return subcommands.ExitSuccess
}
