package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/rebalance"
	"github.com/google/subcommands"
)

// importCmd holds the flags for the 'import' subcommand.
type importCmd struct {
	account   string
	positions string
	ticker    string
	shares    string
	basis     string
	acquired  string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import tax lots from a broker JSON export" }
func (*importCmd) Usage() string {
	return `prb import -account <key> [-positions <path>] [mapping flags] <file>

  Reads a broker JSON export and appends the mapped tax lots to the store.
  Brokers never agree on a shape; the mapping flags are jsonpath expressions
  adapting one export to the store model.

Usage Examples:
# The default mapping fits exports shaped like
# {"positions": [{"symbol": ..., "quantity": ..., "costBasisPerShare": ...}]}
$ prb import -account tax export.json
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "Account key the imported lots belong to (required)")
	f.StringVar(&c.positions, "positions", "$.positions[*]", "jsonpath selecting the position objects")
	f.StringVar(&c.ticker, "ticker", "$.symbol", "jsonpath to the ticker, per position")
	f.StringVar(&c.shares, "shares", "$.quantity", "jsonpath to the share count, per position")
	f.StringVar(&c.basis, "basis", "$.costBasisPerShare", "jsonpath to the per-share basis; empty for gifts")
	f.StringVar(&c.acquired, "acquired", "", "jsonpath to the acquisition date; empty when not exported")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.account == "" {
		fmt.Fprintln(os.Stderr, "Error: -account is required")
		return subcommands.ExitUsageError
	}
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one export file")
		return subcommands.ExitUsageError
	}

	export, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening export: %v\n", err)
		return subcommands.ExitFailure
	}
	defer export.Close()

	lots, err := rebalance.ImportLots(export, rebalance.BrokerMapping{
		Account:   rebalance.AccountKey(c.account),
		Positions: c.positions,
		Ticker:    c.ticker,
		Shares:    c.shares,
		Basis:     c.basis,
		Acquired:  c.acquired,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing lots: %v\n", err)
		return subcommands.ExitFailure
	}

	store, err := DecodeStoreFile()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	store.Lots = append(store.Lots, lots...)
	if err := EncodeStoreFile(store); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Imported %d lot(s) into account %q\n", len(lots), c.account)
	return subcommands.ExitSuccess
}
