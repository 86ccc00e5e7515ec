package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and rewrites the store file in canonical form"
}
func (*fmtCmd) Usage() string {
	return `prb fmt

  Validates the store file and rewrites it in canonical JSONL form:
  accounts first, then asset classes, securities, lots, transactions,
  allocation targets, snapshots and flows.
`
}

func (*fmtCmd) SetFlags(f *flag.FlagSet) {}

func (p *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := DecodeStoreFile()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := store.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid store: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := EncodeStoreFile(store); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Formatted %s\n", *storeFile)
	return subcommands.ExitSuccess
}
