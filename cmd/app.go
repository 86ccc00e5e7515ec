// Package cmd implements the CLI application to plan portfolio rebalances.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/etnz/rebalance"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package calls Register() to install subcommands, then Execute() on
// the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&planCmd{}, "rebalance")
	c.Register(&holdingsCmd{}, "rebalance")
	c.Register(&washcheckCmd{}, "rebalance")

	c.Register(&performanceCmd{}, "reports")

	c.Register(&fmtCmd{}, "store")
	c.Register(&importCmd{}, "store")

	c.Register(&topicCmd{}, "help")
	c.Register(&assistCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to
// use global variables.

var storeFile = flag.String("store-file", "portfolio.jsonl", "Path to the portfolio store file (JSONL format)")

// DecodeStoreFile loads the model store from the app store file.
func DecodeStoreFile() (*rebalance.Store, error) {
	f, err := os.Open(*storeFile)
	if err != nil {
		return nil, fmt.Errorf("cannot open store %q: %w", *storeFile, err)
	}
	defer f.Close()
	store, err := rebalance.DecodeStore(f)
	if err != nil {
		return nil, fmt.Errorf("cannot read store %q: %w", *storeFile, err)
	}
	return store, nil
}

// EncodeStoreFile writes the model store back to the app store file in
// canonical form.
func EncodeStoreFile(store *rebalance.Store) error {
	f, err := os.Create(*storeFile)
	if err != nil {
		return fmt.Errorf("cannot write store %q: %w", *storeFile, err)
	}
	defer f.Close()
	if err := rebalance.EncodeStore(f, store); err != nil {
		return fmt.Errorf("cannot encode store %q: %w", *storeFile, err)
	}
	return f.Close()
}
