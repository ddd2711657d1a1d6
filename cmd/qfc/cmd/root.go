// Package cmd contains the qfc command-line client: a cobra-based
// front end over ledger.Ledger for local demonstration and
// administration, in the spirit of the teacher's app/wallet/cli/cmd and
// app/tooling/admin/commands packages. It talks to no network service;
// every subcommand builds its own in-memory ledger from a genesis file
// for the lifetime of that one process invocation (no persistence
// across invocations, per spec.md's Non-goals), so submit/mine results
// are only visible within the invocation that produced them unless
// chained together with the submit command's --mine flag.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/CreoDAMO/QFC/internal/genesis"
	"github.com/CreoDAMO/QFC/internal/keyring"
	"github.com/CreoDAMO/QFC/internal/logger"
	"github.com/CreoDAMO/QFC/internal/txn"
	"github.com/CreoDAMO/QFC/ledger"
)

var (
	genesisPath string
	keysDir     string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&genesisPath, "genesis", "g", "zblock/genesis.json", "Path to the genesis JSON file.")
	rootCmd.PersistentFlags().StringVarP(&keysDir, "keys", "k", "zblock/keys/", "Directory holding generated key pairs.")
}

var rootCmd = &cobra.Command{
	Use:   "qfc",
	Short: "QFC sharded proof-of-work ledger client",
}

// Execute runs the root command, exiting the process with status 1 on
// failure, matching the teacher's Execute shape in app/wallet/cli/cmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildLedger constructs a fresh Ledger from the genesis file at
// genesisPath, verifying transactions against every key saved under
// keysDir. It is called at the top of every subcommand that touches
// ledger state, since no state survives between CLI invocations.
func buildLedger() (*ledger.Ledger, error) {
	g, err := genesis.Load(genesisPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		g = genesis.Default()
	}

	lg, err := g.ToLedgerGenesis()
	if err != nil {
		return nil, err
	}

	registry, err := keyring.LoadAll(keysDir)
	if err != nil {
		return nil, err
	}

	verify := func(tx txn.Transaction) bool {
		pub, ok := registry[tx.Sender]
		if !ok {
			return false
		}
		return tx.Verify(pub)
	}

	log, err := logger.New("CLI")
	if err != nil {
		return nil, err
	}

	return ledger.New(lg, verify, log)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
