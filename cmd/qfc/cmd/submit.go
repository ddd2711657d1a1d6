package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CreoDAMO/QFC/internal/keyring"
	"github.com/CreoDAMO/QFC/internal/txn"
)

var (
	submitFrom  string
	submitTo    string
	submitAsset string
	submitAmt   float64
	submitMine  bool
)

func init() {
	rootCmd.AddCommand(submitCmd)
	submitCmd.Flags().StringVar(&submitFrom, "from", "", "Sender address (must have a saved key).")
	submitCmd.Flags().StringVar(&submitTo, "to", "", "Recipient address.")
	submitCmd.Flags().Float64Var(&submitAmt, "amount", 0, "Amount to transfer.")
	submitCmd.Flags().StringVar(&submitAsset, "asset", txn.NativeAsset, "Asset symbol.")
	submitCmd.Flags().BoolVar(&submitMine, "mine", false, "Immediately mine the sender's shard after submitting.")
	submitCmd.MarkFlagRequired("from")
	submitCmd.MarkFlagRequired("to")
	submitCmd.MarkFlagRequired("amount")
}

// submitCmd signs and submits a single transaction against a ledger
// built fresh from genesis, then prints both parties' resulting
// balances. With --mine, it also mines the sender's shard in the same
// invocation and prints the sealed block, the only way to chain submit
// and mine together given this CLI keeps no state between runs.
var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Sign and submit a transaction",
	Run: func(cmd *cobra.Command, args []string) {
		priv, err := keyring.Load(keysDir, submitFrom)
		if err != nil {
			fatalf("load sender key: %s", err)
		}

		tx := txn.New(submitFrom, submitTo, submitAmt, submitAsset)
		if err := tx.Sign(priv); err != nil {
			fatalf("sign transaction: %s", err)
		}

		l, err := buildLedger()
		if err != nil {
			fatalf("build ledger: %s", err)
		}

		if err := l.Submit(tx); err != nil {
			fatalf("submit transaction: %s", err)
		}
		fmt.Printf("submitted: %s -> %s, amount %v, fee %v\n", submitFrom, submitTo, tx.Amount, tx.Fee)
		fmt.Printf("  %s balance: %v\n", submitFrom, l.Balance(submitFrom, submitAsset))
		fmt.Printf("  %s balance: %v\n", submitTo, l.Balance(submitTo, submitAsset))

		if !submitMine {
			return
		}

		mined, err := l.Mine(context.Background(), submitFrom)
		if err != nil {
			fatalf("mine: %s", err)
		}
		hash, err := mined.ComputeHash()
		if err != nil {
			fatalf("hash mined block: %s", err)
		}
		fmt.Printf("mined block %d, hash %s, %d transaction(s)\n", mined.Index, hash, len(mined.Transactions))
		fmt.Printf("  %s balance after reward: %v\n", submitFrom, l.Balance(submitFrom, submitAsset))
	},
}
