package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CreoDAMO/QFC/internal/shard"
)

var mineMiner string

func init() {
	rootCmd.AddCommand(mineCmd)
	mineCmd.Flags().StringVar(&mineMiner, "miner", "", "Address to credit the mining reward to.")
	mineCmd.MarkFlagRequired("miner")
}

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Mine the shard owning --miner's pending pool",
	Run: func(cmd *cobra.Command, args []string) {
		l, err := buildLedger()
		if err != nil {
			fatalf("build ledger: %s", err)
		}

		mined, err := l.Mine(context.Background(), mineMiner)
		if err != nil {
			if errors.Is(err, shard.ErrNoTransactions) {
				fmt.Println("nothing to mine: the shard's pending pool is empty")
				return
			}
			fatalf("mine: %s", err)
		}

		hash, err := mined.ComputeHash()
		if err != nil {
			fatalf("hash mined block: %s", err)
		}
		fmt.Printf("mined block %d, hash %s, difficulty %d, energy source %s\n", mined.Index, hash, mined.Difficulty, mined.EnergySource)
		fmt.Printf("  %d transaction(s) sealed\n", len(mined.Transactions))
	},
}
