package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var chainShard int

func init() {
	rootCmd.AddCommand(chainCmd)
	chainCmd.Flags().IntVar(&chainShard, "shard", 0, "Shard id to dump.")
}

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Print a shard's block list",
	Run: func(cmd *cobra.Command, args []string) {
		l, err := buildLedger()
		if err != nil {
			fatalf("build ledger: %s", err)
		}

		blocks, err := l.Chain(chainShard)
		if err != nil {
			fatalf("read chain: %s", err)
		}

		for _, b := range blocks {
			hash, err := b.ComputeHash()
			if err != nil {
				fatalf("hash block %d: %s", b.Index, err)
			}
			fmt.Printf("%d  %s  prev=%s  txs=%d\n", b.Index, hash, b.PreviousHash, len(b.Transactions))
		}
	},
}
