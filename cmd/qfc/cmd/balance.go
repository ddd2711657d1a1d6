package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CreoDAMO/QFC/internal/txn"
)

var (
	balanceAddress string
	balanceAsset   string
)

func init() {
	rootCmd.AddCommand(balanceCmd)
	balanceCmd.Flags().StringVar(&balanceAddress, "address", "", "Address to look up.")
	balanceCmd.Flags().StringVar(&balanceAsset, "asset", txn.NativeAsset, "Asset symbol.")
	balanceCmd.MarkFlagRequired("address")
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print an address's balance at genesis",
	Run: func(cmd *cobra.Command, args []string) {
		l, err := buildLedger()
		if err != nil {
			fatalf("build ledger: %s", err)
		}
		fmt.Println(l.Balance(balanceAddress, balanceAsset))
	},
}
