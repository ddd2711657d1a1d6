package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CreoDAMO/QFC/internal/keyring"
)

var keyBits int

func init() {
	rootCmd.AddCommand(keygenCmd)
	keygenCmd.Flags().IntVar(&keyBits, "bits", 2048, "RSA key size in bits.")
}

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a new RSA key pair and print its address",
	Run: func(cmd *cobra.Command, args []string) {
		address, _, err := keyring.Generate(keysDir, keyBits)
		if err != nil {
			fatalf("generate key: %s", err)
		}
		fmt.Println(address)
	},
}
