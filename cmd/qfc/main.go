// This program is the qfc command-line client: keygen, submit, mine,
// balance, and chain subcommands over an in-process ledger.Ledger.
package main

import "github.com/CreoDAMO/QFC/cmd/qfc/cmd"

func main() {
	cmd.Execute()
}
