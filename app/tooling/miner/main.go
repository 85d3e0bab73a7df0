// This program mines proofs against a ledger node and manages the miner's
// registration and claims.
package main

import "github.com/ardanlabs/powledger/app/tooling/miner/cmd"

func main() {
	cmd.Execute()
}
