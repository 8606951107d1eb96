// Command walletctl holds operator tooling for the wallet API: master key
// generation, PIN hashing and session tokens for support access.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
