package main

import (
	"os"

	"github.com/awnumar/memguard"

	"sigil/cmd/sigil/commands"
)

func main() {
	memguard.CatchInterrupt()
	defer memguard.Purge()

	if err := commands.Execute(); err != nil {
		memguard.Purge()
		os.Exit(1)
	}
}
