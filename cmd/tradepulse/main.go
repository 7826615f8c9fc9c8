package main

import (
	"os"

	"github.com/agustinp/tradepulse/cmd/tradepulse/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
