package main

import (
	"os"

	"github.com/banshee-data/vrtypes/cmd/vrtypes/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
