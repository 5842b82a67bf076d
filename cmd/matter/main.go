// Package main is the entry point for the matter CLI.
package main

import (
	"os"

	"github.com/thoreinstein/matter/cmd/matter/commands"
)

func main() {
	os.Exit(commands.Main(os.Stderr))
}
