// Package main provides the entry point for the eventgate server.
package main

import (
	"os"

	"github.com/eventgate/eventgate/cmd/eventgate/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
