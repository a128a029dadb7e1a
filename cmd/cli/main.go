// Package main is the entry point for the rag-cost CLI.
package main

import (
	"os"

	"rag-cost/cmd/cli/cmd"
	"rag-cost/internal/logging"
)

func main() {
	err := cmd.Execute()
	logging.Sync()
	if err != nil {
		os.Exit(1)
	}
}
