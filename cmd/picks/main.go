package main

import (
	"os"

	"github.com/wonny/alphaweek/backend/cmd/picks/commands"
)

// main is the entry point for the AlphaWeek CLI
// ⭐ Unified CLI entry point: go run ./cmd/picks [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
