// Package main is the entry point for the FleetDesk console server.
// Its sole responsibility is dispatching to the CLI; all wiring lives in
// internal/cli.
package main

import (
	"fmt"
	"os"

	"github.com/dmaia/fleetdesk/backend/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
