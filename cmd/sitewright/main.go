// Package main is the entry point for the sitewright CLI.
//
// sitewright provisions web apps, swaps their deployment slots, and opens
// remote debug tunnels into them, all from the terminal.
//
// Commands: create, swap, tunnel, version.
//
// For detailed usage information, run:
//
//	sitewright --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sitewright/cmd/sitewright/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
