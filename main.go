// ABOUTME: Entry point for the pushover-mcp binary.
// ABOUTME: Installs signal handling and delegates to the cli package.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mlgill/pushover-mcp-server/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cli.Execute(ctx); err != nil {
		os.Exit(1)
	}
}
