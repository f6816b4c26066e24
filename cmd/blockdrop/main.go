// Package main is the entry point for the blockdrop command.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/blockdrop/internal/cli"
)

// Version information (set via ldflags during build).
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	cli.Version = version
	code := cli.Execute(ctx)
	stop()
	os.Exit(code)
}
