package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/TFMV/forcegraph/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Create a context that can be canceled on SIGINT/SIGTERM
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
	}()

	cli.SetVersion(version, commit, date)
	if err := cli.Execute(ctx); err != nil {
		os.Exit(1)
	}
}
