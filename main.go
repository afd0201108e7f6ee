package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fincase/console-fin/cmd"
)

// Version and BuildTime are stamped at release time through
// -ldflags "-X main.Version=... -X main.BuildTime=...".
var (
	Version   = "dev"
	BuildTime = ""
)

func main() {
	cmd.SetVersion(Version, BuildTime)

	// The root context is cancelled on SIGINT/SIGTERM so in-flight requests
	// and the TUI event loop can unwind cleanly.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-interrupts
		cancel()
	}()

	if err := cmd.Execute(ctx); err != nil {
		os.Exit(1)
	}
}
