// Package main provides the entry point for the fnmetrics CLI.
//
// fnmetrics extracts per-function metric values from HTML metrics reports
// and prints them as "<file>:<function>,<value>" lines.
//
// Usage:
//
//	fnmetrics report.html
//	fnmetrics batch a.html b.html
//	fnmetrics compare report.html
//
// See --help for all available options.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
)

func main() {
	os.Exit(run())
}

// run executes the command tree and returns the process exit code.
func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := fang.Execute(ctx, NewRootCmd(), fang.WithVersion(getVersion())); err != nil {
		return 1
	}
	return 0
}
