package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"iowhy/internal/cli"
	"iowhy/internal/collector"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := cli.NewRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "interrupted")
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		if errors.Is(err, collector.ErrSourceUnavailable) {
			fmt.Fprintln(os.Stderr, "Note: reading /proc/[pid]/io may require root privileges; this tool requires Linux with /proc mounted.")
		}
		os.Exit(1)
	}
}
