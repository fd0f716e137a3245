package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"vrhouse/internal/services"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, formatError(err))
		}
		stop()
		os.Exit(1)
	}
}

func formatError(err error) string {
	kind := services.Kind(err)
	if kind == "" || kind == "Unknown" {
		return err.Error()
	}
	return fmt.Sprintf("%s: %v", kind, err)
}
