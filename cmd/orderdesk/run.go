package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/fx"
)

// run starts the fx app and blocks until the context is cancelled or the
// app shuts itself down, returning the process exit code.
func run(ctx context.Context, app *fx.App) int {
	if err := app.Start(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "orderdesk: start failed:", err)
		return 1
	}

	select {
	case <-ctx.Done():
	case <-app.Done():
	}

	if err := app.Stop(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "orderdesk: shutdown failed:", err)
		return 1
	}
	return 0
}
