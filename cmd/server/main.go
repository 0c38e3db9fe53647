// Command server runs the analytics pipeline once at startup and serves the
// precomputed dashboard metrics over HTTP.
package main

import (
	"context"
	"fmt"
	"os"

	"bearcart/internal/app"
)

func main() {
	application, err := app.NewApplication()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start: %v\n", err)
		os.Exit(1)
	}

	if err := application.Run(context.Background()); err != nil {
		application.Logger.Error("server exited with error", "error", err.Error())
		os.Exit(1)
	}
}
