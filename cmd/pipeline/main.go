// Command pipeline runs the full analytics pipeline once and writes the
// cleaned tables, the master dataset, and the dashboard metrics to the
// processed-data directory.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"bearcart/internal/config"
	"bearcart/internal/infrastructure"
	"bearcart/internal/pipeline"
)

func main() {
	rawDir := flag.String("raw", "", "override the raw-data input directory")
	outDir := flag.String("out", "", "override the processed-data output directory")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *rawDir != "" {
		cfg.Paths.RawDir = *rawDir
	}
	if *outDir != "" {
		cfg.Paths.ProcessedDir = *outDir
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	if err := cfg.EnsureDirectories(); err != nil {
		logger.Error("failed to ensure directories", "error", err.Error())
		os.Exit(1)
	}

	runner := pipeline.NewRunner(cfg, logger, nil)
	if _, err := runner.Run(context.Background()); err != nil {
		logger.Error("pipeline run failed", "error", err.Error())
		os.Exit(1)
	}
}
