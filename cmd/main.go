// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"pdf-analyze/internal/config"
	"pdf-analyze/internal/core"
	"pdf-analyze/internal/observability"
)

const usage = "Usage: pdf-analyze <pdf_file_path>"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run prints the report for the first argument. Stage errors are part of the
// report, so any invocation with a path exits 0.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprintln(stdout, usage)
		return 1
	}

	cfg := loadConfiguration()

	level, ok := observability.ParseLevel(cfg.Observability.Level)
	if !ok {
		level = observability.ObservabilityMetrics
	}
	observer := observability.New(level, stderr)

	analyzer := core.NewAnalyzer(cfg, stdout, cfg.UseColor(isTerminal(stdout)), observer)
	analyzer.Run(args[0])
	return 0
}

// loadConfiguration returns the built-in configuration
func loadConfiguration() *config.Config {
	cfg, err := config.LoadConfig("")
	if err != nil {
		// Built-in defaults are validated by tests; this is unreachable in release builds
		fmt.Fprintf(os.Stderr, "Warning: Error loading built-in configuration: %v\n", err)
		return config.LoadConfigOrDefault("")
	}
	return cfg
}

// isTerminal reports whether w is a terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
