// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/archsignal/archsignal/services/archgraph/scanner"
	"github.com/archsignal/archsignal/services/archgraph/snapshot"
)

// runScan is the CLI handler for the "archsignal scan" command.
//
// It runs the external scanner and persists the snapshot. When the
// scanner produced usable JSON its raw bytes are written untouched so
// unknown wire fields round-trip byte-for-byte.
//
// # Exit Codes
//
//   - 0: Snapshot written
//   - 2: Scanner could not start or output could not be written
func runScan(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(scannerArgv) == 0 {
		Fatal("--scanner is required", nil)
	}
	if _, err := os.Stat(repoPath); err != nil {
		Fatal("repository path not found", err)
	}

	runner := scanner.NewRunner()
	result, err := runner.Scan(ctx, scanner.Spec{
		Command:    scannerArgv,
		Dir:        repoPath,
		Repository: repoName,
	})
	if err != nil {
		Fatal("scanner failed to start", err)
	}

	if result.Raw != nil {
		if err := os.WriteFile(outPath, result.Raw, 0644); err != nil {
			Fatal("write snapshot", err)
		}
	} else if err := snapshot.Save(outPath, result.Snapshot); err != nil {
		Fatal("write snapshot", err)
	}

	for _, diag := range result.Snapshot.Diagnostics {
		fmt.Fprintf(os.Stderr, "[%s] %s\n", diag.Severity, diag.Message)
	}
	fmt.Printf("snapshot written to %s (%d components, %d relationships)\n",
		outPath, len(result.Snapshot.Components), len(result.Snapshot.Relationships))
	os.Exit(CLIExitSuccess)
}
