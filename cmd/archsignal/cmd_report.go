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
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/archsignal/archsignal/services/archgraph"
	"github.com/archsignal/archsignal/services/archgraph/finding"
	"github.com/archsignal/archsignal/services/archgraph/governance"
	"github.com/archsignal/archsignal/services/archgraph/patterns"
	"github.com/archsignal/archsignal/services/archgraph/policy"
	"github.com/archsignal/archsignal/services/archgraph/scanner"
	"github.com/archsignal/archsignal/services/archgraph/snapshot"
	"github.com/archsignal/archsignal/services/archgraph/telemetry"
)

// runReport is the CLI handler for the "archsignal report" command.
//
// It produces or loads a snapshot, runs governance, risk, and pattern
// analysis over it, and judges the aggregate against the policy gates.
//
// # Exit Codes
//
//   - 0: All configured gates passed
//   - 1: A policy gate failed
//   - 2: Scan, snapshot, or configuration error
func runReport(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	snap := loadOrScan(ctx)

	govCfg, err := governance.LoadConfig(governancePath)
	if err != nil {
		Fatal("governance configuration unusable", err)
	}
	policyCfg, err := policy.LoadConfig(policyPath)
	if err != nil {
		Fatal("policy configuration unusable", err)
	}

	metrics, err := telemetry.Default()
	if err != nil {
		Fatal("telemetry setup failed", err)
	}

	service, err := archgraph.New(archgraph.Options{
		Governance: govCfg,
		Policy:     policyCfg,
		Producers: []finding.Producer{
			patterns.NewGodComponentAnalyzer(nil),
		},
		Metrics: metrics,
	})
	if err != nil {
		Fatal("service setup failed", err)
	}

	result, err := service.Report(ctx, snap)
	if err != nil {
		Fatal("analysis failed", err)
	}

	if err := OutputJSON(result); err != nil {
		Fatal("encode report", err)
	}
	for _, diag := range result.Diagnostics {
		fmt.Fprintf(os.Stderr, "[%s] %s\n", diag.Severity, diag.Message)
	}

	if !result.Policy.Passed {
		os.Exit(CLIExitFindings)
	}
	os.Exit(CLIExitSuccess)
}

// loadOrScan resolves the report input: an existing snapshot file wins,
// otherwise the configured scanner runs.
func loadOrScan(ctx context.Context) *snapshot.Snapshot {
	if reportSnapshotPath != "" {
		snap, err := snapshot.Load(reportSnapshotPath)
		if err != nil {
			Fatal("load snapshot", err)
		}
		return snap
	}
	if len(scannerArgv) == 0 {
		Fatal("either --snapshot or --scanner is required", nil)
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
	return result.Snapshot
}
