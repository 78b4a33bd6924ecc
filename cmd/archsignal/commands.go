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

import "github.com/spf13/cobra"

// --- Global Command Variables ---
var (
	scannerArgv        []string
	repoPath           string
	repoName           string
	outPath            string
	snapshotPath       string
	reportSnapshotPath string
	governancePath     string
	policyPath         string
	maxDepth           int
	topN               int
	formatName         string
	strategyName       string
	priorityRepos      []string

	rootCmd = &cobra.Command{
		Use:   "archsignal",
		Short: "Architecture-quality signals from source component graphs",
		Long: `archsignal turns scanned component graphs into CI-grade
architecture signals: risk scores, layering violations, change impact,
snapshot drift, and pass/fail policy gates.`,
	}

	reportCmd = &cobra.Command{
		Use:   "report",
		Short: "Scan or load a snapshot, run the full analysis, and gate it",
		Run:   runReport, // Defined in cmd_report.go
	}

	scanCmd = &cobra.Command{
		Use:   "scan",
		Short: "Run the external scanner and persist its snapshot verbatim",
		Run:   runScan, // Defined in cmd_scan.go
	}

	diffCmd = &cobra.Command{
		Use:   "diff [baseline] [current]",
		Short: "Compare two snapshots and estimate removal blast radius",
		Args:  cobra.ExactArgs(2),
		Run:   runDiff, // Defined in cmd_diff.go
	}

	blastCmd = &cobra.Command{
		Use:   "blast [component]",
		Short: "Show what a change to one component could ripple into",
		Args:  cobra.ExactArgs(1),
		Run:   runBlast, // Defined in cmd_blast.go
	}

	riskCmd = &cobra.Command{
		Use:   "risk",
		Short: "Rank components by coupling and size risk",
		Run:   runRisk, // Defined in cmd_risk.go
	}

	federateCmd = &cobra.Command{
		Use:   "federate [snapshot...]",
		Short: "Merge independently scanned snapshots into one graph",
		Args:  cobra.MinimumNArgs(1),
		Run:   runFederate, // Defined in cmd_federate.go
	}
)

func init() {
	reportCmd.Flags().StringVar(&reportSnapshotPath, "snapshot", "", "analyze an existing snapshot file instead of scanning")
	reportCmd.Flags().StringSliceVar(&scannerArgv, "scanner", nil, "scanner argv to produce the snapshot")
	reportCmd.Flags().StringVar(&repoPath, "repo", ".", "repository root handed to the scanner")
	reportCmd.Flags().StringVar(&repoName, "repo-name", "", "repository name recorded in metadata")
	reportCmd.Flags().StringVar(&governancePath, "governance", "governance.yaml", "governance configuration file")
	reportCmd.Flags().StringVar(&policyPath, "policy", "archsignal-policy.yaml", "policy gate configuration file")

	scanCmd.Flags().StringSliceVar(&scannerArgv, "scanner", nil, "scanner argv to produce the snapshot")
	scanCmd.Flags().StringVar(&repoPath, "repo", ".", "repository root handed to the scanner")
	scanCmd.Flags().StringVar(&repoName, "repo-name", "", "repository name recorded in metadata")
	scanCmd.Flags().StringVar(&outPath, "out", "snapshot.json", "snapshot output file")

	diffCmd.Flags().IntVar(&maxDepth, "depth", 0, "blast radius hop bound (default 5)")

	blastCmd.Flags().StringVar(&snapshotPath, "snapshot", "snapshot.json", "snapshot file to traverse")
	blastCmd.Flags().IntVar(&maxDepth, "depth", 0, "hop bound (default 5)")

	riskCmd.Flags().StringVar(&snapshotPath, "snapshot", "snapshot.json", "snapshot file to score")
	riskCmd.Flags().IntVar(&topN, "top", 10, "show the N riskiest components")
	riskCmd.Flags().StringVar(&formatName, "format", "text", "output format: text, json, or html")

	federateCmd.Flags().StringVar(&strategyName, "strategy", "newest", "conflict strategy: newest or priority")
	federateCmd.Flags().StringSliceVar(&priorityRepos, "priority", nil, "repository priority order for the priority strategy")
	federateCmd.Flags().StringVar(&outPath, "out", "federated.json", "merged snapshot output file")

	rootCmd.AddCommand(reportCmd, scanCmd, diffCmd, blastCmd, riskCmd, federateCmd)
}
