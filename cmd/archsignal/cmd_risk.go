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

	"github.com/spf13/cobra"

	"github.com/archsignal/archsignal/services/archgraph/risk"
	"github.com/archsignal/archsignal/services/archgraph/snapshot"
)

// runRisk is the CLI handler for the "archsignal risk" command.
//
// # Exit Codes
//
//   - 0: Report produced
//   - 2: Snapshot unreadable or unknown format
func runRisk(cmd *cobra.Command, args []string) {
	snap, err := snapshot.Load(snapshotPath)
	if err != nil {
		Fatal("load snapshot", err)
	}

	idx := snapshot.NewIndex(snap)
	report := risk.NewScorer(nil).Score(snap, idx)

	switch formatName {
	case "json":
		if err := OutputJSON(report); err != nil {
			Fatal("encode report", err)
		}
	case "html":
		fmt.Print(risk.RenderHTML(report, topN))
	case "text":
		fmt.Printf("components: %d  critical: %d  high: %d  medium: %d  low: %d\n",
			len(report.Scores), report.Stats.Critical, report.Stats.High,
			report.Stats.Medium, report.Stats.Low)

		limit := topN
		if limit > len(report.Scores) {
			limit = len(report.Scores)
		}
		for _, score := range report.Scores[:limit] {
			fmt.Printf("%8.1f  %-8s  %s (in:%d out:%d size:%d)\n",
				score.Value, score.Level, score.Name, score.FanIn, score.FanOut, score.SizeProxy)
		}
	default:
		Fatal(fmt.Sprintf("unknown format %q: want text, json, or html", formatName), nil)
	}
	os.Exit(CLIExitSuccess)
}
