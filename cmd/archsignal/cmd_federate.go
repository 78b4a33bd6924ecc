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

	"github.com/archsignal/archsignal/services/archgraph/federation"
	"github.com/archsignal/archsignal/services/archgraph/snapshot"
	"github.com/archsignal/archsignal/services/archgraph/telemetry"
)

// runFederate is the CLI handler for the "archsignal federate" command.
//
// # Exit Codes
//
//   - 0: Merged snapshot written
//   - 2: Input unreadable, unknown strategy, or output unwritable
func runFederate(cmd *cobra.Command, args []string) {
	snapshots := make([]*snapshot.Snapshot, 0, len(args))
	for _, path := range args {
		snap, err := snapshot.Load(path)
		if err != nil {
			Fatal("load snapshot", err)
		}
		snapshots = append(snapshots, snap)
	}

	merger, err := federation.NewMerger(federation.Strategy(strategyName), priorityRepos)
	if err != nil {
		Fatal("federation setup failed", err)
	}

	federated := merger.Federate(snapshots)
	if err := snapshot.Save(outPath, federated.Snapshot); err != nil {
		Fatal("write merged snapshot", err)
	}

	if metrics, err := telemetry.Default(); err == nil && len(federated.Conflicts) > 0 {
		metrics.FederationConflictsTotal.Add(cmd.Context(), int64(len(federated.Conflicts)))
	}

	for _, conflict := range federated.Conflicts {
		fmt.Fprintf(os.Stderr, "conflict %s: kept %s over %s (%s)\n",
			conflict.EntityID, conflict.Winner, conflict.Loser, conflict.Reason)
	}
	fmt.Printf("federated %d snapshots into %s (%d components, %d conflicts)\n",
		len(args), outPath, len(federated.Snapshot.Components), len(federated.Conflicts))
	os.Exit(CLIExitSuccess)
}
