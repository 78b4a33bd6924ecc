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
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/archsignal/archsignal/services/archgraph/impact"
	"github.com/archsignal/archsignal/services/archgraph/snapshot"
)

// runBlast is the CLI handler for the "archsignal blast" command.
//
// When a substring query matched more than one component the full
// candidate set is printed to stderr so the user can confirm which
// component actually won.
//
// # Exit Codes
//
//   - 0: Radius computed
//   - 2: Snapshot unreadable or query matched nothing
func runBlast(cmd *cobra.Command, args []string) {
	snap, err := snapshot.Load(snapshotPath)
	if err != nil {
		Fatal("load snapshot", err)
	}

	idx := snapshot.NewIndex(snap)
	analyzer := impact.NewAnalyzer()
	radius, err := analyzer.BlastRadius(cmd.Context(), snap, idx, args[0], maxDepth)
	if err != nil {
		var notFound *impact.NotFoundError
		if errors.As(err, &notFound) {
			Fatal(notFound.Error(), nil)
		}
		Fatal("blast radius failed", err)
	}

	if len(radius.Candidates) > 1 {
		fmt.Fprintf(os.Stderr, "query %q matched %d components; using %s\n",
			args[0], len(radius.Candidates), radius.Root)
		for _, candidate := range radius.Candidates {
			fmt.Fprintf(os.Stderr, "  %s\n", candidate)
		}
	}

	if err := OutputJSON(radius); err != nil {
		Fatal("encode radius", err)
	}
	os.Exit(CLIExitSuccess)
}
