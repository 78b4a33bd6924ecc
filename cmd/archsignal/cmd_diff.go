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
	"os"

	"github.com/spf13/cobra"

	"github.com/archsignal/archsignal/services/archgraph/diff"
	"github.com/archsignal/archsignal/services/archgraph/snapshot"
)

// runDiff is the CLI handler for the "archsignal diff" command.
//
// # Exit Codes
//
//   - 0: Delta computed (possibly empty)
//   - 2: A snapshot could not be read
func runDiff(cmd *cobra.Command, args []string) {
	baseline, err := snapshot.Load(args[0])
	if err != nil {
		Fatal("load baseline", err)
	}
	current, err := snapshot.Load(args[1])
	if err != nil {
		Fatal("load current", err)
	}

	differ := diff.NewDiffer(maxDepth)
	delta := differ.Diff(cmd.Context(), baseline, current)

	if err := OutputJSON(delta); err != nil {
		Fatal("encode delta", err)
	}
	os.Exit(CLIExitSuccess)
}
