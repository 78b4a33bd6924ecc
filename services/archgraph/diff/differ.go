// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package diff compares two snapshots and estimates removal impact.
package diff

import (
	"context"
	"sort"

	"github.com/archsignal/archsignal/services/archgraph/impact"
	"github.com/archsignal/archsignal/services/archgraph/snapshot"
)

// Delta is the result of comparing a baseline snapshot to a current one.
type Delta struct {
	// Added lists component ids present in current but not baseline.
	Added []string `json:"added"`

	// Removed lists component ids present in baseline but not current.
	Removed []string `json:"removed"`

	// BlastRadius lists still-alive components reachable from any removed
	// component in the baseline graph: the code a removal may break.
	BlastRadius []string `json:"blastRadius"`
}

// Differ computes snapshot deltas.
//
// # Description
//
// Component identity is the stable id fingerprint, never the object
// reference. For every removed component the blast radius runs against
// the baseline graph, the only graph where its edges still exist; other
// removed components are excluded from the union so the radius models
// surviving code only.
//
// # Thread Safety
//
// Safe for concurrent use.
type Differ struct {
	analyzer *impact.Analyzer
	maxDepth int
}

// NewDiffer creates a differ. Depth values < 1 use impact.DefaultMaxDepth.
func NewDiffer(maxDepth int) *Differ {
	if maxDepth < 1 {
		maxDepth = impact.DefaultMaxDepth
	}
	return &Differ{
		analyzer: impact.NewAnalyzer(),
		maxDepth: maxDepth,
	}
}

// Diff compares baseline to current.
func (d *Differ) Diff(ctx context.Context, baseline, current *snapshot.Snapshot) *Delta {
	baseIDs := componentIDs(baseline)
	currIDs := componentIDs(current)

	delta := &Delta{
		Added:       make([]string, 0),
		Removed:     make([]string, 0),
		BlastRadius: make([]string, 0),
	}

	for id := range currIDs {
		if !baseIDs[id] {
			delta.Added = append(delta.Added, id)
		}
	}
	for id := range baseIDs {
		if !currIDs[id] {
			delta.Removed = append(delta.Removed, id)
		}
	}
	sort.Strings(delta.Added)
	sort.Strings(delta.Removed)

	if len(delta.Removed) == 0 {
		return delta
	}

	removed := make(map[string]bool, len(delta.Removed))
	for _, id := range delta.Removed {
		removed[id] = true
	}

	baseIdx := snapshot.NewIndex(baseline)
	affected := make(map[string]bool)
	for _, id := range delta.Removed {
		radius := d.analyzer.FromRoot(ctx, baseIdx, id, d.maxDepth)
		for affectedID := range radius.Affected() {
			if !removed[affectedID] {
				affected[affectedID] = true
			}
		}
	}

	for id := range affected {
		delta.BlastRadius = append(delta.BlastRadius, id)
	}
	sort.Strings(delta.BlastRadius)

	return delta
}

func componentIDs(snap *snapshot.Snapshot) map[string]bool {
	ids := make(map[string]bool, len(snap.Components))
	for i := range snap.Components {
		ids[snap.Components[i].ID] = true
	}
	return ids
}
