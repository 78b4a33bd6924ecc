// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package diff

import (
	"context"
	"reflect"
	"testing"

	"github.com/archsignal/archsignal/services/archgraph/snapshot"
)

func snapshotOf(t *testing.T, ids []string, edges [][2]string) *snapshot.Snapshot {
	t.Helper()

	snap := &snapshot.Snapshot{}
	for _, id := range ids {
		snap.Components = append(snap.Components, snapshot.Component{
			ID: id, Name: id, Kind: snapshot.KindType,
		})
	}
	for i, e := range edges {
		snap.Relationships = append(snap.Relationships, snapshot.Relationship{
			ID: "r" + string(rune('0'+i)), SourceID: e[0], TargetID: e[1],
			Kind: snapshot.RelCalls, Confidence: 1,
		})
	}
	return snap
}

func TestDiff_RemovalBlastRadius(t *testing.T) {
	baseline := snapshotOf(t, []string{"A", "B", "C"}, [][2]string{{"A", "B"}, {"B", "C"}})
	current := snapshotOf(t, []string{"A", "C"}, nil)

	delta := NewDiffer(0).Diff(context.Background(), baseline, current)

	if !reflect.DeepEqual(delta.Removed, []string{"B"}) {
		t.Errorf("removed = %v, want [B]", delta.Removed)
	}
	if len(delta.Added) != 0 {
		t.Errorf("added = %v, want empty", delta.Added)
	}
	// Both neighbors of B in the baseline graph survive the removal.
	if !reflect.DeepEqual(delta.BlastRadius, []string{"A", "C"}) {
		t.Errorf("blast radius = %v, want [A C]", delta.BlastRadius)
	}
}

func TestDiff_IdenticalSnapshotsAreEmpty(t *testing.T) {
	snap := snapshotOf(t, []string{"A", "B"}, [][2]string{{"A", "B"}})

	delta := NewDiffer(0).Diff(context.Background(), snap, snap)

	if len(delta.Added)+len(delta.Removed)+len(delta.BlastRadius) != 0 {
		t.Errorf("self-diff not empty: %+v", delta)
	}
}

func TestDiff_AddedComponents(t *testing.T) {
	baseline := snapshotOf(t, []string{"A"}, nil)
	current := snapshotOf(t, []string{"A", "B", "C"}, nil)

	delta := NewDiffer(0).Diff(context.Background(), baseline, current)

	if !reflect.DeepEqual(delta.Added, []string{"B", "C"}) {
		t.Errorf("added = %v, want [B C]", delta.Added)
	}
	if len(delta.BlastRadius) != 0 {
		t.Errorf("additions alone carry no blast radius: %v", delta.BlastRadius)
	}
}

func TestDiff_RemovedNeighborsExcludedFromRadius(t *testing.T) {
	// A -> B -> C, with both B and C removed: only A survives to be hit.
	baseline := snapshotOf(t, []string{"A", "B", "C"}, [][2]string{{"A", "B"}, {"B", "C"}})
	current := snapshotOf(t, []string{"A"}, nil)

	delta := NewDiffer(0).Diff(context.Background(), baseline, current)

	if !reflect.DeepEqual(delta.Removed, []string{"B", "C"}) {
		t.Errorf("removed = %v, want [B C]", delta.Removed)
	}
	if !reflect.DeepEqual(delta.BlastRadius, []string{"A"}) {
		t.Errorf("blast radius = %v, want [A] only", delta.BlastRadius)
	}
}

func TestDiff_DepthBoundsRadius(t *testing.T) {
	// Chain A -> B -> C -> D; removing A with depth 1 reaches only B.
	baseline := snapshotOf(t, []string{"A", "B", "C", "D"},
		[][2]string{{"A", "B"}, {"B", "C"}, {"C", "D"}})
	current := snapshotOf(t, []string{"B", "C", "D"}, nil)

	delta := NewDiffer(1).Diff(context.Background(), baseline, current)

	if !reflect.DeepEqual(delta.BlastRadius, []string{"B"}) {
		t.Errorf("blast radius = %v, want [B] at depth 1", delta.BlastRadius)
	}
}
