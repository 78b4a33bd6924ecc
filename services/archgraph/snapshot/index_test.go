// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package snapshot

import (
	"testing"
	"time"
)

// buildTestSnapshot creates a small snapshot with coupling, containment,
// and one dangling edge.
//
// Shape:
//
//	svc  --calls-->      repo
//	svc  --contains-->   svcMethod
//	svc  --calls-->      ghost (dangling target)
//	repo --references--> orders (data object)
func buildTestSnapshot(t *testing.T) *Snapshot {
	t.Helper()

	return &Snapshot{
		Metadata: Metadata{
			Repository:    "shop",
			ScanTimestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		Components: []Component{
			{ID: "svc", Name: "OrderService", Kind: KindType, Namespace: "Shop.Services"},
			{ID: "svcMethod", Name: "PlaceOrder", Kind: KindMethod, Namespace: "Shop.Services"},
			{ID: "repo", Name: "OrderRepository", Kind: KindType, Namespace: "Shop.Data"},
		},
		DataObjects: []DataObject{
			{ID: "orders", Name: "Orders", Kind: DataKindTable},
		},
		Relationships: []Relationship{
			{ID: "r1", SourceID: "svc", TargetID: "repo", Kind: RelCalls, Confidence: 1.0},
			{ID: "r2", SourceID: "svc", TargetID: "svcMethod", Kind: RelContains, Confidence: 1.0},
			{ID: "r3", SourceID: "svc", TargetID: "ghost", Kind: RelCalls, Confidence: 0.8},
			{ID: "r4", SourceID: "repo", TargetID: "orders", Kind: RelReferences, Confidence: 1.0},
		},
	}
}

func TestNewIndex_Lookups(t *testing.T) {
	idx := NewIndex(buildTestSnapshot(t))

	if !idx.Has("svc") || !idx.Has("orders") {
		t.Error("expected components and data objects to resolve")
	}
	if idx.Has("ghost") {
		t.Error("dangling target must not resolve")
	}

	c, ok := idx.Component("repo")
	if !ok || c.Name != "OrderRepository" {
		t.Errorf("Component(repo) = %+v, %v", c, ok)
	}
	d, ok := idx.DataObject("orders")
	if !ok || d.Kind != DataKindTable {
		t.Errorf("DataObject(orders) = %+v, %v", d, ok)
	}
}

func TestNewIndex_AdjacencyExcludesContainsAndDangling(t *testing.T) {
	idx := NewIndex(buildTestSnapshot(t))

	out := idx.Outgoing("svc")
	if len(out) != 1 {
		t.Fatalf("Outgoing(svc) = %d edges, want 1 (contains and dangling excluded)", len(out))
	}
	if out[0].TargetID != "repo" {
		t.Errorf("Outgoing(svc) target = %s, want repo", out[0].TargetID)
	}

	in := idx.Incoming("repo")
	if len(in) != 1 || in[0].SourceID != "svc" {
		t.Errorf("Incoming(repo) = %+v, want one edge from svc", in)
	}
	if len(idx.Incoming("svcMethod")) != 0 {
		t.Error("contains edges must not appear in coupling adjacency")
	}
}

func TestNewIndex_FanCountsIncludeDanglingEdges(t *testing.T) {
	idx := NewIndex(buildTestSnapshot(t))

	// svc has two coupling edges out: one resolved, one dangling.
	if got := idx.FanOut("svc"); got != 2 {
		t.Errorf("FanOut(svc) = %d, want 2", got)
	}
	if got := idx.FanIn("repo"); got != 1 {
		t.Errorf("FanIn(repo) = %d, want 1", got)
	}
	if got := idx.FanIn("orders"); got != 1 {
		t.Errorf("FanIn(orders) = %d, want 1", got)
	}
	if got := idx.FanIn("svc"); got != 0 {
		t.Errorf("FanIn(svc) = %d, want 0", got)
	}
}

func TestNewIndex_MemberCount(t *testing.T) {
	idx := NewIndex(buildTestSnapshot(t))

	if got := idx.MemberCount("svc"); got != 1 {
		t.Errorf("MemberCount(svc) = %d, want 1", got)
	}
	if got := idx.MemberCount("repo"); got != 0 {
		t.Errorf("MemberCount(repo) = %d, want 0", got)
	}
}

func TestNewIndex_DuplicateIDsFirstWins(t *testing.T) {
	snap := &Snapshot{
		Components: []Component{
			{ID: "dup", Name: "First", Kind: KindType},
			{ID: "dup", Name: "Second", Kind: KindType},
		},
	}
	idx := NewIndex(snap)

	c, ok := idx.Component("dup")
	if !ok || c.Name != "First" {
		t.Errorf("expected first occurrence to win, got %+v", c)
	}
}
