// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package impact computes hop-bounded blast radii over the snapshot graph.
package impact

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/archsignal/archsignal/services/archgraph/snapshot"
)

// DefaultMaxDepth bounds traversal when the caller gives no depth.
const DefaultMaxDepth = 5

// NotFoundError reports a root query that matched no component.
type NotFoundError struct {
	// Query is the root query that failed to resolve.
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no component matches %q", e.Query)
}

// Radius is the result of one blast-radius traversal.
type Radius struct {
	// Root is the id the query resolved to.
	Root string `json:"root"`

	// Candidates lists every id the query matched, in snapshot order.
	// When the query was ambiguous the first candidate won; callers
	// should surface the full set so users can confirm the choice.
	Candidates []string `json:"candidates"`

	// AffectedByDepth groups reachable component ids by hop distance,
	// each depth sorted ascending. The root is not included.
	AffectedByDepth map[int][]string `json:"affectedByDepth"`

	// TotalAffected counts all reachable components, excluding the root.
	TotalAffected int `json:"totalAffected"`

	// Truncated is set when a context deadline cut traversal short.
	Truncated bool `json:"truncated,omitempty"`
}

// Affected returns the union of all depths as a set.
func (r *Radius) Affected() map[string]bool {
	set := make(map[string]bool, r.TotalAffected)
	for _, ids := range r.AffectedByDepth {
		for _, id := range ids {
			set[id] = true
		}
	}
	return set
}

// Analyzer traverses the relationship graph outward from a root.
//
// # Description
//
// Traversal is breadth-first over coupling (non-Contains) edges, treated
// as undirected: removing or changing a node can ripple along both
// incoming and outgoing edges. A node is visited once, at its shallowest
// depth, which also makes cycles safe.
//
// # Thread Safety
//
// Safe for concurrent use; each call owns its accumulators.
type Analyzer struct{}

// NewAnalyzer creates a blast-radius analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Resolve maps a root query to a concrete entity id.
//
// # Description
//
// Exact id match wins. Otherwise the query is matched case-insensitively
// as a substring of each component's id or name, first match in snapshot
// iteration order; all matches are returned so ambiguity is visible.
//
// # Outputs
//
//   - string: the winning id.
//   - []string: every candidate, winning id first.
//   - error: *NotFoundError when nothing matches.
func (a *Analyzer) Resolve(snap *snapshot.Snapshot, idx *snapshot.Index, query string) (string, []string, error) {
	if idx.Has(query) {
		return query, []string{query}, nil
	}

	needle := strings.ToLower(query)
	candidates := make([]string, 0, 1)
	for i := range snap.Components {
		c := &snap.Components[i]
		if strings.Contains(strings.ToLower(c.ID), needle) ||
			strings.Contains(strings.ToLower(c.Name), needle) {
			candidates = append(candidates, c.ID)
		}
	}
	for i := range snap.DataObjects {
		d := &snap.DataObjects[i]
		if strings.Contains(strings.ToLower(d.ID), needle) ||
			strings.Contains(strings.ToLower(d.Name), needle) {
			candidates = append(candidates, d.ID)
		}
	}

	if len(candidates) == 0 {
		return "", nil, &NotFoundError{Query: query}
	}
	return candidates[0], candidates, nil
}

// BlastRadius resolves the root query and traverses outward.
//
// # Inputs
//
//   - ctx: deadline checked between depth levels.
//   - snap, idx: the immutable snapshot and its index.
//   - rootQuery: exact id or case-insensitive substring.
//   - maxDepth: hop bound; values < 1 use DefaultMaxDepth.
//
// # Outputs
//
//   - *Radius: per-depth affected sets, deterministic for a given snapshot.
//   - error: *NotFoundError when the query resolves to nothing.
func (a *Analyzer) BlastRadius(ctx context.Context, snap *snapshot.Snapshot, idx *snapshot.Index, rootQuery string, maxDepth int) (*Radius, error) {
	root, candidates, err := a.Resolve(snap, idx, rootQuery)
	if err != nil {
		return nil, err
	}
	radius := a.FromRoot(ctx, idx, root, maxDepth)
	radius.Candidates = candidates
	return radius, nil
}

// FromRoot traverses outward from an already-resolved root id.
func (a *Analyzer) FromRoot(ctx context.Context, idx *snapshot.Index, root string, maxDepth int) *Radius {
	if maxDepth < 1 {
		maxDepth = DefaultMaxDepth
	}

	radius := &Radius{
		Root:            root,
		Candidates:      []string{root},
		AffectedByDepth: make(map[int][]string),
	}

	visited := map[string]bool{root: true}
	frontier := []string{root}

	for depth := 1; depth <= maxDepth && len(frontier) > 0; depth++ {
		select {
		case <-ctx.Done():
			radius.Truncated = true
			return radius
		default:
		}

		next := make([]string, 0)
		for _, id := range frontier {
			for _, rel := range idx.Outgoing(id) {
				if !visited[rel.TargetID] {
					visited[rel.TargetID] = true
					next = append(next, rel.TargetID)
				}
			}
			for _, rel := range idx.Incoming(id) {
				if !visited[rel.SourceID] {
					visited[rel.SourceID] = true
					next = append(next, rel.SourceID)
				}
			}
		}

		if len(next) > 0 {
			sort.Strings(next)
			radius.AffectedByDepth[depth] = next
			radius.TotalAffected += len(next)
		}
		frontier = next
	}

	return radius
}
