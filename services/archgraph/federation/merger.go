// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package federation merges independently scanned snapshots into one
// graph with deterministic identity conflict resolution.
package federation

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/archsignal/archsignal/services/archgraph/snapshot"
)

// Strategy selects how identity collisions are resolved.
type Strategy string

const (
	// StrategyNewest keeps the version from the snapshot with the latest
	// scan timestamp; ties keep the first encountered.
	StrategyNewest Strategy = "newest"

	// StrategyPriority keeps the version from the snapshot whose
	// repository appears earliest in the supplied priority list.
	// Repositories absent from the list fall back to newest among
	// themselves.
	StrategyPriority Strategy = "priority"
)

// IsValid reports whether the strategy is recognized.
func (s Strategy) IsValid() bool {
	return s == StrategyNewest || s == StrategyPriority
}

// Conflict records one resolved identity collision for audit.
type Conflict struct {
	// ID uniquely identifies the log entry.
	ID string `json:"id"`

	// EntityID is the colliding component or data object id.
	EntityID string `json:"entityId"`

	// Winner is the repository whose version was kept, and Reason says why.
	Winner string `json:"winner"`
	Reason string `json:"reason"`

	// Loser is the repository whose version was discarded; LoserValue is
	// the discarded component, kept so the resolution is auditable.
	Loser          string              `json:"loser"`
	LoserTimestamp time.Time           `json:"loserTimestamp"`
	LoserValue     *snapshot.Component `json:"loserValue,omitempty"`
}

// Federated is a merged snapshot plus its conflict log.
type Federated struct {
	Snapshot  *snapshot.Snapshot `json:"snapshot"`
	Conflicts []Conflict         `json:"conflicts"`
}

// Merger federates snapshots.
//
// # Description
//
// Components and data objects merge under the chosen strategy; identity
// collisions are never errors, always resolved deterministically and
// logged. Relationships are unioned by their own id and deliberately not
// deduplicated across snapshots: the same logical edge scanned from two
// repositories is evidence of redundant coupling, not noise.
//
// Inputs are canonicalized by (scan timestamp, repository) before the
// merge, so the output does not depend on argument order.
//
// # Thread Safety
//
// Safe for concurrent use; each call owns its accumulators.
type Merger struct {
	strategy Strategy
	priority map[string]int
}

// NewMerger creates a merger. The priority list is only consulted by
// StrategyPriority.
func NewMerger(strategy Strategy, priority []string) (*Merger, error) {
	if !strategy.IsValid() {
		return nil, fmt.Errorf("unknown federation strategy %q", strategy)
	}
	ranks := make(map[string]int, len(priority))
	for i, repo := range priority {
		if _, dup := ranks[repo]; !dup {
			ranks[repo] = i
		}
	}
	return &Merger{strategy: strategy, priority: ranks}, nil
}

// entry tracks the current winner for one id during the merge.
type entry struct {
	component  *snapshot.Component
	dataObject *snapshot.DataObject
	repo       string
	timestamp  time.Time
}

// Federate merges the snapshots into one graph.
func (m *Merger) Federate(snapshots []*snapshot.Snapshot) *Federated {
	ordered := make([]*snapshot.Snapshot, len(snapshots))
	copy(ordered, snapshots)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i].Metadata, ordered[j].Metadata
		if !a.ScanTimestamp.Equal(b.ScanTimestamp) {
			return a.ScanTimestamp.Before(b.ScanTimestamp)
		}
		return a.Repository < b.Repository
	})

	winners := make(map[string]*entry)
	idOrder := make([]string, 0)
	conflicts := make([]Conflict, 0)
	merged := &snapshot.Snapshot{
		Components:    []snapshot.Component{},
		DataObjects:   []snapshot.DataObject{},
		Relationships: []snapshot.Relationship{},
		Diagnostics:   []snapshot.Diagnostic{},
	}

	for _, snap := range ordered {
		repo := snap.Metadata.Repository
		ts := snap.Metadata.ScanTimestamp

		for i := range snap.Components {
			c := snap.Components[i]
			if c.Repository == "" {
				c.Repository = repo
			}
			challenger := &entry{component: &c, repo: repo, timestamp: ts}
			m.place(winners, &idOrder, &conflicts, c.ID, challenger)
		}
		for i := range snap.DataObjects {
			d := snap.DataObjects[i]
			if d.Repository == "" {
				d.Repository = repo
			}
			challenger := &entry{dataObject: &d, repo: repo, timestamp: ts}
			m.place(winners, &idOrder, &conflicts, d.ID, challenger)
		}

		merged.Relationships = append(merged.Relationships, snap.Relationships...)
		merged.Diagnostics = append(merged.Diagnostics, snap.Diagnostics...)
		merged.Duration += snap.Duration

		if ts.After(merged.Metadata.ScanTimestamp) {
			merged.Metadata.ScanTimestamp = ts
		}
	}

	for _, id := range idOrder {
		e := winners[id]
		if e.component != nil {
			merged.Components = append(merged.Components, *e.component)
		} else {
			merged.DataObjects = append(merged.DataObjects, *e.dataObject)
		}
	}

	merged.Metadata.Repository = federatedName(ordered)
	merged.Metadata.ScanID = uuid.NewString()

	return &Federated{Snapshot: merged, Conflicts: conflicts}
}

// place installs the challenger for id, resolving any collision.
func (m *Merger) place(winners map[string]*entry, idOrder *[]string, conflicts *[]Conflict, id string, challenger *entry) {
	current, collision := winners[id]
	if !collision {
		winners[id] = challenger
		*idOrder = append(*idOrder, id)
		return
	}

	keepChallenger, reason := m.resolve(current, challenger)
	winner, loser := current, challenger
	if keepChallenger {
		winner, loser = challenger, current
		winners[id] = challenger
	}

	*conflicts = append(*conflicts, Conflict{
		ID:             uuid.NewString(),
		EntityID:       id,
		Winner:         winner.repo,
		Reason:         reason,
		Loser:          loser.repo,
		LoserTimestamp: loser.timestamp,
		LoserValue:     loser.component,
	})
}

// resolve decides whether the challenger beats the current winner.
func (m *Merger) resolve(current, challenger *entry) (bool, string) {
	if m.strategy == StrategyPriority {
		curRank, curListed := m.rank(current.repo)
		chRank, chListed := m.rank(challenger.repo)
		switch {
		case curListed && chListed && curRank != chRank:
			if chRank < curRank {
				return true, fmt.Sprintf("repository %s has higher priority", challenger.repo)
			}
			return false, fmt.Sprintf("repository %s has higher priority", current.repo)
		case curListed && !chListed:
			return false, fmt.Sprintf("repository %s is prioritized", current.repo)
		case !curListed && chListed:
			return true, fmt.Sprintf("repository %s is prioritized", challenger.repo)
		}
		// Same rank or both unlisted: fall through to newest.
	}

	if challenger.timestamp.After(current.timestamp) {
		return true, fmt.Sprintf("scan %s is newer", challenger.timestamp.Format(time.RFC3339))
	}
	return false, "kept first encountered"
}

func (m *Merger) rank(repo string) (int, bool) {
	r, ok := m.priority[repo]
	return r, ok
}

func federatedName(ordered []*snapshot.Snapshot) string {
	seen := make(map[string]bool)
	names := make([]string, 0, len(ordered))
	for _, snap := range ordered {
		repo := snap.Metadata.Repository
		if repo != "" && !seen[repo] {
			seen[repo] = true
			names = append(names, repo)
		}
	}
	sort.Strings(names)
	if len(names) == 0 {
		return "federated"
	}
	name := names[0]
	for _, n := range names[1:] {
		name += "+" + n
	}
	return name
}
