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

// Index is a prebuilt lookup structure over one snapshot.
//
// # Description
//
// Every analysis engine needs the same handful of lookups: entity by id,
// coupling adjacency in both directions, and containment membership
// counts. Building them once per snapshot keeps the engines O(V+E) and
// keeps them from re-deriving each other's bookkeeping.
//
// Dangling relationship endpoints are excluded from adjacency so that
// traversal never leaves the snapshot.
//
// # Thread Safety
//
// Index is read-only after NewIndex returns and safe for concurrent use.
type Index struct {
	components  map[string]*Component
	dataObjects map[string]*DataObject

	// out and in hold coupling (non-Contains) adjacency by entity id,
	// restricted to edges whose both endpoints exist in the snapshot.
	out map[string][]*Relationship
	in  map[string][]*Relationship

	// members counts direct Contains children per parent id.
	members map[string]int

	// fanIn and fanOut count coupling edges including dangling ones on the
	// far side, since a half-resolved edge still evidences coupling on the
	// resolved endpoint.
	fanIn  map[string]int
	fanOut map[string]int
}

// NewIndex builds an Index over the given snapshot.
func NewIndex(snap *Snapshot) *Index {
	idx := &Index{
		components:  make(map[string]*Component, len(snap.Components)),
		dataObjects: make(map[string]*DataObject, len(snap.DataObjects)),
		out:         make(map[string][]*Relationship),
		in:          make(map[string][]*Relationship),
		members:     make(map[string]int),
		fanIn:       make(map[string]int),
		fanOut:      make(map[string]int),
	}

	for i := range snap.Components {
		c := &snap.Components[i]
		if _, dup := idx.components[c.ID]; dup {
			continue // first occurrence wins; validation reports the duplicate
		}
		idx.components[c.ID] = c
	}
	for i := range snap.DataObjects {
		d := &snap.DataObjects[i]
		if _, dup := idx.dataObjects[d.ID]; dup {
			continue
		}
		idx.dataObjects[d.ID] = d
	}

	for i := range snap.Relationships {
		r := &snap.Relationships[i]
		if r.Kind == RelContains {
			if idx.Has(r.SourceID) {
				idx.members[r.SourceID]++
			}
			continue
		}
		if idx.Has(r.SourceID) {
			idx.fanOut[r.SourceID]++
		}
		if idx.Has(r.TargetID) {
			idx.fanIn[r.TargetID]++
		}
		if idx.Has(r.SourceID) && idx.Has(r.TargetID) {
			idx.out[r.SourceID] = append(idx.out[r.SourceID], r)
			idx.in[r.TargetID] = append(idx.in[r.TargetID], r)
		}
	}

	return idx
}

// Has reports whether the id resolves to a component or data object.
func (idx *Index) Has(id string) bool {
	if _, ok := idx.components[id]; ok {
		return true
	}
	_, ok := idx.dataObjects[id]
	return ok
}

// Component returns the component with the given id, if present.
func (idx *Index) Component(id string) (*Component, bool) {
	c, ok := idx.components[id]
	return c, ok
}

// DataObject returns the data object with the given id, if present.
func (idx *Index) DataObject(id string) (*DataObject, bool) {
	d, ok := idx.dataObjects[id]
	return d, ok
}

// Outgoing returns coupling edges leaving the entity. Both endpoints of
// every returned edge resolve within the snapshot.
func (idx *Index) Outgoing(id string) []*Relationship {
	return idx.out[id]
}

// Incoming returns coupling edges arriving at the entity. Both endpoints
// of every returned edge resolve within the snapshot.
func (idx *Index) Incoming(id string) []*Relationship {
	return idx.in[id]
}

// FanIn returns the count of coupling edges targeting the entity,
// including edges whose source is dangling.
func (idx *Index) FanIn(id string) int {
	return idx.fanIn[id]
}

// FanOut returns the count of coupling edges leaving the entity,
// including edges whose target is dangling.
func (idx *Index) FanOut(id string) int {
	return idx.fanOut[id]
}

// MemberCount returns the number of direct Contains children of the entity.
func (idx *Index) MemberCount(id string) int {
	return idx.members[id]
}
