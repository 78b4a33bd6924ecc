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

import "fmt"

// Validate checks structural invariants of a snapshot.
//
// # Description
//
// Every violation yields a Diagnostic rather than an error: a snapshot
// with duplicate ids, dangling edges, or a broken containment forest is
// degraded, not unusable. Checks:
//
//   - duplicate component or data object ids
//   - relationship endpoints that resolve to nothing (dangling)
//   - Contains edges giving a component more than one parent
//   - confidence values outside [0, 1]
//   - unrecognized kind enum values
//
// # Outputs
//
//   - []Diagnostic: one warning per violation, empty when clean.
func Validate(snap *Snapshot) []Diagnostic {
	diags := make([]Diagnostic, 0)

	seen := make(map[string]bool, len(snap.Components)+len(snap.DataObjects))
	for i := range snap.Components {
		c := &snap.Components[i]
		if seen[c.ID] {
			diags = append(diags, warnf("duplicate id %q", c.ID))
		}
		seen[c.ID] = true
		if !c.Kind.IsValid() {
			diags = append(diags, warnf("component %q has unrecognized kind %q", c.ID, c.Kind))
		}
	}
	for i := range snap.DataObjects {
		d := &snap.DataObjects[i]
		if seen[d.ID] {
			diags = append(diags, warnf("duplicate id %q", d.ID))
		}
		seen[d.ID] = true
		if !d.Kind.IsValid() {
			diags = append(diags, warnf("data object %q has unrecognized kind %q", d.ID, d.Kind))
		}
	}

	parent := make(map[string]string)
	for i := range snap.Relationships {
		r := &snap.Relationships[i]
		if !r.Kind.IsValid() {
			diags = append(diags, warnf("relationship %q has unrecognized kind %q", r.ID, r.Kind))
		}
		if r.Confidence < 0 || r.Confidence > 1 {
			diags = append(diags, warnf("relationship %q has confidence %v outside [0,1]", r.ID, r.Confidence))
		}
		if !seen[r.SourceID] {
			diags = append(diags, warnf("relationship %q has dangling source %q", r.ID, r.SourceID))
		}
		if !seen[r.TargetID] {
			diags = append(diags, warnf("relationship %q has dangling target %q", r.ID, r.TargetID))
		}
		if r.Kind == RelContains {
			if prev, ok := parent[r.TargetID]; ok && prev != r.SourceID {
				diags = append(diags, warnf("component %q contained by both %q and %q", r.TargetID, prev, r.SourceID))
			}
			parent[r.TargetID] = r.SourceID
		}
	}

	return diags
}

func warnf(format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: DiagnosticWarning,
		Message:  fmt.Sprintf(format, args...),
	}
}
