// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package patterns detects structural anti-patterns from graph metrics.
package patterns

import (
	"context"
	"fmt"

	"github.com/archsignal/archsignal/services/archgraph/finding"
	"github.com/archsignal/archsignal/services/archgraph/snapshot"
)

// GodComponentThresholds configures god-component detection.
type GodComponentThresholds struct {
	// Degree is the coupling degree (fan-in + fan-out) above which a
	// component is suspicious when it also has many members.
	Degree int `yaml:"degree"`

	// Members is the contained-member count that, combined with Degree,
	// marks a god component.
	Members int `yaml:"members"`

	// DegreeAlone marks a god component on coupling degree by itself,
	// regardless of member count.
	DegreeAlone int `yaml:"degree_alone"`
}

// DefaultGodComponentThresholds returns the documented defaults.
func DefaultGodComponentThresholds() GodComponentThresholds {
	return GodComponentThresholds{
		Degree:      20,
		Members:     10,
		DegreeAlone: 40,
	}
}

// GodComponentAnalyzer flags components that concentrate too much of the
// graph around themselves.
//
// # Description
//
// A component is a god component when its coupling degree and member
// count both exceed their thresholds, or when its degree alone exceeds
// DegreeAlone. Detection reads only graph metrics; it needs no source
// text. Findings carry rule id ARCH-GOD-COMPONENT and feed the
// god-component-count policy gate.
//
// # Thread Safety
//
// Safe for concurrent use.
type GodComponentAnalyzer struct {
	thresholds GodComponentThresholds
}

// NewGodComponentAnalyzer creates an analyzer. A nil thresholds uses defaults.
func NewGodComponentAnalyzer(thresholds *GodComponentThresholds) *GodComponentAnalyzer {
	t := DefaultGodComponentThresholds()
	if thresholds != nil {
		t = *thresholds
	}
	return &GodComponentAnalyzer{thresholds: t}
}

// Name implements finding.Producer.
func (a *GodComponentAnalyzer) Name() string { return "god-component" }

// Analyze emits one finding per god component, in snapshot order.
func (a *GodComponentAnalyzer) Analyze(ctx context.Context, snap *snapshot.Snapshot, idx *snapshot.Index) ([]finding.Finding, error) {
	findings := make([]finding.Finding, 0)

	for i := range snap.Components {
		c := &snap.Components[i]
		degree := idx.FanIn(c.ID) + idx.FanOut(c.ID)
		members := idx.MemberCount(c.ID)

		overCombined := degree >= a.thresholds.Degree && members >= a.thresholds.Members
		overAlone := degree >= a.thresholds.DegreeAlone
		if !overCombined && !overAlone {
			continue
		}

		severity := finding.SeverityHigh
		if degree >= 2*a.thresholds.Degree {
			severity = finding.SeverityCritical
		}

		findings = append(findings, finding.Finding{
			Category: finding.CategoryArchitecture,
			Severity: severity,
			RuleID:   "ARCH-GOD-COMPONENT",
			Title:    fmt.Sprintf("God component: %s", c.Name),
			Description: fmt.Sprintf("component %s has coupling degree %d and %d members; split responsibilities before it accretes more",
				c.ID, degree, members),
			FilePath:    c.FilePath,
			LineNumber:  c.LineNumber,
			Occurrences: 1,
		})
	}

	return findings, ctx.Err()
}
