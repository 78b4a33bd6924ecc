// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package finding defines the common finding shape shared by every
// producer: the governance engine, graph-metric analyzers, and external
// pattern analyzers alike. The policy gate engine stays agnostic to which
// producer emitted a finding.
package finding

import (
	"context"
	"fmt"
	"sort"

	"github.com/archsignal/archsignal/services/archgraph/snapshot"
)

// Category groups findings by remediation concern.
type Category string

const (
	CategoryMigration     Category = "migration"
	CategoryArchitecture  Category = "architecture"
	CategoryModernization Category = "modernization"
	CategorySecurity      Category = "security"
)

// IsValid reports whether the category is recognized.
func (c Category) IsValid() bool {
	switch c {
	case CategoryMigration, CategoryArchitecture, CategoryModernization, CategorySecurity:
		return true
	default:
		return false
	}
}

// Severity ranks findings. The order is total:
// critical > high > medium > low > info.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// severityRank maps severities to ordinals for comparison. Higher is
// more severe.
var severityRank = map[Severity]int{
	SeverityCritical: 5,
	SeverityHigh:     4,
	SeverityMedium:   3,
	SeverityLow:      2,
	SeverityInfo:     1,
}

// IsValid reports whether the severity is recognized.
func (s Severity) IsValid() bool {
	_, ok := severityRank[s]
	return ok
}

// Rank returns the ordinal of the severity, 0 when unrecognized.
func (s Severity) Rank() int {
	return severityRank[s]
}

// Compare returns a negative value when s is less severe than other,
// zero when equal, positive when more severe.
func Compare(s, other Severity) int {
	return s.Rank() - other.Rank()
}

// ParseSeverity parses a wire string into a Severity.
func ParseSeverity(v string) (Severity, error) {
	s := Severity(v)
	if !s.IsValid() {
		return "", fmt.Errorf("invalid severity: %s", v)
	}
	return s, nil
}

// Finding is one aggregated issue discovered by a producer.
type Finding struct {
	// Category groups the finding by remediation concern.
	Category Category `json:"category"`

	// Severity ranks the finding.
	Severity Severity `json:"severity"`

	// RuleID names the rule or detector that produced the finding.
	RuleID string `json:"ruleId"`

	// Title is a one-line summary.
	Title string `json:"title"`

	// Description explains the issue and the suggested remediation.
	Description string `json:"description,omitempty"`

	// FilePath and LineNumber locate the finding, when known.
	FilePath   string `json:"filePath,omitempty"`
	LineNumber int    `json:"lineNumber,omitempty"`

	// Occurrences is the aggregation count, always >= 1.
	Occurrences int `json:"occurrences"`
}

// Producer analyzes one immutable snapshot and returns findings.
//
// # Description
//
// Producers form an explicit, caller-constructed list passed into the
// orchestrating call; there is no process-wide registration. Each
// producer reads the shared snapshot and index and writes only to its
// own result slice, so producers run safely in parallel.
type Producer interface {
	// Name identifies the producer for logs and telemetry.
	Name() string

	// Analyze inspects the snapshot and returns zero or more findings.
	Analyze(ctx context.Context, snap *snapshot.Snapshot, idx *snapshot.Index) ([]Finding, error)
}

// Merge combines findings from independent producers into one
// deterministically ordered list.
//
// # Description
//
// Ordering is the single synchronization point between parallel
// producers: severity descending, then category ascending, then
// occurrences descending, then rule id and title ascending. The sort is
// total, so output is identical regardless of producer completion order.
func Merge(sets ...[]Finding) []Finding {
	total := 0
	for _, s := range sets {
		total += len(s)
	}
	merged := make([]Finding, 0, total)
	for _, s := range sets {
		merged = append(merged, s...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if a.Severity.Rank() != b.Severity.Rank() {
			return a.Severity.Rank() > b.Severity.Rank()
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		if a.Occurrences != b.Occurrences {
			return a.Occurrences > b.Occurrences
		}
		if a.RuleID != b.RuleID {
			return a.RuleID < b.RuleID
		}
		return a.Title < b.Title
	})

	return merged
}

// CountBy sums occurrences of findings with the exact category and severity.
func CountBy(findings []Finding, category Category, severity Severity) int {
	n := 0
	for _, f := range findings {
		if f.Category == category && f.Severity == severity {
			n += f.Occurrences
		}
	}
	return n
}
