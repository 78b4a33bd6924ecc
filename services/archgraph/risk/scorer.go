// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package risk scores components by coupling and size.
package risk

import (
	"context"
	"fmt"
	"sort"

	"github.com/archsignal/archsignal/services/archgraph/finding"
	"github.com/archsignal/archsignal/services/archgraph/snapshot"
)

// Level buckets a risk score.
type Level string

const (
	LevelCritical Level = "critical"
	LevelHigh     Level = "high"
	LevelMedium   Level = "medium"
	LevelLow      Level = "low"
)

// Config holds the scoring weights and bucket thresholds.
//
// Coupling dominates size: incoming edges weigh double outgoing ones,
// and lines of code only contribute at a 1/50 scale. The defaults are a
// policy constant; override them deliberately, not per run.
type Config struct {
	// FanInWeight scales the incoming coupling count.
	FanInWeight float64 `yaml:"fan_in_weight"`

	// FanOutWeight scales the outgoing coupling count.
	FanOutWeight float64 `yaml:"fan_out_weight"`

	// SizeDivisor scales the size proxy down.
	SizeDivisor float64 `yaml:"size_divisor" validate:"gt=0"`

	// CriticalAt, HighAt, MediumAt are the bucket boundaries; a score
	// below MediumAt is low risk.
	CriticalAt float64 `yaml:"critical_at"`
	HighAt     float64 `yaml:"high_at"`
	MediumAt   float64 `yaml:"medium_at"`
}

// DefaultConfig returns the documented policy weights.
func DefaultConfig() Config {
	return Config{
		FanInWeight:  2,
		FanOutWeight: 1,
		SizeDivisor:  50,
		CriticalAt:   50,
		HighAt:       30,
		MediumAt:     15,
	}
}

// Score is the risk assessment of one component.
type Score struct {
	// ComponentID identifies the scored component.
	ComponentID string `json:"componentId"`

	// Name is carried for display so callers need no second lookup.
	Name string `json:"name"`

	// FanIn and FanOut are the coupling counts that fed the score.
	FanIn  int `json:"fanIn"`
	FanOut int `json:"fanOut"`

	// SizeProxy is LinesOfCode when known, else the contained-member count.
	SizeProxy int `json:"sizeProxy"`

	// Value is the numeric score, always >= 0.
	Value float64 `json:"score"`

	// Level is the bucket derived from Value.
	Level Level `json:"level"`
}

// Stats aggregates bucket counts across all scored components.
type Stats struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// Report is the full risk assessment of one snapshot.
type Report struct {
	Scores []Score `json:"scores"`
	Stats  Stats   `json:"stats"`
}

// Count returns the number of components in the given bucket.
func (r *Report) Count(level Level) int {
	switch level {
	case LevelCritical:
		return r.Stats.Critical
	case LevelHigh:
		return r.Stats.High
	case LevelMedium:
		return r.Stats.Medium
	case LevelLow:
		return r.Stats.Low
	default:
		return 0
	}
}

// Scorer computes per-component risk scores.
//
// # Description
//
// Score = FanInWeight*fanIn + FanOutWeight*fanOut + sizeProxy/SizeDivisor,
// computed for every component (data objects are excluded). Given the
// same snapshot the ranking is bit-for-bit reproducible: ties in score
// break by component name ascending, then id ascending.
//
// # Thread Safety
//
// Safe for concurrent use; the scorer holds no mutable state.
type Scorer struct {
	config Config
}

// NewScorer creates a scorer. A nil config uses DefaultConfig.
func NewScorer(config *Config) *Scorer {
	cfg := DefaultConfig()
	if config != nil {
		cfg = *config
	}
	return &Scorer{config: cfg}
}

// Score assesses every component in the snapshot, ranked most risky first.
func (s *Scorer) Score(snap *snapshot.Snapshot, idx *snapshot.Index) *Report {
	report := &Report{Scores: make([]Score, 0, len(snap.Components))}

	for i := range snap.Components {
		c := &snap.Components[i]
		fanIn := idx.FanIn(c.ID)
		fanOut := idx.FanOut(c.ID)
		sizeProxy := c.LinesOfCode
		if sizeProxy == 0 {
			sizeProxy = idx.MemberCount(c.ID)
		}

		value := s.config.FanInWeight*float64(fanIn) +
			s.config.FanOutWeight*float64(fanOut) +
			float64(sizeProxy)/s.config.SizeDivisor

		score := Score{
			ComponentID: c.ID,
			Name:        c.Name,
			FanIn:       fanIn,
			FanOut:      fanOut,
			SizeProxy:   sizeProxy,
			Value:       value,
			Level:       s.bucket(value),
		}
		report.Scores = append(report.Scores, score)

		switch score.Level {
		case LevelCritical:
			report.Stats.Critical++
		case LevelHigh:
			report.Stats.High++
		case LevelMedium:
			report.Stats.Medium++
		case LevelLow:
			report.Stats.Low++
		}
	}

	sort.SliceStable(report.Scores, func(i, j int) bool {
		a, b := report.Scores[i], report.Scores[j]
		if a.Value != b.Value {
			return a.Value > b.Value
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ComponentID < b.ComponentID
	})

	return report
}

func (s *Scorer) bucket(value float64) Level {
	switch {
	case value >= s.config.CriticalAt:
		return LevelCritical
	case value >= s.config.HighAt:
		return LevelHigh
	case value >= s.config.MediumAt:
		return LevelMedium
	default:
		return LevelLow
	}
}

// Producer adapts the scorer into a finding producer so high-risk
// components surface through the same aggregate the policy gates read.
type Producer struct {
	scorer *Scorer
}

// NewProducer wraps a scorer. A nil scorer uses default weights.
func NewProducer(scorer *Scorer) *Producer {
	if scorer == nil {
		scorer = NewScorer(nil)
	}
	return &Producer{scorer: scorer}
}

// Name implements finding.Producer.
func (p *Producer) Name() string { return "risk-scorer" }

// Analyze emits one architecture finding per critical or high risk component.
func (p *Producer) Analyze(ctx context.Context, snap *snapshot.Snapshot, idx *snapshot.Index) ([]finding.Finding, error) {
	return FindingsFromReport(p.scorer.Score(snap, idx), idx), ctx.Err()
}

// FindingsFromReport converts critical and high scores into findings.
func FindingsFromReport(report *Report, idx *snapshot.Index) []finding.Finding {
	findings := make([]finding.Finding, 0)
	for _, score := range report.Scores {
		var severity finding.Severity
		switch score.Level {
		case LevelCritical:
			severity = finding.SeverityCritical
		case LevelHigh:
			severity = finding.SeverityHigh
		default:
			continue
		}

		f := finding.Finding{
			Category: finding.CategoryArchitecture,
			Severity: severity,
			RuleID:   "ARCH-RISK-SCORE",
			Title:    fmt.Sprintf("High coupling risk: %s", score.Name),
			Description: fmt.Sprintf("component %s scored %.1f (fan-in %d, fan-out %d, size %d)",
				score.ComponentID, score.Value, score.FanIn, score.FanOut, score.SizeProxy),
			Occurrences: 1,
		}
		if comp, ok := idx.Component(score.ComponentID); ok {
			f.FilePath = comp.FilePath
			f.LineNumber = comp.LineNumber
		}
		findings = append(findings, f)
	}
	return findings
}
