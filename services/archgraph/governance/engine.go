// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package governance

import (
	"context"
	"fmt"
	"sort"

	"github.com/archsignal/archsignal/services/archgraph/finding"
	"github.com/archsignal/archsignal/services/archgraph/snapshot"
)

// Violation is one disallowed cross-layer dependency.
type Violation struct {
	// Rule is the deny rule that matched.
	Rule Rule `json:"rule"`

	// Relationship is the offending edge.
	Relationship snapshot.Relationship `json:"relationship"`

	// Explanation is a human-readable account of the violation.
	Explanation string `json:"explanation"`
}

// Engine evaluates layering rules against a snapshot.
//
// # Description
//
// Every coupling (non-Contains) relationship is resolved against the
// declared layers by namespace pattern. A component may belong to
// multiple layers; every matching (source-layer, target-layer) pair is
// evaluated. Deny rules emit violations; allow rules only document
// intent. Relationships whose endpoints resolve to no declared layer
// never violate anything.
//
// # Thread Safety
//
// Safe for concurrent use after NewEngine returns.
type Engine struct {
	layers []*compiledLayer
	rules  []Rule
}

// NewEngine compiles the configuration into an engine.
func NewEngine(cfg *Config) (*Engine, error) {
	layers, err := compileLayers(cfg.Layers)
	if err != nil {
		return nil, err
	}
	return &Engine{layers: layers, rules: cfg.Rules}, nil
}

// Evaluate returns every layering violation in the snapshot, in
// relationship order for deterministic output.
func (e *Engine) Evaluate(snap *snapshot.Snapshot, idx *snapshot.Index) []Violation {
	violations := make([]Violation, 0)
	if len(e.layers) == 0 || len(e.rules) == 0 {
		return violations
	}

	for i := range snap.Relationships {
		rel := &snap.Relationships[i]
		if !rel.Kind.IsCoupling() {
			continue
		}

		srcLayers := e.layersOf(idx, rel.SourceID)
		if len(srcLayers) == 0 {
			continue
		}
		dstLayers := e.layersOf(idx, rel.TargetID)
		if len(dstLayers) == 0 {
			continue
		}

		for _, rule := range e.rules {
			if rule.Action != ActionDeny {
				continue
			}
			if !srcLayers[rule.From] || !dstLayers[rule.To] {
				continue
			}
			violations = append(violations, Violation{
				Rule:         rule,
				Relationship: *rel,
				Explanation: fmt.Sprintf("%s: %s -> %s crosses %s -> %s (%s)",
					rule.Name, rel.SourceID, rel.TargetID, rule.From, rule.To, rel.Kind),
			})
		}
	}

	return violations
}

// layersOf returns the set of layer names the entity's namespace matches.
func (e *Engine) layersOf(idx *snapshot.Index, id string) map[string]bool {
	namespace, ok := namespaceOf(idx, id)
	if !ok {
		return nil
	}
	var matched map[string]bool
	for _, layer := range e.layers {
		if layer.matches(namespace) {
			if matched == nil {
				matched = make(map[string]bool, 2)
			}
			matched[layer.name] = true
		}
	}
	return matched
}

func namespaceOf(idx *snapshot.Index, id string) (string, bool) {
	if c, ok := idx.Component(id); ok {
		return c.Namespace, true
	}
	if d, ok := idx.DataObject(id); ok {
		return d.Namespace, true
	}
	return "", false
}

// DetectCycles flags namespaces that depend on each other directly.
//
// # Description
//
// Builds the namespace dependency graph from coupling relationships and
// reports every bidirectional pair: namespace A depending on B while B
// depends on A. Longer cycles are out of contract for this check. One
// finding per unordered pair, sorted for deterministic output.
func DetectCycles(snap *snapshot.Snapshot, idx *snapshot.Index) []finding.Finding {
	edges := make(map[string]map[string]bool)
	for i := range snap.Relationships {
		rel := &snap.Relationships[i]
		if !rel.Kind.IsCoupling() {
			continue
		}
		src, okSrc := namespaceOf(idx, rel.SourceID)
		dst, okDst := namespaceOf(idx, rel.TargetID)
		if !okSrc || !okDst || src == "" || dst == "" || src == dst {
			continue
		}
		if edges[src] == nil {
			edges[src] = make(map[string]bool)
		}
		edges[src][dst] = true
	}

	pairs := make([]string, 0)
	seen := make(map[string]bool)
	for src, targets := range edges {
		for dst := range targets {
			if !edges[dst][src] {
				continue
			}
			a, b := src, dst
			if a > b {
				a, b = b, a
			}
			key := a + " <-> " + b
			if !seen[key] {
				seen[key] = true
				pairs = append(pairs, key)
			}
		}
	}
	sort.Strings(pairs)

	findings := make([]finding.Finding, 0, len(pairs))
	for _, pair := range pairs {
		findings = append(findings, finding.Finding{
			Category:    finding.CategoryArchitecture,
			Severity:    finding.SeverityHigh,
			RuleID:      "ARCH-NAMESPACE-CYCLE",
			Title:       fmt.Sprintf("Circular namespace dependency: %s", pair),
			Description: "the namespaces depend on each other directly; extract the shared contract or invert one dependency",
			Occurrences: 1,
		})
	}
	return findings
}

// Producer adapts the engine into the common finding shape.
type Producer struct {
	engine *Engine
}

// NewProducer wraps an engine.
func NewProducer(engine *Engine) *Producer {
	return &Producer{engine: engine}
}

// Name implements finding.Producer.
func (p *Producer) Name() string { return "governance" }

// Analyze emits one architecture finding per violation plus any direct
// namespace cycles.
func (p *Producer) Analyze(ctx context.Context, snap *snapshot.Snapshot, idx *snapshot.Index) ([]finding.Finding, error) {
	findings := FindingsFromViolations(p.engine.Evaluate(snap, idx))
	findings = append(findings, DetectCycles(snap, idx)...)
	return findings, ctx.Err()
}

// FindingsFromViolations converts violations into the common finding shape.
func FindingsFromViolations(violations []Violation) []finding.Finding {
	findings := make([]finding.Finding, 0, len(violations))
	for _, v := range violations {
		title := v.Rule.Message
		if title == "" {
			title = fmt.Sprintf("Layering rule %s violated", v.Rule.Name)
		}
		findings = append(findings, finding.Finding{
			Category:    finding.CategoryArchitecture,
			Severity:    finding.SeverityHigh,
			RuleID:      v.Rule.Name,
			Title:       title,
			Description: v.Explanation,
			Occurrences: 1,
		})
	}
	return findings
}
