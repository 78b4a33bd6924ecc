// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package policy

import (
	"strings"

	"github.com/archsignal/archsignal/services/archgraph/finding"
	"github.com/archsignal/archsignal/services/archgraph/governance"
	"github.com/archsignal/archsignal/services/archgraph/risk"
)

// Gate names, in the fixed declared order used for reporting.
const (
	GateMigrationCritical    = "migration-critical-count"
	GateMigrationHigh        = "migration-high-count"
	GateArchitectureCritical = "architecture-critical-count"
	GateArchitectureHigh     = "architecture-high-count"
	GateGodComponent         = "god-component-count"
	GateRiskCritical         = "risk-critical-component-count"
	GateRiskHigh             = "risk-high-component-count"
	GateGovernanceViolation  = "governance-violation-count"
)

// godComponentRuleID matches the patterns analyzer's rule id.
const godComponentRuleID = "ARCH-GOD-COMPONENT"

// GateResult is the outcome of one evaluated gate.
type GateResult struct {
	// Name is the gate name.
	Name string `json:"name"`

	// Passed reports actual <= threshold.
	Passed bool `json:"passed"`

	// Actual is the measured value; Threshold is the configured limit.
	Actual    int `json:"actual"`
	Threshold int `json:"threshold"`
}

// Result is the verdict over all evaluated gates.
type Result struct {
	// Passed is the logical AND over every evaluated gate. With no gates
	// configured it is true: absence of policy is not failure.
	Passed bool `json:"passed"`

	// Gates lists evaluated gates in the fixed declared order. Gates with
	// no configured threshold are skipped and do not appear.
	Gates []GateResult `json:"gates"`
}

// Engine evaluates findings, risk stats, and governance violations
// against configured thresholds.
//
// # Description
//
// Findings whose rule id is suppressed (case-insensitive) are excluded
// before any gate check. Each configured gate independently checks
// actual <= threshold; the producer of a finding is irrelevant, only its
// category, severity, and rule id matter.
//
// # Thread Safety
//
// Safe for concurrent use; each call owns its accumulators.
type Engine struct {
	config *Config
}

// NewEngine creates an engine. A nil config evaluates no gates.
func NewEngine(config *Config) *Engine {
	return &Engine{config: config}
}

// Evaluate applies every configured gate.
func (e *Engine) Evaluate(findings []finding.Finding, riskReport *risk.Report, violations []governance.Violation) *Result {
	result := &Result{Passed: true, Gates: make([]GateResult, 0, 8)}
	if e.config == nil {
		return result
	}

	findings = e.suppress(findings)

	riskCritical, riskHigh := 0, 0
	if riskReport != nil {
		riskCritical = riskReport.Stats.Critical
		riskHigh = riskReport.Stats.High
	}

	gates := e.config.Gates
	e.check(result, GateMigrationCritical, gates.Migration.CriticalCount,
		finding.CountBy(findings, finding.CategoryMigration, finding.SeverityCritical))
	e.check(result, GateMigrationHigh, gates.Migration.HighCount,
		finding.CountBy(findings, finding.CategoryMigration, finding.SeverityHigh))
	e.check(result, GateArchitectureCritical, gates.Architecture.CriticalCount,
		finding.CountBy(findings, finding.CategoryArchitecture, finding.SeverityCritical))
	e.check(result, GateArchitectureHigh, gates.Architecture.HighCount,
		finding.CountBy(findings, finding.CategoryArchitecture, finding.SeverityHigh))
	e.check(result, GateGodComponent, gates.Architecture.GodComponentCount,
		countRule(findings, godComponentRuleID))
	e.check(result, GateRiskCritical, gates.Risk.CriticalComponentCount, riskCritical)
	e.check(result, GateRiskHigh, gates.Risk.HighComponentCount, riskHigh)
	e.check(result, GateGovernanceViolation, gates.Architecture.GovernanceViolationCount, len(violations))

	return result
}

// check evaluates one gate; a nil threshold skips it entirely.
func (e *Engine) check(result *Result, name string, threshold *int, actual int) {
	if threshold == nil {
		return
	}
	passed := actual <= *threshold
	if !passed {
		result.Passed = false
	}
	result.Gates = append(result.Gates, GateResult{
		Name:      name,
		Passed:    passed,
		Actual:    actual,
		Threshold: *threshold,
	})
}

// suppress drops findings whose rule id is configured away.
func (e *Engine) suppress(findings []finding.Finding) []finding.Finding {
	if len(e.config.Suppress) == 0 {
		return findings
	}
	suppressed := make(map[string]bool, len(e.config.Suppress))
	for _, id := range e.config.Suppress {
		suppressed[strings.ToLower(id)] = true
	}
	kept := make([]finding.Finding, 0, len(findings))
	for _, f := range findings {
		if !suppressed[strings.ToLower(f.RuleID)] {
			kept = append(kept, f)
		}
	}
	return kept
}

func countRule(findings []finding.Finding, ruleID string) int {
	n := 0
	for _, f := range findings {
		if f.RuleID == ruleID {
			n += f.Occurrences
		}
	}
	return n
}
