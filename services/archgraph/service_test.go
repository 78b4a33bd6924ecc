// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package archgraph

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/archsignal/archsignal/services/archgraph/finding"
	"github.com/archsignal/archsignal/services/archgraph/governance"
	"github.com/archsignal/archsignal/services/archgraph/patterns"
	"github.com/archsignal/archsignal/services/archgraph/policy"
	"github.com/archsignal/archsignal/services/archgraph/snapshot"
)

// layeredFixture builds a snapshot with one layering violation and one
// dangling edge.
func layeredFixture(t *testing.T) *snapshot.Snapshot {
	t.Helper()

	return &snapshot.Snapshot{
		Metadata: snapshot.Metadata{Repository: "shop"},
		Components: []snapshot.Component{
			{ID: "ctrl", Name: "OrderController", Kind: snapshot.KindType, Namespace: "Shop.Controllers.Orders"},
			{ID: "repo", Name: "OrderRepository", Kind: snapshot.KindType, Namespace: "Shop.Data.Orders"},
		},
		Relationships: []snapshot.Relationship{
			{ID: "r1", SourceID: "ctrl", TargetID: "repo", Kind: snapshot.RelCalls, Confidence: 1},
			{ID: "r2", SourceID: "ctrl", TargetID: "ghost", Kind: snapshot.RelCalls, Confidence: 0.5},
		},
	}
}

func layeredOptions(t *testing.T) Options {
	t.Helper()

	zero := 0
	return Options{
		Governance: &governance.Config{
			Layers: []governance.Layer{
				{Name: "Controllers", Pattern: "*.Controllers.*"},
				{Name: "Data", Pattern: "*.Data.*"},
			},
			Rules: []governance.Rule{
				{Name: "no-controller-data-access", From: "Controllers", To: "Data", Action: governance.ActionDeny},
			},
		},
		Policy: &policy.Config{
			Gates: policy.Gates{
				Architecture: policy.ArchitectureGates{GovernanceViolationCount: &zero},
			},
		},
		Producers: []finding.Producer{patterns.NewGodComponentAnalyzer(nil)},
	}
}

func TestReport_NilSnapshot(t *testing.T) {
	service, err := New(Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = service.Report(context.Background(), nil)
	if !errors.Is(err, ErrNilSnapshot) {
		t.Errorf("error = %v, want ErrNilSnapshot", err)
	}
}

func TestReport_ComposesEngines(t *testing.T) {
	service, err := New(layeredOptions(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	result, err := service.Report(context.Background(), layeredFixture(t))
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	if len(result.Violations) != 1 {
		t.Fatalf("violations = %d, want 1", len(result.Violations))
	}
	if result.Policy.Passed {
		t.Error("violation against a zero threshold must fail the gate")
	}
	if result.Risk == nil || len(result.Risk.Scores) != 2 {
		t.Errorf("risk report = %+v", result.Risk)
	}

	var governanceFinding bool
	for _, f := range result.Findings {
		if f.RuleID == "no-controller-data-access" {
			governanceFinding = true
		}
	}
	if !governanceFinding {
		t.Error("governance violation missing from merged findings")
	}

	// The dangling edge surfaces as a validation diagnostic, not a failure.
	if len(result.Diagnostics) == 0 {
		t.Error("expected a diagnostic for the dangling edge")
	}
}

func TestReport_PassesWithoutPolicy(t *testing.T) {
	opts := layeredOptions(t)
	opts.Policy = nil

	service, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	result, err := service.Report(context.Background(), layeredFixture(t))
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	if !result.Policy.Passed {
		t.Error("no gates configured must pass, violations notwithstanding")
	}
	if len(result.Violations) != 1 {
		t.Error("violations must still be reported without gates")
	}
}

func TestReport_Deterministic(t *testing.T) {
	service, err := New(layeredOptions(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	snap := layeredFixture(t)

	first, err := service.Report(context.Background(), snap)
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	second, err := service.Report(context.Background(), snap)
	if err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("repeated reports over the same snapshot diverged")
	}
}

type failingProducer struct{}

func (failingProducer) Name() string { return "failing" }

func (failingProducer) Analyze(context.Context, *snapshot.Snapshot, *snapshot.Index) ([]finding.Finding, error) {
	return nil, errors.New("analyzer crashed")
}

func TestReport_ProducerErrorCancelsRun(t *testing.T) {
	opts := layeredOptions(t)
	opts.Producers = append(opts.Producers, failingProducer{})

	service, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = service.Report(context.Background(), layeredFixture(t))
	if err == nil || err.Error() != "analyzer crashed" {
		t.Errorf("error = %v, want the producer's error", err)
	}
}
