// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package archgraph orchestrates the analysis engines over one immutable
// snapshot: risk scoring, governance evaluation, finding production, and
// policy gating compose into a single report.
package archgraph

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/archsignal/archsignal/services/archgraph/finding"
	"github.com/archsignal/archsignal/services/archgraph/governance"
	"github.com/archsignal/archsignal/services/archgraph/policy"
	"github.com/archsignal/archsignal/services/archgraph/risk"
	"github.com/archsignal/archsignal/services/archgraph/snapshot"
	"github.com/archsignal/archsignal/services/archgraph/telemetry"
)

// Options configures a Service.
//
// Producers is the explicit, caller-constructed analyzer list; there is
// no implicit process-wide registration. Built-in governance and risk
// findings are added by the service itself and must not be duplicated
// in Producers.
type Options struct {
	// RiskConfig overrides the documented scoring weights. Nil uses defaults.
	RiskConfig *risk.Config

	// Governance declares layers and rules. Nil or empty means no
	// constraint configured.
	Governance *governance.Config

	// Policy declares threshold gates. Nil means no gates: reports pass
	// by default.
	Policy *policy.Config

	// Producers are additional finding producers (pattern analyzers,
	// external detectors) run alongside the built-in ones.
	Producers []finding.Producer

	// Metrics receives instrument updates. Nil disables telemetry.
	Metrics *telemetry.Metrics
}

// ReportResult is the composed outcome of one full analysis.
type ReportResult struct {
	// Risk is the full risk report.
	Risk *risk.Report `json:"risk"`

	// Findings is the merged, deterministically ordered finding set.
	Findings []finding.Finding `json:"findings"`

	// Violations lists governance violations in relationship order.
	Violations []governance.Violation `json:"violations"`

	// Policy is the gate verdict.
	Policy *policy.Result `json:"policy"`

	// Diagnostics carries the snapshot's scan diagnostics plus any
	// structural validation warnings. Diagnostics never abort analysis.
	Diagnostics []snapshot.Diagnostic `json:"diagnostics"`
}

// Service runs the full analysis pipeline.
//
// # Description
//
// The snapshot is immutable and shared; every engine reads it through
// the same prebuilt index and writes only to its own accumulator.
// Producers run concurrently; the deterministic finding merge is the
// only synchronization point.
//
// # Thread Safety
//
// Safe for concurrent use after New returns.
type Service struct {
	scorer     *risk.Scorer
	govEngine  *governance.Engine
	gateEngine *policy.Engine
	producers  []finding.Producer
	metrics    *telemetry.Metrics
}

// New constructs a service from options.
func New(opts Options) (*Service, error) {
	govCfg := opts.Governance
	if govCfg == nil {
		govCfg = &governance.Config{}
	}
	govEngine, err := governance.NewEngine(govCfg)
	if err != nil {
		return nil, err
	}

	return &Service{
		scorer:     risk.NewScorer(opts.RiskConfig),
		govEngine:  govEngine,
		gateEngine: policy.NewEngine(opts.Policy),
		producers:  opts.Producers,
		metrics:    opts.Metrics,
	}, nil
}

// Report runs the full pipeline over one snapshot.
//
// # Description
//
// Control flow: governance and risk evaluate the snapshot alongside the
// configured producers, their findings merge into one aggregate, and the
// policy gates judge the aggregate. A producer error cancels the run;
// snapshot diagnostics never do.
func (s *Service) Report(ctx context.Context, snap *snapshot.Snapshot) (*ReportResult, error) {
	if snap == nil {
		return nil, ErrNilSnapshot
	}

	ctx, span := telemetry.StartSpan(ctx, "archgraph", "Service.Report",
		trace.WithAttributes(attribute.String("repository", snap.Metadata.Repository)),
	)
	defer span.End()

	start := time.Now()
	idx := snapshot.NewIndex(snap)

	diagnostics := make([]snapshot.Diagnostic, 0, len(snap.Diagnostics))
	diagnostics = append(diagnostics, snap.Diagnostics...)
	diagnostics = append(diagnostics, snapshot.Validate(snap)...)

	violations := s.govEngine.Evaluate(snap, idx)
	riskReport := s.scorer.Score(snap, idx)

	builtIn := []finding.Finding{}
	builtIn = append(builtIn, governance.FindingsFromViolations(violations)...)
	builtIn = append(builtIn, governance.DetectCycles(snap, idx)...)
	builtIn = append(builtIn, risk.FindingsFromReport(riskReport, idx)...)

	sets := make([][]finding.Finding, len(s.producers))
	g, gctx := errgroup.WithContext(ctx)
	for i, producer := range s.producers {
		g.Go(func() error {
			found, err := producer.Analyze(gctx, snap, idx)
			s.recordProducer(gctx, producer.Name(), len(found), err)
			if err != nil {
				return err
			}
			sets[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		telemetry.RecordError(ctx, err)
		return nil, err
	}

	findings := finding.Merge(append(sets, builtIn)...)
	verdict := s.gateEngine.Evaluate(findings, riskReport, violations)

	s.recordReport(ctx, snap, verdict, time.Since(start))
	slog.Info("Report complete",
		slog.String("repository", snap.Metadata.Repository),
		slog.Int("findings", len(findings)),
		slog.Int("violations", len(violations)),
		slog.Bool("passed", verdict.Passed),
	)

	return &ReportResult{
		Risk:        riskReport,
		Findings:    findings,
		Violations:  violations,
		Policy:      verdict,
		Diagnostics: diagnostics,
	}, nil
}

func (s *Service) recordProducer(ctx context.Context, name string, found int, err error) {
	if s.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	s.metrics.ProducerRunsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("producer", name),
		attribute.String("status", status),
	))
	if found > 0 {
		s.metrics.FindingsTotal.Add(ctx, int64(found), metric.WithAttributes(
			attribute.String("producer", name),
		))
	}
}

func (s *Service) recordReport(ctx context.Context, snap *snapshot.Snapshot, verdict *policy.Result, elapsed time.Duration) {
	if s.metrics == nil {
		return
	}
	outcome := "pass"
	if !verdict.Passed {
		outcome = "fail"
	}
	s.metrics.ReportsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("verdict", outcome)))
	s.metrics.ReportDuration.Record(ctx, elapsed.Seconds())
	s.metrics.SnapshotComponents.Record(ctx, int64(len(snap.Components)))
}
