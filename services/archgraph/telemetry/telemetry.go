// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package telemetry provides OpenTelemetry instruments for the analysis
// engines. Instruments use the global providers; exporter wiring stays
// with the embedding process, not the core.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// StartSpan creates a span from the global tracer.
//
// Thread Safety: Safe for concurrent use.
func StartSpan(ctx context.Context, tracerName, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, spanName, opts...)
}

// RecordError records err on the current span and marks it failed.
// Nil err or an unrecording span is a no-op.
func RecordError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// Metrics contains pre-defined instruments for the analysis engines.
// All metrics use the "archgraph_" prefix for consistent naming.
//
// Thread Safety: Safe for concurrent use after creation.
type Metrics struct {
	// ReportsTotal counts full report runs by verdict.
	ReportsTotal metric.Int64Counter

	// ReportDuration records full report duration in seconds.
	ReportDuration metric.Float64Histogram

	// ProducerRunsTotal counts finding producer runs by producer and status.
	ProducerRunsTotal metric.Int64Counter

	// FindingsTotal counts findings emitted, by producer.
	FindingsTotal metric.Int64Counter

	// SnapshotComponents records components per analyzed snapshot.
	SnapshotComponents metric.Int64Histogram

	// FederationConflictsTotal counts resolved identity collisions.
	FederationConflictsTotal metric.Int64Counter
}

// NewMetrics creates the instrument set on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.ReportsTotal, err = meter.Int64Counter("archgraph_reports_total",
		metric.WithDescription("Total full report runs by verdict"),
	); err != nil {
		return nil, fmt.Errorf("create reports counter: %w", err)
	}

	if m.ReportDuration, err = meter.Float64Histogram("archgraph_report_duration_seconds",
		metric.WithDescription("Full report duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("create report duration histogram: %w", err)
	}

	if m.ProducerRunsTotal, err = meter.Int64Counter("archgraph_producer_runs_total",
		metric.WithDescription("Finding producer runs by producer and status"),
	); err != nil {
		return nil, fmt.Errorf("create producer runs counter: %w", err)
	}

	if m.FindingsTotal, err = meter.Int64Counter("archgraph_findings_total",
		metric.WithDescription("Findings emitted by producer"),
	); err != nil {
		return nil, fmt.Errorf("create findings counter: %w", err)
	}

	if m.SnapshotComponents, err = meter.Int64Histogram("archgraph_snapshot_components",
		metric.WithDescription("Components per analyzed snapshot"),
	); err != nil {
		return nil, fmt.Errorf("create snapshot components histogram: %w", err)
	}

	if m.FederationConflictsTotal, err = meter.Int64Counter("archgraph_federation_conflicts_total",
		metric.WithDescription("Resolved identity collisions during federation"),
	); err != nil {
		return nil, fmt.Errorf("create federation conflicts counter: %w", err)
	}

	return m, nil
}

// Default returns metrics bound to the global meter provider.
func Default() (*Metrics, error) {
	return NewMetrics(otel.Meter("archsignal/archgraph"))
}
