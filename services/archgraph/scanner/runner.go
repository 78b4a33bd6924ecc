// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package scanner runs external source scanners and collects their
// snapshots. Scanning is the only place in the system where true
// suspension applies; everything downstream is CPU-bound graph work.
package scanner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/archsignal/archsignal/services/archgraph/snapshot"
)

// Spec describes one scanner invocation.
type Spec struct {
	// Command is the scanner argv; Command[0] is the binary.
	Command []string

	// Dir is the working directory, usually the repository root.
	Dir string

	// Repository names the scanned repository in the result metadata
	// when the scanner does not set one itself.
	Repository string
}

// Result is the outcome of one scan.
type Result struct {
	// Snapshot is the decoded scan output. Never nil on a nil error:
	// a failed or cancelled scan degrades to a snapshot carrying error
	// diagnostics rather than aborting downstream analysis.
	Snapshot *snapshot.Snapshot

	// Raw holds the scanner's verbatim stdout bytes so persistence can
	// round-trip unknown wire fields untouched. Nil when the scanner
	// produced no usable output.
	Raw []byte
}

// Runner executes scanner subprocesses.
//
// # Description
//
// Stdout (the snapshot JSON) and stderr (one diagnostic per line) are
// consumed concurrently with process execution; draining both pipes
// while the process runs is what prevents deadlock on output buffering.
// Cancellation is cooperative: a cancelled context kills the subprocess
// and the scan degrades to an error diagnostic, not a hard failure.
//
// # Thread Safety
//
// Safe for concurrent use; each Scan owns its process and buffers.
type Runner struct{}

// NewRunner creates a runner.
func NewRunner() *Runner {
	return &Runner{}
}

// Scan executes the scanner and decodes its snapshot.
//
// # Outputs
//
//   - *Result: the snapshot, possibly degraded with diagnostics.
//   - error: only for infrastructure failures, an empty command or a
//     process that could not start. Runtime failures degrade instead.
func (r *Runner) Scan(ctx context.Context, spec Spec) (*Result, error) {
	if len(spec.Command) == 0 {
		return nil, fmt.Errorf("scanner command is empty")
	}

	start := time.Now()
	cmd := exec.CommandContext(ctx, spec.Command[0], spec.Command[1:]...)
	cmd.Dir = spec.Dir

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("scanner stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("scanner stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start scanner %s: %w", spec.Command[0], err)
	}

	var (
		wg        sync.WaitGroup
		raw       []byte
		readErr   error
		stderrMsg []string
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		raw, readErr = io.ReadAll(stdout)
	}()
	go func() {
		defer wg.Done()
		lines := bufio.NewScanner(stderr)
		lines.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for lines.Scan() {
			if line := lines.Text(); line != "" {
				stderrMsg = append(stderrMsg, line)
			}
		}
	}()
	wg.Wait()

	waitErr := cmd.Wait()
	elapsed := time.Since(start)

	diags := make([]snapshot.Diagnostic, 0, len(stderrMsg))
	for _, msg := range stderrMsg {
		diags = append(diags, snapshot.Diagnostic{
			Severity: snapshot.DiagnosticWarning,
			Message:  msg,
		})
	}

	if ctx.Err() != nil {
		slog.Warn("Scan cancelled",
			slog.String("scanner", spec.Command[0]),
			slog.Duration("elapsed", elapsed),
		)
		diags = append(diags, snapshot.Diagnostic{
			Severity: snapshot.DiagnosticError,
			Message:  fmt.Sprintf("scan aborted: %v", ctx.Err()),
		})
		return r.degraded(spec, elapsed, diags), nil
	}

	if waitErr != nil || readErr != nil {
		err := waitErr
		if err == nil {
			err = readErr
		}
		slog.Warn("Scanner exited abnormally",
			slog.String("scanner", spec.Command[0]),
			slog.String("error", err.Error()),
		)
		diags = append(diags, snapshot.Diagnostic{
			Severity: snapshot.DiagnosticError,
			Message:  fmt.Sprintf("scanner %s failed: %v", spec.Command[0], err),
		})
	}

	snap, decodeErr := snapshot.DecodeBytes(raw)
	if decodeErr != nil {
		diags = append(diags, snapshot.Diagnostic{
			Severity: snapshot.DiagnosticError,
			Message:  fmt.Sprintf("scanner output unreadable: %v", decodeErr),
		})
		return r.degraded(spec, elapsed, diags), nil
	}

	snap.Diagnostics = append(snap.Diagnostics, diags...)
	if snap.Metadata.Repository == "" {
		snap.Metadata.Repository = spec.Repository
	}
	if snap.Metadata.ScanTimestamp.IsZero() {
		snap.Metadata.ScanTimestamp = start.UTC()
	}
	if snap.Metadata.ScanID == "" {
		snap.Metadata.ScanID = uuid.NewString()
	}
	if snap.Duration == 0 {
		snap.Duration = elapsed.Milliseconds()
	}

	slog.Info("Scan complete",
		slog.String("repository", snap.Metadata.Repository),
		slog.Int("components", len(snap.Components)),
		slog.Int("relationships", len(snap.Relationships)),
		slog.Duration("elapsed", elapsed),
	)

	return &Result{Snapshot: snap, Raw: raw}, nil
}

// degraded builds an empty snapshot that still carries the failure story.
func (r *Runner) degraded(spec Spec, elapsed time.Duration, diags []snapshot.Diagnostic) *Result {
	return &Result{
		Snapshot: &snapshot.Snapshot{
			Metadata: snapshot.Metadata{
				Repository:    spec.Repository,
				ScanTimestamp: time.Now().UTC(),
				ScanID:        uuid.NewString(),
			},
			Components:    []snapshot.Component{},
			DataObjects:   []snapshot.DataObject{},
			Relationships: []snapshot.Relationship{},
			Diagnostics:   diags,
			Duration:      elapsed.Milliseconds(),
		},
	}
}
