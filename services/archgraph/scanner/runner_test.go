// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package scanner

import (
	"context"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/archsignal/archsignal/services/archgraph/snapshot"
)

const scannerOutput = `{"metadata":{"repository":""},"codeAtoms":[{"id":"a","name":"A","kind":"type"}],"sqlAtoms":[],"links":[],"diagnostics":[],"duration":0}`

// shCommand wraps a shell one-liner as a scanner argv.
func shCommand(t *testing.T, script string) []string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell-based scanner fixtures require a POSIX shell")
	}
	return []string{"/bin/sh", "-c", script}
}

func hasErrorDiagnostic(snap *snapshot.Snapshot) bool {
	for _, d := range snap.Diagnostics {
		if d.Severity == snapshot.DiagnosticError {
			return true
		}
	}
	return false
}

func TestScan_EmptyCommand(t *testing.T) {
	_, err := NewRunner().Scan(context.Background(), Spec{})
	if err == nil {
		t.Fatal("empty command must be an infrastructure error")
	}
}

func TestScan_UnstartableBinary(t *testing.T) {
	_, err := NewRunner().Scan(context.Background(), Spec{
		Command: []string{"/nonexistent/scanner-binary"},
	})
	if err == nil {
		t.Fatal("a binary that cannot start must be an infrastructure error")
	}
}

func TestScan_DecodesAndBackfillsMetadata(t *testing.T) {
	cmd := shCommand(t, "printf '%s' '"+scannerOutput+"'")

	result, err := NewRunner().Scan(context.Background(), Spec{
		Command:    cmd,
		Repository: "demo",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := result.Snapshot
	if len(snap.Components) != 1 || snap.Components[0].ID != "a" {
		t.Errorf("components = %+v", snap.Components)
	}
	if snap.Metadata.Repository != "demo" {
		t.Errorf("repository backfill = %s, want demo", snap.Metadata.Repository)
	}
	if snap.Metadata.ScanTimestamp.IsZero() {
		t.Error("scan timestamp must be backfilled")
	}
	if snap.Metadata.ScanID == "" {
		t.Error("scan id must be backfilled")
	}
	if !strings.Contains(string(result.Raw), `"codeAtoms"`) {
		t.Error("raw stdout bytes must be retained verbatim")
	}
}

func TestScan_StderrBecomesWarnings(t *testing.T) {
	cmd := shCommand(t, "printf '%s' '"+scannerOutput+"'; echo 'could not parse legacy.vb' >&2")

	result, err := NewRunner().Scan(context.Background(), Spec{Command: cmd, Repository: "demo"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var warned bool
	for _, d := range result.Snapshot.Diagnostics {
		if d.Severity == snapshot.DiagnosticWarning && strings.Contains(d.Message, "legacy.vb") {
			warned = true
		}
	}
	if !warned {
		t.Errorf("stderr line missing from diagnostics: %+v", result.Snapshot.Diagnostics)
	}
}

func TestScan_NonZeroExitDegrades(t *testing.T) {
	cmd := shCommand(t, "printf '%s' '"+scannerOutput+"'; exit 3")

	result, err := NewRunner().Scan(context.Background(), Spec{Command: cmd, Repository: "demo"})
	if err != nil {
		t.Fatalf("runtime failure must degrade, not error: %v", err)
	}
	if !hasErrorDiagnostic(result.Snapshot) {
		t.Error("non-zero exit must surface as an error diagnostic")
	}
	// Output was still valid, so the snapshot content survives.
	if len(result.Snapshot.Components) != 1 {
		t.Errorf("components = %d, want 1", len(result.Snapshot.Components))
	}
}

func TestScan_GarbageOutputDegrades(t *testing.T) {
	cmd := shCommand(t, "echo 'this is not json'")

	result, err := NewRunner().Scan(context.Background(), Spec{Command: cmd, Repository: "demo"})
	if err != nil {
		t.Fatalf("unreadable output must degrade, not error: %v", err)
	}
	if !hasErrorDiagnostic(result.Snapshot) {
		t.Error("unreadable output must surface as an error diagnostic")
	}
	if len(result.Snapshot.Components) != 0 {
		t.Error("degraded snapshot must be empty")
	}
	if result.Raw != nil {
		t.Error("degraded result must not carry raw bytes for persistence")
	}
	if result.Snapshot.Metadata.Repository != "demo" {
		t.Error("degraded snapshot keeps the requested repository name")
	}
}

func TestScan_CancelledContextDegrades(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	result, err := NewRunner().Scan(ctx, Spec{
		Command:    shCommand(t, "sleep 10"),
		Repository: "demo",
	})
	if err != nil {
		t.Fatalf("cancellation must degrade, not error: %v", err)
	}
	if !hasErrorDiagnostic(result.Snapshot) {
		t.Error("cancellation must surface as an error diagnostic")
	}
}
