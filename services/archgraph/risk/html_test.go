// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package risk

import (
	"strings"
	"testing"
)

func TestRenderHTML_EscapesNames(t *testing.T) {
	report := &Report{
		Scores: []Score{
			{ComponentID: "x", Name: "<script>alert(1)</script>", Value: 3, Level: LevelLow},
		},
		Stats: Stats{Low: 1},
	}

	page := RenderHTML(report, 0)

	if strings.Contains(page, "<script>alert") {
		t.Error("component names must be escaped")
	}
	if !strings.Contains(page, "&lt;script&gt;") {
		t.Error("escaped name missing from output")
	}
	if !strings.Contains(page, "<!DOCTYPE html>") {
		t.Error("output must be a standalone page")
	}
}

func TestRenderHTML_LimitsRows(t *testing.T) {
	report := &Report{
		Scores: []Score{
			{ComponentID: "a", Name: "Alpha", Value: 9, Level: LevelLow},
			{ComponentID: "b", Name: "Beta", Value: 5, Level: LevelLow},
			{ComponentID: "c", Name: "Gamma", Value: 1, Level: LevelLow},
		},
		Stats: Stats{Low: 3},
	}

	page := RenderHTML(report, 2)

	if !strings.Contains(page, "Alpha") || !strings.Contains(page, "Beta") {
		t.Error("top rows missing")
	}
	if strings.Contains(page, "Gamma") {
		t.Error("rows past the limit must be omitted")
	}
}
