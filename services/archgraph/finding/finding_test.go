// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package finding

import (
	"reflect"
	"testing"
)

func TestCompare_TotalOrder(t *testing.T) {
	ordered := []Severity{SeverityInfo, SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

	for i := 1; i < len(ordered); i++ {
		if Compare(ordered[i-1], ordered[i]) >= 0 {
			t.Errorf("Compare(%s, %s) should be negative", ordered[i-1], ordered[i])
		}
	}
	if Compare(SeverityHigh, SeverityHigh) != 0 {
		t.Error("Compare of equal severities should be zero")
	}
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		input   string
		want    Severity
		wantErr bool
	}{
		{"critical", SeverityCritical, false},
		{"info", SeverityInfo, false},
		{"CRITICAL", "", true},
		{"fatal", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseSeverity(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSeverity(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSeverity(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestMerge_OrderingIsDeterministic(t *testing.T) {
	setA := []Finding{
		{Category: CategoryArchitecture, Severity: SeverityLow, RuleID: "R2", Title: "b", Occurrences: 1},
		{Category: CategoryMigration, Severity: SeverityCritical, RuleID: "R1", Title: "a", Occurrences: 3},
	}
	setB := []Finding{
		{Category: CategoryArchitecture, Severity: SeverityCritical, RuleID: "R3", Title: "c", Occurrences: 1},
		{Category: CategoryArchitecture, Severity: SeverityLow, RuleID: "R2", Title: "a", Occurrences: 5},
	}

	forward := Merge(setA, setB)
	reversed := Merge(setB, setA)

	if !reflect.DeepEqual(forward, reversed) {
		t.Errorf("merge order depends on argument order:\n%+v\nvs\n%+v", forward, reversed)
	}

	// critical before low; within critical, architecture before migration.
	if forward[0].RuleID != "R3" {
		t.Errorf("first finding = %s, want R3", forward[0].RuleID)
	}
	if forward[1].RuleID != "R1" {
		t.Errorf("second finding = %s, want R1", forward[1].RuleID)
	}
	// within identical severity/category/rule, higher occurrences first.
	if forward[2].Occurrences != 5 {
		t.Errorf("third finding occurrences = %d, want 5", forward[2].Occurrences)
	}
}

func TestMerge_Empty(t *testing.T) {
	merged := Merge(nil, []Finding{})
	if len(merged) != 0 {
		t.Errorf("Merge of empty sets = %d findings, want 0", len(merged))
	}
}

func TestCountBy_SumsOccurrences(t *testing.T) {
	findings := []Finding{
		{Category: CategoryMigration, Severity: SeverityCritical, Occurrences: 2},
		{Category: CategoryMigration, Severity: SeverityCritical, Occurrences: 3},
		{Category: CategoryMigration, Severity: SeverityHigh, Occurrences: 7},
		{Category: CategoryArchitecture, Severity: SeverityCritical, Occurrences: 11},
	}

	if got := CountBy(findings, CategoryMigration, SeverityCritical); got != 5 {
		t.Errorf("CountBy(migration, critical) = %d, want 5", got)
	}
	if got := CountBy(findings, CategoryArchitecture, SeverityHigh); got != 0 {
		t.Errorf("CountBy(architecture, high) = %d, want 0", got)
	}
}
