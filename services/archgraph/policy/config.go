// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package policy evaluates aggregated findings against configured
// pass/fail threshold gates.
package policy

import "github.com/archsignal/archsignal/services/archgraph/config"

// MigrationGates holds migration-category thresholds.
type MigrationGates struct {
	CriticalCount *int `yaml:"critical-count" validate:"omitempty,gte=0"`
	HighCount     *int `yaml:"high-count" validate:"omitempty,gte=0"`
}

// ArchitectureGates holds architecture-category thresholds.
type ArchitectureGates struct {
	CriticalCount            *int `yaml:"critical-count" validate:"omitempty,gte=0"`
	HighCount                *int `yaml:"high-count" validate:"omitempty,gte=0"`
	GodComponentCount        *int `yaml:"god-component-count" validate:"omitempty,gte=0"`
	GovernanceViolationCount *int `yaml:"governance-violation-count" validate:"omitempty,gte=0"`
}

// RiskGates holds risk-report thresholds.
type RiskGates struct {
	CriticalComponentCount *int `yaml:"critical-component-count" validate:"omitempty,gte=0"`
	HighComponentCount     *int `yaml:"high-component-count" validate:"omitempty,gte=0"`
}

// Gates groups every configurable gate. A nil threshold skips its gate
// entirely; absence is never failure.
type Gates struct {
	Migration    MigrationGates    `yaml:"migration"`
	Architecture ArchitectureGates `yaml:"architecture"`
	Risk         RiskGates         `yaml:"risk"`
}

// Config is the YAML policy configuration.
type Config struct {
	Version  int      `yaml:"version"`
	Gates    Gates    `yaml:"gates"`
	Suppress []string `yaml:"suppress"`
}

// LoadConfig reads a policy file.
//
// An absent file yields a nil config: no gates evaluated, the report
// passes by default. A malformed file is a *config.Error so a typo'd
// policy cannot silently mask an intended gate.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	found, err := config.Load(path, &cfg)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &cfg, nil
}
