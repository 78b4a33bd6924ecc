// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package governance evaluates declarative layering rules against the
// relationship graph.
package governance

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/archsignal/archsignal/services/archgraph/config"
)

// Action tells the engine what a rule means for matching relationships.
type Action string

const (
	// ActionDeny emits a violation for every matching relationship.
	ActionDeny Action = "deny"

	// ActionAllow documents intent and never produces violations.
	ActionAllow Action = "allow"
)

// Layer names a group of components matched by namespace pattern.
// The same layer name may appear on multiple entries to attach
// multiple patterns.
type Layer struct {
	// Name identifies the layer; rules reference it by name.
	Name string `yaml:"name" validate:"required"`

	// Pattern is a namespace glob. `*` matches any substring and the
	// pattern anchors to the full namespace string.
	Pattern string `yaml:"pattern" validate:"required"`
}

// Rule constrains dependencies between two layers.
type Rule struct {
	// Name identifies the rule in violations and findings.
	Name string `yaml:"name" validate:"required"`

	// From and To reference layer names, not raw patterns.
	From string `yaml:"from" validate:"required"`
	To   string `yaml:"to" validate:"required"`

	// Action is deny or allow.
	Action Action `yaml:"action" validate:"oneof=deny allow"`

	// Message explains the rule to whoever triggers it.
	Message string `yaml:"message"`
}

// Config is the YAML governance configuration.
type Config struct {
	Layers []Layer `yaml:"layers" validate:"dive"`
	Rules  []Rule  `yaml:"rules" validate:"dive"`
}

// LoadConfig reads a governance file.
//
// An absent file yields an empty config: no layers declared means no
// constraint configured. A malformed file is a *config.Error.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	found, err := config.Load(path, &cfg)
	if err != nil {
		return nil, err
	}
	if !found {
		return &Config{}, nil
	}
	return &cfg, nil
}

// compiledLayer is one layer name with all of its patterns compiled.
type compiledLayer struct {
	name     string
	patterns []*regexp.Regexp
}

func (l *compiledLayer) matches(namespace string) bool {
	for _, p := range l.patterns {
		if p.MatchString(namespace) {
			return true
		}
	}
	return false
}

// compileLayers groups patterns by layer name, preserving declaration order.
func compileLayers(layers []Layer) ([]*compiledLayer, error) {
	order := make([]*compiledLayer, 0, len(layers))
	byName := make(map[string]*compiledLayer, len(layers))

	for _, layer := range layers {
		re, err := compileGlob(layer.Pattern)
		if err != nil {
			return nil, fmt.Errorf("layer %s: %w", layer.Name, err)
		}
		cl, ok := byName[layer.Name]
		if !ok {
			cl = &compiledLayer{name: layer.Name}
			byName[layer.Name] = cl
			order = append(order, cl)
		}
		cl.patterns = append(cl.patterns, re)
	}

	return order, nil
}

// compileGlob turns a namespace glob into an anchored regexp.
// `*` matches any substring; everything else matches literally.
func compileGlob(pattern string) (*regexp.Regexp, error) {
	parts := strings.Split(pattern, "*")
	for i, part := range parts {
		parts[i] = regexp.QuoteMeta(part)
	}
	return regexp.Compile("^" + strings.Join(parts, ".*") + "$")
}
