// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads and validates YAML configuration files shared by
// the governance and policy engines.
//
// # Description
//
// Absence and malformation are deliberately distinct. An absent file
// means "no constraint configured" and degrades silently; a file that
// exists but fails to parse or validate is a typo'd intent and surfaces
// as *Error so the CLI can fail with an infrastructure exit code instead
// of silently masking a gate.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// validate is shared; validator.Validate caches struct metadata and is
// safe for concurrent use.
var validate = validator.New()

// Error reports a configuration file that exists but cannot be used.
type Error struct {
	// Path is the offending file.
	Path string

	// Err is the parse or validation failure.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err carries a *Error.
func IsConfigError(err error) bool {
	var ce *Error
	return errors.As(err, &ce)
}

// Load reads a YAML file into out and validates struct tags.
//
// # Outputs
//
//   - bool: whether the file exists.
//   - error: *Error when the file exists but is malformed or invalid.
func Load(path string, out any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return true, &Error{Path: path, Err: err}
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return true, &Error{Path: path, Err: err}
	}
	if err := validate.Struct(out); err != nil {
		return true, &Error{Path: path, Err: err}
	}
	return true, nil
}
