// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
)

// Exit codes for CLI commands.
const (
	CLIExitSuccess  = 0 // All configured gates passed
	CLIExitFindings = 1 // A policy gate failed
	CLIExitError    = 2 // Infrastructure, scan, or configuration error
)

// OutputJSON writes structured data as JSON to stdout. Output is
// indented when stdout is a terminal and compact when piped.
func OutputJSON(data any) error {
	encoder := json.NewEncoder(os.Stdout)
	if isatty.IsTerminal(os.Stdout.Fd()) {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// Fatal prints the message to stderr and exits with the infrastructure code.
func Fatal(msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "archsignal: %s: %v\n", msg, err)
	} else {
		fmt.Fprintf(os.Stderr, "archsignal: %s\n", msg)
	}
	os.Exit(CLIExitError)
}
