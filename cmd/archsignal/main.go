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
	"log/slog"
	"os"

	"github.com/archsignal/archsignal/pkg/logging"
)

func main() {
	logger := logging.New(logging.Config{
		Level:   logLevel(),
		Service: "cli",
	})
	defer logger.Close()
	slog.SetDefault(logger.Slog())

	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(CLIExitError)
	}
}

func logLevel() logging.Level {
	if os.Getenv("ARCHSIGNAL_DEBUG") != "" {
		return logging.LevelDebug
	}
	return logging.LevelWarn
}
