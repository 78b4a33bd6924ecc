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
	"fmt"
	"html"
	"strings"
)

// levelColors maps risk levels to the report's accent colors.
var levelColors = map[Level]string{
	LevelCritical: "#d32f2f",
	LevelHigh:     "#f57c00",
	LevelMedium:   "#fbc02d",
	LevelLow:      "#388e3c",
}

// RenderHTML renders the report as a standalone HTML page.
//
// # Description
//
// The page is self-contained (inline CSS, no external assets) so it can
// be archived as a CI artifact and opened offline. Component names are
// scanner-controlled input and are escaped.
func RenderHTML(report *Report, limit int) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	b.WriteString("<title>archsignal risk report</title>\n<style>\n")
	b.WriteString("body { font-family: system-ui, sans-serif; margin: 2rem; color: #212121; }\n")
	b.WriteString("table { border-collapse: collapse; width: 100%; }\n")
	b.WriteString("th, td { text-align: left; padding: 0.4rem 0.8rem; border-bottom: 1px solid #e0e0e0; }\n")
	b.WriteString(".num { text-align: right; font-variant-numeric: tabular-nums; }\n")
	b.WriteString(".level { font-weight: 600; }\n")
	b.WriteString("</style>\n</head>\n<body>\n")

	b.WriteString("<h1>Risk report</h1>\n")
	fmt.Fprintf(&b, "<p>%d components &mdash; critical %d, high %d, medium %d, low %d</p>\n",
		len(report.Scores), report.Stats.Critical, report.Stats.High,
		report.Stats.Medium, report.Stats.Low)

	b.WriteString("<table>\n<tr><th>Component</th><th class=\"num\">Score</th>")
	b.WriteString("<th>Level</th><th class=\"num\">Fan-in</th><th class=\"num\">Fan-out</th>")
	b.WriteString("<th class=\"num\">Size</th></tr>\n")

	if limit <= 0 || limit > len(report.Scores) {
		limit = len(report.Scores)
	}
	for _, score := range report.Scores[:limit] {
		color, ok := levelColors[score.Level]
		if !ok {
			color = "#212121"
		}
		fmt.Fprintf(&b,
			"<tr><td>%s</td><td class=\"num\">%.1f</td><td class=\"level\" style=\"color:%s\">%s</td><td class=\"num\">%d</td><td class=\"num\">%d</td><td class=\"num\">%d</td></tr>\n",
			html.EscapeString(score.Name), score.Value, color, score.Level,
			score.FanIn, score.FanOut, score.SizeProxy)
	}

	b.WriteString("</table>\n</body>\n</html>\n")
	return b.String()
}
