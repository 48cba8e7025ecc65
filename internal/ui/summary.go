package ui

import (
	"fmt"
	"strings"

	"benchdiff/internal/benchmark"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// SetColor enables or disables ANSI styling for all rendered output.
func SetColor(enabled bool) {
	if enabled {
		lipgloss.SetColorProfile(termenv.EnvColorProfile())
		return
	}
	lipgloss.SetColorProfile(termenv.Ascii)
}

// RenderSummary renders a one-line summary of a metric comparison. Without
// color it reads:
//
//	 mean  3 compared, 1 new, 1 removed 1 failure(s) 1 regression(s) 2 improvement(s)
func RenderSummary(metric string, s benchmark.Summary) string {
	parts := []string{
		headerStyle.Render(metric),
		mutedStyle.Render(fmt.Sprintf("%d compared, %d new, %d removed", s.Compared, s.New, s.Removed)),
	}

	if s.Failures > 0 {
		parts = append(parts, errorStyle.Render(fmt.Sprintf("%d failure(s)", s.Failures)))
	}
	if s.Regressions > 0 {
		parts = append(parts, warnStyle.Render(fmt.Sprintf("%d regression(s)", s.Regressions)))
	}
	if s.Improvements > 0 {
		parts = append(parts, successStyle.Render(fmt.Sprintf("%d improvement(s)", s.Improvements)))
	}
	if s.Failures == 0 && s.Regressions == 0 {
		parts = append(parts, successStyle.Render("no regressions"))
	}

	return strings.Join(parts, " ")
}

// RenderError renders a fatal error line.
func RenderError(err error) string {
	return errorStyle.Render("Error:") + " " + err.Error()
}
