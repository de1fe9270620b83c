package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/gomlx/go-nertags/corpus"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle = lipgloss.NewStyle().Width(16).Foreground(lipgloss.Color("8"))
	valueStyle = lipgloss.NewStyle().Bold(true)
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// renderSummary formats the batch counters for the terminal.
func renderSummary(summary corpus.Summary, elapsed time.Duration) string {
	line := func(label string, value int64, warnIfPositive bool) string {
		style := valueStyle
		if warnIfPositive && value > 0 {
			style = warnStyle
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), style.Render(fmt.Sprint(value)))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(fmt.Sprintf("nertags: %d documents in %s", summary.Documents, elapsed.Round(time.Millisecond))),
		line("written", summary.Written, false),
		line("skipped", summary.Skipped, true),
		line("failed", summary.Failed, true),
		line("spans", summary.Spans, false),
		line("tagged tokens", summary.TaggedTokens, false),
		line("lookup misses", summary.Misses, true),
	)
}
