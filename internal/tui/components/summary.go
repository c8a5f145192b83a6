package components

import (
	"fmt"
	"strings"
)

// SummaryData aggregates counts for rendering summaries.
type SummaryData struct {
	Styles   int
	Rules    int
	Bindings int
	Warnings []string
}

// Summary renders a textual theme summary.
type Summary struct {
	data SummaryData
}

// NewSummary creates a new Summary component.
func NewSummary(data SummaryData) Summary {
	return Summary{data: data}
}

// View renders the summary.
func (s Summary) View() string {
	if s.data.Styles == 0 && s.data.Bindings == 0 && len(s.data.Warnings) == 0 {
		return ""
	}

	lines := []string{fmt.Sprintf("Styles: %d  Rules: %d  Bindings: %d", s.data.Styles, s.data.Rules, s.data.Bindings)}
	if len(s.data.Warnings) > 0 {
		lines = append(lines, fmt.Sprintf("Warnings: %d", len(s.data.Warnings)))
		for _, w := range s.data.Warnings {
			lines = append(lines, "  ! "+w)
		}
	}

	return strings.Join(lines, "\n")
}
