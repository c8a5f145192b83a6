package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/pixtheme/internal/rule"
	"github.com/alexisbeaulieu97/pixtheme/internal/tui/components"
)

// reservedRows is the space kept for the header, section title and help.
const reservedRows = 10

// View renders the current state of the model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{m.renderHeader()}
	switch m.viewMode {
	case ViewStyles:
		sections = append(sections, sectionStyle.Render("Styles"), m.renderStyleList())
	case ViewRules:
		st, _ := m.SelectedStyle()
		sections = append(sections, sectionStyle.Render(fmt.Sprintf("Rules of %q", st.Name)), m.renderRuleList())
	case ViewDetail:
		sections = append(sections, sectionStyle.Render("Rule"), m.renderDetail())
	}
	sections = append(sections, summaryStyle.Render(m.help.View(m.keys)))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	if m.theme == nil {
		return titleStyle.Render("pixtheme")
	}

	title := titleStyle.Render("pixtheme • " + m.theme.Path())

	rules := 0
	for _, st := range m.styles {
		rules += st.Rules.Len()
	}
	warnings := make([]string, 0, len(m.theme.Warnings()))
	for _, w := range m.theme.Warnings() {
		warnings = append(warnings, w.Message)
	}
	summary := components.NewSummary(components.SummaryData{
		Styles:   len(m.styles),
		Rules:    rules,
		Bindings: len(m.theme.Bindings()),
		Warnings: warnings,
	}).View()

	if summary == "" {
		return title
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, warningStyle.Render(summary))
}

func (m Model) renderStyleList() string {
	if len(m.styles) == 0 {
		return mutedStyle.Render("No styles defined")
	}

	lines := make([]string, 0, len(m.styles))
	for _, st := range m.styles {
		line := st.Name
		if st.Parent != "" {
			line += mutedStyle.Render(" ← " + st.Parent)
		}
		if st.Engine != "" {
			line += mutedStyle.Render(fmt.Sprintf("  [%s, %d rules]", st.Engine, st.Rules.Len()))
		}
		lines = append(lines, line)
	}
	return m.renderWindow(lines, m.styleCursor)
}

func (m Model) renderRuleList() string {
	st, _ := m.SelectedStyle()
	entries := components.NewRuleList(st.Rules).Entries()
	if len(entries) == 0 {
		return mutedStyle.Render("No rules")
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		image := e.Image
		if image == "" {
			image = "-"
		} else if !e.Present {
			image = missingStyle.Render(image + " (missing)")
		}
		lines = append(lines, fmt.Sprintf("%3d  %s  %s", e.Index, e.Keys, mutedStyle.Render("→ ")+image))
	}
	return m.renderWindow(lines, m.ruleCursor)
}

// renderWindow renders the slice of lines that keeps cursor visible.
func (m Model) renderWindow(lines []string, cursor int) string {
	start, end := 0, len(lines)
	if rows := m.height - reservedRows; m.height > 0 && rows > 0 && rows < len(lines) {
		start = max(0, cursor-rows+1)
		end = start + rows
	}

	items := make([]string, 0, end-start+2)
	if start > 0 {
		items = append(items, mutedStyle.Render("▲ More above"))
	}
	for i := start; i < end; i++ {
		if i == cursor {
			items = append(items, selectedItemStyle.Render(lines[i]))
		} else {
			items = append(items, itemStyle.Render(lines[i]))
		}
	}
	if end < len(lines) {
		items = append(items, mutedStyle.Render("▼ More below"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (m Model) renderDetail() string {
	r, ok := m.SelectedRule()
	if !ok {
		return mutedStyle.Render("No rule selected")
	}
	st, _ := m.SelectedStyle()

	var b strings.Builder
	field := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}

	field("match", r.Describe(st.Rules.Atoms()))
	field("line", fmt.Sprint(r.Line))
	for _, slot := range []struct {
		label string
		img   rule.Image
	}{
		{"file", r.Image},
		{"overlay", r.Overlay},
		{"gap_start", r.GapStart},
		{"gap", r.Gap},
		{"gap_end", r.GapEnd},
	} {
		if slot.img.Source == "" {
			continue
		}
		field(slot.label, describeImage(slot.img))
	}
	if r.Recolorable {
		field("recolorable", "true")
	}
	if r.Colorize != nil {
		field("colorize", fmt.Sprintf("#%02x%02x%02x", r.Colorize.R, r.Colorize.G, r.Colorize.B))
	}
	if r.UseAsBkgMask {
		field("bkg mask", "true")
	}
	return strings.TrimRight(b.String(), "\n")
}

func describeImage(img rule.Image) string {
	path := img.Path
	if !img.Present() {
		path = missingStyle.Render("unresolved")
	}
	return fmt.Sprintf("%s (%s) border=%s stretch=%t", img.Source, path, img.Insets, img.Stretch)
}
