// Package tui implements the interactive rule browser.
package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/pixtheme/internal/rule"
	"github.com/alexisbeaulieu97/pixtheme/internal/theme"
)

// ViewMode selects the pane the browser shows.
type ViewMode int

const (
	ViewStyles ViewMode = iota
	ViewRules
	ViewDetail
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	Back   key.Binding
	Help   key.Binding
	Quit   key.Binding
	Top    key.Binding
	Bottom key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:   key.NewBinding(key.WithKeys("enter", "l", "right"), key.WithHelp("enter", "open")),
		Back:   key.NewBinding(key.WithKeys("esc", "h", "left", "backspace"), key.WithHelp("esc", "back")),
		Top:    key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom: key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Back, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Top, k.Bottom}, {k.Open, k.Back}, {k.Help, k.Quit}}
}

// Model contains the Bubbletea state for the rule browser.
type Model struct {
	theme  *theme.Theme
	styles []*theme.Style

	viewMode    ViewMode
	styleCursor int
	ruleCursor  int

	keys keyMap
	help help.Model

	width    int
	height   int
	quitting bool
}

// NewModel constructs a browser over th. When style names a loaded style the
// browser opens on its rules.
func NewModel(th *theme.Theme, style string) Model {
	m := Model{
		theme: th,
		keys:  defaultKeyMap(),
		help:  help.New(),
	}
	if th != nil {
		m.styles = th.Styles()
	}
	for i, st := range m.styles {
		if st.Name == style {
			m.styleCursor = i
			m.viewMode = ViewRules
			break
		}
	}
	return m
}

// Init starts the Bubbletea program.
func (m Model) Init() tea.Cmd {
	return nil
}

// Mode returns the current pane.
func (m Model) Mode() ViewMode {
	return m.viewMode
}

// Quitting reports whether the user asked to leave.
func (m Model) Quitting() bool {
	return m.quitting
}

// SelectedStyle returns the style under the cursor.
func (m Model) SelectedStyle() (*theme.Style, bool) {
	if m.styleCursor < 0 || m.styleCursor >= len(m.styles) {
		return nil, false
	}
	return m.styles[m.styleCursor], true
}

// SelectedRule returns the rule under the cursor of the selected style.
func (m Model) SelectedRule() (*rule.Rule, bool) {
	rules := m.rules()
	if m.ruleCursor < 0 || m.ruleCursor >= len(rules) {
		return nil, false
	}
	return rules[m.ruleCursor], true
}

func (m Model) rules() []*rule.Rule {
	st, ok := m.SelectedStyle()
	if !ok || st.Rules == nil {
		return nil
	}
	return st.Rules.Rules()
}

// listLen is the length of the list the cursor moves over.
func (m Model) listLen() int {
	switch m.viewMode {
	case ViewStyles:
		return len(m.styles)
	case ViewRules:
		return len(m.rules())
	default:
		return 0
	}
}

func (m *Model) cursor() *int {
	if m.viewMode == ViewStyles {
		return &m.styleCursor
	}
	return &m.ruleCursor
}
