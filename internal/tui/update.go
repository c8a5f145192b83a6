package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles Bubbletea messages and updates model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		m.move(-1)
	case key.Matches(msg, m.keys.Down):
		m.move(1)
	case key.Matches(msg, m.keys.Top):
		m.move(-m.listLen())
	case key.Matches(msg, m.keys.Bottom):
		m.move(m.listLen())
	case key.Matches(msg, m.keys.Open):
		m.open()
	case key.Matches(msg, m.keys.Back):
		m.back()
	}
	return m, nil
}

func (m *Model) move(delta int) {
	n := m.listLen()
	if n == 0 {
		return
	}
	c := m.cursor()
	*c = min(max(*c+delta, 0), n-1)
}

func (m *Model) open() {
	switch m.viewMode {
	case ViewStyles:
		if _, ok := m.SelectedStyle(); ok {
			m.viewMode = ViewRules
			m.ruleCursor = 0
		}
	case ViewRules:
		if _, ok := m.SelectedRule(); ok {
			m.viewMode = ViewDetail
		}
	}
}

func (m *Model) back() {
	switch m.viewMode {
	case ViewDetail:
		m.viewMode = ViewRules
	case ViewRules:
		m.viewMode = ViewStyles
	}
}
