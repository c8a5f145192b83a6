package tui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/pixtheme/internal/rule"
	"github.com/alexisbeaulieu97/pixtheme/internal/theme"
)

const browserRC = `
style "base" {
  engine "blueprint" {
    image { function = BOX detail = "button" file = "button.png" border = {1,1,1,1} }
    image { function = FLAT_BOX file = "flat.png" }
    image { function = ARROW arrow_direction = UP file = "arrow.png" recolorable = TRUE }
  }
}
style "child" = "base" { }
class "GtkButton" style "child"
`

func loadTheme(t *testing.T) *theme.Theme {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "gtkrc")
	require.NoError(t, os.WriteFile(path, []byte(browserRC), 0o644))
	th, err := theme.Load(path, theme.Options{})
	require.NoError(t, err)
	return th
}

func press(t *testing.T, m Model, msgs ...tea.KeyMsg) Model {
	t.Helper()
	for _, msg := range msgs {
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNavigation(t *testing.T) {
	t.Parallel()

	m := NewModel(loadTheme(t), "")
	require.Equal(t, ViewStyles, m.Mode())

	st, ok := m.SelectedStyle()
	require.True(t, ok)
	require.Equal(t, "base", st.Name)

	m = press(t, m, runes("j"), runes("j"))
	st, _ = m.SelectedStyle()
	require.Equal(t, "child", st.Name, "cursor stops at the last style")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, ViewRules, m.Mode())
	r, ok := m.SelectedRule()
	require.True(t, ok)
	require.Equal(t, rule.FunctionBox, r.Function)

	m = press(t, m, runes("G"))
	r, _ = m.SelectedRule()
	require.Equal(t, rule.FunctionArrow, r.Function)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, ViewDetail, m.Mode())

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc}, tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, ViewStyles, m.Mode())

	m = press(t, m, runes("k"), runes("k"))
	st, _ = m.SelectedStyle()
	require.Equal(t, "base", st.Name)
}

func TestInitialStyle(t *testing.T) {
	t.Parallel()

	th := loadTheme(t)
	m := NewModel(th, "child")
	require.Equal(t, ViewRules, m.Mode())
	st, _ := m.SelectedStyle()
	require.Equal(t, "child", st.Name)

	m = NewModel(th, "absent")
	require.Equal(t, ViewStyles, m.Mode())
}

func TestQuitAndHelp(t *testing.T) {
	t.Parallel()

	m := NewModel(loadTheme(t), "")
	require.Nil(t, m.Init())

	m = press(t, m, runes("?"))
	require.True(t, m.help.ShowAll)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	m = updated.(Model)
	require.True(t, m.Quitting())
	require.Empty(t, m.View())
}

func TestEmptyTheme(t *testing.T) {
	t.Parallel()

	m := NewModel(nil, "")
	m = press(t, m, runes("j"), tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, ViewStyles, m.Mode())
	require.Contains(t, m.View(), "No styles defined")
}

func TestViewRendersPanes(t *testing.T) {
	t.Parallel()

	m := NewModel(loadTheme(t), "")
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = updated.(Model)

	view := m.View()
	require.Contains(t, view, "base")
	require.Contains(t, view, "← base")
	require.Contains(t, view, "Styles: 2  Rules: 6  Bindings: 1")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	view = m.View()
	require.Contains(t, view, `function=BOX detail="button"`)
	require.Contains(t, view, "flat.png (missing)")

	m = press(t, m, runes("j"), runes("j"), tea.KeyMsg{Type: tea.KeyEnter})
	view = m.View()
	require.Contains(t, view, "arrow_direction=UP")
	require.Contains(t, view, "recolorable")
}

func TestRenderWindowScrolls(t *testing.T) {
	t.Parallel()

	m := Model{height: reservedRows + 2}
	out := m.renderWindow([]string{"a", "b", "c", "d"}, 3)
	require.Contains(t, out, "More above")
	require.NotContains(t, out, "More below")
	require.Contains(t, out, "d")
	require.NotContains(t, out, "a\n")
}
