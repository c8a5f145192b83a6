package theme

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/pixtheme/internal/compositor"
	"github.com/alexisbeaulieu97/pixtheme/internal/parser"
	"github.com/alexisbeaulieu97/pixtheme/internal/rule"
	pixerrors "github.com/alexisbeaulieu97/pixtheme/pkg/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writePNG(t *testing.T, dir, name string, w, h int, c color.NRGBA) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

type widget struct {
	name   string
	parent *widget
}

func (w *widget) Parent() rule.Widget {
	if w.parent == nil {
		return nil
	}
	return w.parent
}

func (w *widget) TypeName() string                { return w.name }
func (w *widget) Background() (color.NRGBA, bool) { return color.NRGBA{}, false }

const themeRC = `
pixmap_path "images"
include "colors.rc"

style "base" = "palette" {
  xthickness = 3
  engine "pixmap" {
    image { function = BOX state = PRELIGHT file = "hover.png" border = {2,2,2,2} }
    image { function = BOX file = "box.png" border = {2,2,2,2} }
  }
}

style "button" = "base" {
  bg[PRELIGHT] = "#ff0000"
  engine "pixmap" {
    image { function = BOX state = ACTIVE file = "pressed.png" border = {2,2,2,2} }
  }
}

class "GtkWidget" style "base"
class "GtkButton" style "base"
class "GtkButton" style "button"
widget_class "*.GtkToolbar.*" style "button"
`

func loadSample(t *testing.T) *Theme {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "gtkrc", themeRC)
	writeFile(t, dir, "colors.rc", `style "palette" { bg[NORMAL] = { 0.5, 0.5, 0.5 } ythickness = 4 }`)
	for _, name := range []string{"hover.png", "box.png", "pressed.png"} {
		writePNG(t, filepath.Join(dir, "images"), name, 8, 8, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	}

	th, err := Load(filepath.Join(dir, "gtkrc"), Options{})
	require.NoError(t, err)
	return th
}

func TestLoadResolvesStylesAndIncludes(t *testing.T) {
	t.Parallel()

	th := loadSample(t)

	names := make([]string, 0, 3)
	for _, st := range th.Styles() {
		names = append(names, st.Name)
	}
	assert.Equal(t, []string{"palette", "base", "button"}, names)
	assert.Equal(t, []string{"images"}, th.PixmapPaths())
	assert.Empty(t, th.Warnings())

	base, ok := th.Style("base")
	require.True(t, ok)
	assert.Equal(t, image.Pt(3, 4), base.Thickness, "x from base, y from palette")
	assert.Equal(t, color.NRGBA{R: 128, G: 128, B: 128, A: 255}, base.Background(rule.StateNormal))
	assert.Equal(t, "pixmap", base.Engine)
	require.Equal(t, 2, base.Rules.Len())
	assert.Equal(t, filepath.Join(filepath.Dir(th.Path()), "images", "box.png"), base.Rules.Rules()[1].Image.Path)
}

func TestChildRulesComeFirst(t *testing.T) {
	t.Parallel()

	th := loadSample(t)
	button, ok := th.Style("button")
	require.True(t, ok)

	rules := button.Rules.Rules()
	require.Len(t, rules, 3)
	assert.Equal(t, rule.StateActive, rules[0].State)
	assert.Equal(t, rule.StatePrelight, rules[1].State)

	got, ok := button.Rules.Lookup(rule.Query{Function: rule.FunctionBox, State: rule.StateActive})
	require.True(t, ok)
	assert.Equal(t, "pressed.png", filepath.Base(got.Image.Path))

	got, ok = button.Rules.Lookup(rule.Query{Function: rule.FunctionBox, State: rule.StateNormal})
	require.True(t, ok)
	assert.Equal(t, "box.png", filepath.Base(got.Image.Path))

	assert.Equal(t, color.NRGBA{R: 255, A: 255}, button.Background(rule.StatePrelight))
	assert.Equal(t, color.NRGBA{R: 128, G: 128, B: 128, A: 255}, button.Background(rule.StateSelected), "falls back to NORMAL")
}

func TestStyleForLastBindingWins(t *testing.T) {
	t.Parallel()

	th := loadSample(t)

	st, ok := th.StyleFor("GtkButton")
	require.True(t, ok)
	assert.Equal(t, "button", st.Name)

	st, ok = th.StyleFor("GtkWidget")
	require.True(t, ok)
	assert.Equal(t, "base", st.Name)

	_, ok = th.StyleFor("GtkLabel")
	assert.False(t, ok)

	st, ok = th.Match(parser.BindWidgetClass, "GtkWindow.GtkToolbar.GtkButton")
	require.True(t, ok)
	assert.Equal(t, "button", st.Name)
	assert.Len(t, th.Bindings(), 4)
}

func TestPaint(t *testing.T) {
	t.Parallel()

	th := loadSample(t)
	st, _ := th.Style("base")

	dst := image.NewNRGBA(image.Rect(0, 0, 20, 20))
	s := compositor.NewImageSurface(dst, nil)

	ok := th.Paint(s, dst.Bounds(), st, rule.Query{Function: rule.FunctionBox, State: rule.StateNormal}, false, compositor.Context{})
	require.True(t, ok)
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 255}, dst.NRGBAAt(0, 0))
	assert.Equal(t, 1, th.Images().Len())

	ok = th.Paint(s, dst.Bounds(), st, rule.Query{Function: rule.FunctionArrow}, false, compositor.Context{})
	assert.False(t, ok, "a miss lets the host fall back")
	assert.False(t, th.Paint(s, dst.Bounds(), nil, rule.Query{Function: rule.FunctionBox}, false, compositor.Context{}))

	th.Close()
	assert.Equal(t, 0, th.Images().Len())
}

func TestLoadWarnings(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "gtkrc", `
style "orphan" = "missing" {
  engine "pixmap" {
    image { function = BOX file = "nowhere.png" }
  }
}`)

	th, err := Load(path, Options{})
	require.NoError(t, err)
	require.Len(t, th.Warnings(), 2)
	assert.Contains(t, th.Warnings()[0].Message, "nowhere.png")
	assert.Contains(t, th.Warnings()[1].Message, `unknown parent "missing"`)

	_, err = Load(path, Options{Strict: true})
	var warning *pixerrors.SemanticWarning
	assert.ErrorAs(t, err, &warning)
}

func TestLoadReturnsPartialThemeOnError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "gtkrc", `
style "good" { xthickness = 1 }
style "bad" { engine "pixmap" { image { function = BOX state = SIDEWAYS } } }
style "never" { }`)

	th, err := Load(path, Options{})
	var syntaxErr *pixerrors.SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	require.NotNil(t, th)

	_, ok := th.Style("good")
	assert.True(t, ok)
	_, ok = th.Style("never")
	assert.False(t, ok)
}

func TestIncludeErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cycle := writeFile(t, dir, "a.rc", `include "b.rc"`)
	writeFile(t, dir, "b.rc", `include "a.rc"`)

	_, err := Load(cycle, Options{})
	var parseErr *pixerrors.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, err.Error(), "include cycle")

	missing := writeFile(t, dir, "c.rc", `include "nope.rc"`)
	_, err = Load(missing, Options{})
	assert.ErrorAs(t, err, &parseErr)

	_, err = Load(filepath.Join(dir, "absent.rc"), Options{})
	assert.Error(t, err)
}

func TestColorOverridesAndExtraPaths(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	shared := t.TempDir()
	writePNG(t, shared, "shared.png", 4, 4, color.NRGBA{A: 255})
	path := writeFile(t, dir, "gtkrc", `
style "s" {
  bg[NORMAL] = "Accent"
  engine "pixmap" { image { function = BOX file = "shared.png" } }
}`)

	accent := color.NRGBA{R: 0x34, G: 0x65, B: 0xa4, A: 255}
	th, err := Load(path, Options{PixmapPaths: []string{shared}, Colors: map[string]color.NRGBA{"accent": accent}})
	require.NoError(t, err)

	st, _ := th.Style("s")
	assert.Equal(t, accent, st.Background(rule.StateNormal))
	assert.Equal(t, filepath.Join(shared, "shared.png"), st.Rules.Rules()[0].Image.Path)
	assert.Contains(t, th.SearchPath(), shared)
}

func TestColorizeIcon(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "gtkrc", `
style "icons" {
  engine "blueprint" {
    icon_colorize = TRUE
    icon_colorize_ancestor_type = { "GtkToolbar" }
    colorize_color = "#0000ff"
  }
}`)
	th, err := Load(path, Options{})
	require.NoError(t, err)
	st, _ := th.Style("icons")

	icon := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	icon.SetNRGBA(0, 0, color.NRGBA{R: 128, G: 128, B: 128, A: 255})

	inToolbar := &widget{name: "GtkButton", parent: &widget{name: "GtkToolbar"}}
	out := th.ColorizeIcon(st, icon, inToolbar)
	px := color.NRGBAModel.Convert(out.At(0, 0)).(color.NRGBA)
	assert.Greater(t, px.B, px.R)

	elsewhere := &widget{name: "GtkButton", parent: &widget{name: "GtkWindow"}}
	assert.Same(t, icon, th.ColorizeIcon(st, icon, elsewhere))
}
