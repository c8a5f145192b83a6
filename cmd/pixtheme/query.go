package main

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/pixtheme/internal/parser"
	"github.com/alexisbeaulieu97/pixtheme/internal/rule"
	"github.com/alexisbeaulieu97/pixtheme/internal/theme"
)

// queryFlags are the paint-request flags shared by lookup and render.
type queryFlags struct {
	style       string
	class       string
	widgetPath  string
	function    string
	detail      string
	state       string
	shadow      string
	orientation string
	gapSide     string
	arrow       string
}

func (q *queryFlags) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&q.style, "style", "s", "", "Style to query")
	f.StringVar(&q.class, "class", "", "Pick the style bound to this widget class")
	f.StringVar(&q.widgetPath, "widget-path", "", "Dot separated widget path, outermost first; selects by widget_class and sets the widget ancestry")
	f.StringVarP(&q.function, "function", "f", "", "Drawing primitive (BOX, FLAT_BOX, ARROW, ...)")
	f.StringVar(&q.detail, "detail", "", "Detail string")
	f.StringVar(&q.state, "state", "", "Widget state")
	f.StringVar(&q.shadow, "shadow", "", "Shadow type")
	f.StringVar(&q.orientation, "orientation", "", "Orientation")
	f.StringVar(&q.gapSide, "gap-side", "", "Gap side")
	f.StringVar(&q.arrow, "arrow", "", "Arrow direction")
	_ = cmd.MarkFlagRequired("function")
}

// selectStyle resolves --style, then --class, then --widget-path.
func (q *queryFlags) selectStyle(th *theme.Theme) (*theme.Style, error) {
	switch {
	case q.style != "":
		if st, ok := th.Style(q.style); ok {
			return st, nil
		}
		return nil, fmt.Errorf("style %q is not defined", q.style)
	case q.class != "":
		if st, ok := th.StyleFor(q.class); ok {
			return st, nil
		}
		return nil, fmt.Errorf("no class binding matches %q", q.class)
	case q.widgetPath != "":
		if st, ok := th.Match(parser.BindWidgetClass, q.widgetPath); ok {
			return st, nil
		}
		return nil, fmt.Errorf("no widget_class binding matches %q", q.widgetPath)
	default:
		return nil, errors.New("one of --style, --class or --widget-path is required")
	}
}

func (q *queryFlags) query() (rule.Query, error) {
	out := rule.Query{Detail: q.detail}

	fn, ok := rule.ParseFunction(q.function)
	if !ok {
		return out, fmt.Errorf("unknown function %q", q.function)
	}
	out.Function = fn

	var err error
	if out.State, err = parseOptional(q.state, "state", rule.ParseState); err != nil {
		return out, err
	}
	if out.Shadow, err = parseOptional(q.shadow, "shadow", rule.ParseShadow); err != nil {
		return out, err
	}
	if out.Orientation, err = parseOptional(q.orientation, "orientation", rule.ParseOrientation); err != nil {
		return out, err
	}
	if out.GapSide, err = parseOptional(q.gapSide, "gap side", rule.ParseSide); err != nil {
		return out, err
	}
	if out.ArrowDirection, err = parseOptional(q.arrow, "arrow direction", rule.ParseArrow); err != nil {
		return out, err
	}

	if w := widgetFromPath(q.widgetPath); w != nil {
		out.Widget = w
	}
	return out, nil
}

func parseOptional[T any](value, what string, parse func(string) (T, bool)) (T, error) {
	var zero T
	if value == "" {
		return zero, nil
	}
	v, ok := parse(value)
	if !ok {
		return zero, fmt.Errorf("unknown %s %q", what, value)
	}
	return v, nil
}

// pathWidget is a widget described on the command line.
type pathWidget struct {
	name   string
	parent *pathWidget
	bg     *color.NRGBA
}

func (w *pathWidget) Parent() rule.Widget {
	if w.parent == nil {
		return nil
	}
	return w.parent
}

func (w *pathWidget) TypeName() string { return w.name }

func (w *pathWidget) Background() (color.NRGBA, bool) {
	if w.bg == nil {
		return color.NRGBA{}, false
	}
	return *w.bg, true
}

// widgetFromPath builds the chain for "GtkWindow.GtkToolbar.GtkButton" and
// returns the innermost widget.
func widgetFromPath(path string) *pathWidget {
	var w *pathWidget
	for _, name := range strings.Split(path, ".") {
		if name = strings.TrimSpace(name); name == "" {
			continue
		}
		w = &pathWidget{name: name, parent: w}
	}
	return w
}
