// Package theme loads rc descriptors into resolved styles and answers paint
// requests for the host.
package theme

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/alexisbeaulieu97/pixtheme/internal/compositor"
	"github.com/alexisbeaulieu97/pixtheme/internal/imagecache"
	"github.com/alexisbeaulieu97/pixtheme/internal/logger"
	"github.com/alexisbeaulieu97/pixtheme/internal/parser"
	"github.com/alexisbeaulieu97/pixtheme/internal/rule"
	"github.com/alexisbeaulieu97/pixtheme/internal/scanner"
	pixerrors "github.com/alexisbeaulieu97/pixtheme/pkg/errors"
)

// maxIncludeDepth bounds nested include statements.
const maxIncludeDepth = 10

// Options configures Load.
type Options struct {
	// PixmapPaths are searched after the descriptor's own pixmap_path
	// directories and the theme directory.
	PixmapPaths []string
	// Colors override named colors. Keys are matched case-insensitively.
	Colors map[string]color.NRGBA
	// Strict rejects content the parser otherwise skips and turns semantic
	// warnings into a load error.
	Strict bool
	Log    *logger.Logger
}

// Theme is a loaded descriptor. It is safe for concurrent painting once
// Load returns.
type Theme struct {
	path     string
	atoms    *rule.Interner
	images   *imagecache.Cache
	renderer *compositor.Renderer
	log      *logger.Logger

	styles      map[string]*Style
	order       []*Style
	bindings    []parser.Binding
	pixmapPaths []string
	searchPath  []string
	warnings    []*pixerrors.SemanticWarning
}

// Load parses the descriptor at path with its includes and resolves styles.
// On a parse error the styles read before it are kept and the partial theme
// is returned along with the error.
func Load(path string, opts Options) (*Theme, error) {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve theme path: %w", err)
	}

	th := &Theme{
		path:   abs,
		atoms:  rule.NewInterner(),
		images: imagecache.New(),
		log:    log.WithField("theme", abs),
		styles: map[string]*Style{},
	}
	th.renderer = compositor.NewRenderer(th.images, th.log)

	dir := filepath.Dir(abs)
	search := &parser.SearchPath{Base: dir, Fallback: append([]string{dir}, opts.PixmapPaths...)}

	overrides := make(map[string]color.NRGBA, len(opts.Colors))
	for name, c := range opts.Colors {
		overrides[strings.ToLower(strings.ReplaceAll(name, " ", ""))] = c
	}

	env := parser.Env{
		Atoms:    th.atoms,
		Resolver: search,
		Colors:   parser.NamedColors{Overrides: overrides},
		Log:      th.log,
		Strict:   opts.Strict,
		OnWarning: func(w *pixerrors.SemanticWarning) {
			th.warnings = append(th.warnings, w)
		},
	}

	loader := &includeLoader{env: &env, visited: map[string]bool{}}
	env.Include = loader.include

	file, parseErr := loader.parseFile(abs, 0)
	if file != nil {
		th.build(file)
	}
	th.searchPath = search.Dirs()

	th.log.WithFields(map[string]any{
		"styles":   len(th.order),
		"bindings": len(th.bindings),
		"warnings": len(th.warnings),
	}).Info("theme loaded")

	if parseErr != nil {
		return th, fmt.Errorf("load theme %s: %w", path, parseErr)
	}
	if opts.Strict && len(th.warnings) > 0 {
		errs := make([]error, len(th.warnings))
		for i, w := range th.warnings {
			errs[i] = w
		}
		return th, fmt.Errorf("load theme %s: %w", path, errors.Join(errs...))
	}
	return th, nil
}

type includeLoader struct {
	env     *parser.Env
	visited map[string]bool
	stack   []string
}

func (l *includeLoader) parseFile(path string, depth int) (*parser.File, error) {
	if depth > maxIncludeDepth {
		return nil, pixerrors.NewParseError(path, 0, fmt.Errorf("includes nested deeper than %d", maxIncludeDepth))
	}
	if l.visited[path] {
		return nil, pixerrors.NewParseError(path, 0, errors.New("include cycle"))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pixerrors.NewParseError(path, 0, err)
	}

	l.visited[path] = true
	l.stack = append(l.stack, path)
	defer func() {
		l.stack = l.stack[:len(l.stack)-1]
		delete(l.visited, path)
	}()

	s := scanner.New(path, string(data), scanner.DefaultSyntax())
	return parser.ParseRC(s, *l.env)
}

func (l *includeLoader) include(name string) (*parser.File, error) {
	current := l.stack[len(l.stack)-1]
	target := name
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(current), name)
	}
	return l.parseFile(target, len(l.stack))
}

func (th *Theme) build(file *parser.File) {
	th.pixmapPaths = file.PixmapPaths
	th.bindings = file.Bindings

	for _, decl := range file.Styles {
		var parent *Style
		if decl.Parent != "" {
			p, ok := th.styles[decl.Parent]
			if !ok {
				th.warn(decl.Path, decl.Line, fmt.Sprintf("style %q: unknown parent %q", decl.Name, decl.Parent))
			}
			parent = p
		}

		st := newStyle(decl, parent, rule.NewDatabase(th.atoms, th.images))
		if prev, dup := th.styles[decl.Name]; dup {
			th.warn(decl.Path, decl.Line, fmt.Sprintf("style %q redefined", decl.Name))
			th.replace(prev, st)
		} else {
			th.order = append(th.order, st)
		}
		th.styles[decl.Name] = st
	}
}

func (th *Theme) replace(prev, next *Style) {
	for i, st := range th.order {
		if st == prev {
			th.order[i] = next
			return
		}
	}
}

func (th *Theme) warn(path string, line int, message string) {
	w := &pixerrors.SemanticWarning{Path: path, Line: line, Message: message}
	th.warnings = append(th.warnings, w)
	th.log.WithRule(path, line).Warn(message)
}

// Path returns the absolute descriptor path.
func (th *Theme) Path() string {
	return th.path
}

// Atoms returns the interner shared by every style's rules.
func (th *Theme) Atoms() *rule.Interner {
	return th.atoms
}

// Images returns the image cache shared by every style.
func (th *Theme) Images() *imagecache.Cache {
	return th.images
}

// PixmapPaths returns the directories named by pixmap_path statements.
func (th *Theme) PixmapPaths() []string {
	return th.pixmapPaths
}

// SearchPath returns the directories image paths were resolved against.
func (th *Theme) SearchPath() []string {
	return th.searchPath
}

// Warnings returns the semantic warnings collected while loading.
func (th *Theme) Warnings() []*pixerrors.SemanticWarning {
	return th.warnings
}

// Style returns the style declared under name.
func (th *Theme) Style(name string) (*Style, bool) {
	st, ok := th.styles[name]
	return st, ok
}

// Styles returns the styles in declaration order.
func (th *Theme) Styles() []*Style {
	out := make([]*Style, len(th.order))
	copy(out, th.order)
	return out
}

// Bindings returns the class, widget_class and widget statements in order.
func (th *Theme) Bindings() []parser.Binding {
	out := make([]parser.Binding, len(th.bindings))
	copy(out, th.bindings)
	return out
}

// StyleFor returns the style bound to a widget class.
func (th *Theme) StyleFor(class string) (*Style, bool) {
	return th.Match(parser.BindClass, class)
}

// Match returns the style of the last binding of kind whose pattern matches
// subject. Patterns use shell globbing; widget paths are dot separated.
func (th *Theme) Match(kind parser.BindingKind, subject string) (*Style, bool) {
	for i := len(th.bindings) - 1; i >= 0; i-- {
		b := th.bindings[i]
		if b.Kind != kind || !globMatch(b.Pattern, subject) {
			continue
		}
		if st, ok := th.styles[b.Style]; ok {
			return st, true
		}
	}
	return nil, false
}

// globMatch uses path.Match syntax. Widget paths are dot separated, so '*'
// spans path components.
func globMatch(pattern, subject string) bool {
	ok, err := path.Match(pattern, subject)
	return err == nil && ok
}

// Paint looks up q in the style's rules and renders the match into dst.
// It reports false on a miss so the host can fall back to its own painter.
func (th *Theme) Paint(s compositor.Surface, dst image.Rectangle, st *Style, q rule.Query, drawOverlay bool, ctx compositor.Context) bool {
	if st == nil {
		return false
	}
	r, ok := st.Rules.Lookup(q)
	if !ok {
		return false
	}
	if ctx.Thickness == (image.Point{}) {
		ctx.Thickness = st.Thickness
	}
	if ctx.StyleBackground == (color.NRGBA{}) {
		ctx.StyleBackground = st.Background(q.State)
	}
	if ctx.Tint == nil && st.Colorize != nil {
		ctx.Tint = st.Colorize
	}
	th.renderer.RenderRule(s, dst, r, drawOverlay, ctx)
	return true
}

// ColorizeIcon tints icon for widgets painted with st when the style enables
// icon colorizing. With ancestor types set, only widgets inside one of them
// are tinted. Other icons are returned unchanged.
func (th *Theme) ColorizeIcon(st *Style, icon image.Image, w rule.Widget) image.Image {
	if st == nil || icon == nil || !st.IconColorize {
		return icon
	}
	if len(st.IconAncestors) > 0 && !th.insideAny(w, st.IconAncestors) {
		return icon
	}
	tint := st.Background(rule.StateSelected)
	if st.Colorize != nil {
		tint = *st.Colorize
	}
	return compositor.Recolor(nil, icon, tint)
}

func (th *Theme) insideAny(w rule.Widget, types []rule.Atom) bool {
	if w == nil {
		return false
	}
	for p := w.Parent(); p != nil; p = p.Parent() {
		a, ok := th.atoms.Lookup(p.TypeName())
		if !ok {
			continue
		}
		for _, t := range types {
			if a == t {
				return true
			}
		}
	}
	return false
}

// Close drops decoded images.
func (th *Theme) Close() {
	th.images.Clear()
}
