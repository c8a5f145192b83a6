package parser

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/alexisbeaulieu97/pixtheme/internal/logger"
	"github.com/alexisbeaulieu97/pixtheme/internal/rule"
	pixerrors "github.com/alexisbeaulieu97/pixtheme/pkg/errors"
)

// PathResolver maps a descriptor-relative image path to a loadable file.
type PathResolver interface {
	Resolve(source string) (string, bool)
}

// PathResolverFunc adapts a function to PathResolver.
type PathResolverFunc func(source string) (string, bool)

// Resolve calls f.
func (f PathResolverFunc) Resolve(source string) (string, bool) {
	return f(source)
}

// IdentityResolver resolves every non-empty path to itself.
var IdentityResolver = PathResolverFunc(func(source string) (string, bool) {
	return source, source != ""
})

// SearchPath resolves a path against directories added by pixmap_path
// statements and then against Fallback, returning the first candidate that
// exists on disk. Relative directories are taken relative to Base. Absolute
// sources are checked as is.
type SearchPath struct {
	Base     string
	Fallback []string
	dirs     []string
}

// AddDir appends a search directory.
func (sp *SearchPath) AddDir(dir string) {
	if dir == "" {
		return
	}
	if !filepath.IsAbs(dir) && sp.Base != "" {
		dir = filepath.Join(sp.Base, dir)
	}
	sp.dirs = append(sp.dirs, dir)
}

// Dirs returns the search order.
func (sp *SearchPath) Dirs() []string {
	out := make([]string, 0, len(sp.dirs)+len(sp.Fallback))
	out = append(out, sp.dirs...)
	return append(out, sp.Fallback...)
}

// Resolve implements PathResolver.
func (sp *SearchPath) Resolve(source string) (string, bool) {
	if source == "" {
		return "", false
	}
	if filepath.IsAbs(source) {
		return source, fileExists(source)
	}
	for _, dir := range sp.Dirs() {
		candidate := filepath.Join(dir, source)
		if fileExists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// ColorTable looks up symbolic color names.
type ColorTable interface {
	Lookup(name string) (color.NRGBA, bool)
}

// NamedColors resolves names through Overrides first and then the SVG 1.1
// color keywords. Lookups ignore case and spaces.
type NamedColors struct {
	Overrides map[string]color.NRGBA
}

// Lookup implements ColorTable.
func (n NamedColors) Lookup(name string) (color.NRGBA, bool) {
	key := strings.ToLower(strings.ReplaceAll(name, " ", ""))
	if c, ok := n.Overrides[key]; ok {
		return c, true
	}
	c, ok := colornames.Map[key]
	if !ok {
		return color.NRGBA{}, false
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, true
}

// Env carries the collaborators consulted while parsing.
type Env struct {
	Atoms    *rule.Interner
	Resolver PathResolver
	Colors   ColorTable
	Log      *logger.Logger
	// Strict rejects content the default parser skips silently: unknown
	// attributes inside image blocks and trailing content in a section.
	Strict bool
	// OnWarning receives semantic warnings in addition to the log.
	OnWarning func(w *pixerrors.SemanticWarning)
	// Include parses a file named by an rc include statement.
	Include func(name string) (*File, error)
}

func (env Env) withDefaults() Env {
	if env.Atoms == nil {
		env.Atoms = rule.NewInterner()
	}
	if env.Resolver == nil {
		env.Resolver = IdentityResolver
	}
	if env.Colors == nil {
		env.Colors = NamedColors{}
	}
	if env.Log == nil {
		env.Log = logger.Nop()
	}
	return env
}
