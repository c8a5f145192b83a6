package config

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/alexisbeaulieu97/pixtheme/internal/logger"
	"github.com/alexisbeaulieu97/pixtheme/internal/parser"
)

// Config represents the optional pixtheme host file.
type Config struct {
	Theme             string            `yaml:"theme,omitempty"`
	LogLevel          string            `yaml:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	HumanReadableLogs *bool             `yaml:"human_readable_logs,omitempty"`
	Strict            bool              `yaml:"strict,omitempty"`
	Interpolation     string            `yaml:"interpolation,omitempty" validate:"omitempty,oneof=nearest bilinear catmullrom"`
	PixmapPaths       []string          `yaml:"pixmap_paths,omitempty" validate:"omitempty,dive,required"`
	Colors            map[string]string `yaml:"colors,omitempty" validate:"omitempty,dive,keys,color_name,endkeys,theme_color"`

	// dir is the directory of the file the config was read from. Relative
	// paths are resolved against it.
	dir string
}

// Default returns the configuration used when no host file is given.
func Default() *Config {
	return &Config{LogLevel: "info", Interpolation: "bilinear"}
}

// HumanReadable reports whether logs go to a console writer. It defaults to
// true.
func (c *Config) HumanReadable() bool {
	return c.HumanReadableLogs == nil || *c.HumanReadableLogs
}

// LoggerOptions maps the logging fields onto logger options.
func (c *Config) LoggerOptions() logger.Options {
	return logger.Options{Level: c.LogLevel, HumanReadable: c.HumanReadable()}
}

// ThemePath returns the theme path resolved against the config directory.
func (c *Config) ThemePath() string {
	return c.resolve(c.Theme)
}

// SearchPaths returns the extra pixmap directories resolved against the
// config directory.
func (c *Config) SearchPaths() []string {
	out := make([]string, 0, len(c.PixmapPaths))
	for _, p := range c.PixmapPaths {
		out = append(out, c.resolve(p))
	}
	return out
}

// NamedColors parses the color overrides. Keys are lower-cased with spaces
// removed, matching how descriptors look names up.
func (c *Config) NamedColors() (map[string]color.NRGBA, error) {
	out := make(map[string]color.NRGBA, len(c.Colors))
	for name, value := range c.Colors {
		parsed, ok := parser.ParseHexColor(value)
		if !ok {
			return nil, fmt.Errorf("color %q: invalid value %q", name, value)
		}
		out[strings.ToLower(strings.ReplaceAll(name, " ", ""))] = parsed
	}
	return out, nil
}

func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.dir == "" {
		return p
	}
	return filepath.Join(c.dir, p)
}
