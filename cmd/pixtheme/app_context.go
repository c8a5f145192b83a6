package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/pixtheme/internal/config"
	"github.com/alexisbeaulieu97/pixtheme/internal/logger"
	"github.com/alexisbeaulieu97/pixtheme/internal/theme"
)

// appContext bundles the host configuration and logger a command runs with.
type appContext struct {
	cfg    *config.Config
	log    *logger.Logger
	strict bool
}

func newAppContext(cmd *cobra.Command, flags *rootFlags) (*appContext, error) {
	cfg := config.Default()
	if strings.TrimSpace(flags.configPath) != "" {
		parsed, err := config.ParseConfig(flags.configPath)
		if err != nil {
			return nil, newCommandError(cmd.Name(), "reading host configuration", err, "Fix the configuration file or drop --config.")
		}
		cfg = parsed
	}

	opts := cfg.LoggerOptions()
	if flags.verbose {
		opts.Level = "debug"
	}
	opts.Writer = cmd.ErrOrStderr()
	log, err := logger.New(opts)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	return &appContext{
		cfg:    cfg,
		log:    log.WithField("command", cmd.Name()),
		strict: flags.strict || cfg.Strict,
	}, nil
}

// loadTheme loads the theme named by args or, failing that, the config. The
// partial theme is returned along with any load error.
func (a *appContext) loadTheme(args []string) (*theme.Theme, error) {
	path := a.cfg.ThemePath()
	if len(args) > 0 {
		path = args[0]
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("theme path is required: pass it as an argument or set theme in the config")
	}

	colors, err := a.cfg.NamedColors()
	if err != nil {
		return nil, err
	}

	return theme.Load(path, theme.Options{
		PixmapPaths: a.cfg.SearchPaths(),
		Colors:      colors,
		Strict:      a.strict,
		Log:         a.log,
	})
}

// mustLoadTheme is loadTheme for commands that cannot use a partial theme.
func (a *appContext) mustLoadTheme(cmd *cobra.Command, args []string) (*theme.Theme, error) {
	th, err := a.loadTheme(args)
	if err != nil {
		return nil, newCommandError(cmd.Name(), "loading theme", err, "Run 'pixtheme check' for the full diagnostics.")
	}
	return th, nil
}

func newCommandError(operation, context string, cause error, suggestion string) error {
	return &commandError{operation: operation, context: context, cause: cause, suggestion: suggestion}
}

type commandError struct {
	operation  string
	context    string
	cause      error
	suggestion string
}

func (e *commandError) Error() string {
	return fmt.Sprintf("Failed to %s: %s\n\nError: %v\n\nSuggestion: %s", e.operation, e.context, e.cause, e.suggestion)
}

func (e *commandError) Unwrap() error {
	return e.cause
}
