package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/pixtheme/internal/tui"
)

type browseOptions struct {
	style string
}

// browseRunner runs the browser program. Tests replace it.
var browseRunner = func(cmd *cobra.Command, m tea.Model) error {
	_, err := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	).Run()
	return err
}

func newBrowseCmd(root *rootFlags) *cobra.Command {
	opts := &browseOptions{}

	cmd := &cobra.Command{
		Use:   "browse [theme]",
		Short: "Browse styles and rules interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, root, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.style, "style", "s", "", "Open on the rules of this style")

	return cmd
}

func runBrowse(cmd *cobra.Command, root *rootFlags, opts *browseOptions, args []string) error {
	app, err := newAppContext(cmd, root)
	if err != nil {
		return err
	}
	th, err := app.mustLoadTheme(cmd, args)
	if err != nil {
		return err
	}

	app.log.WithField("theme", th.Path()).Debug("launching browser")
	if err := browseRunner(cmd, tui.NewModel(th, opts.style)); err != nil {
		return newCommandError("browse", "running the browser", err, "Run from an interactive terminal.")
	}
	return nil
}
