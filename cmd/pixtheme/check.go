package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [theme]",
		Short: "Load a theme and report diagnostics",
		Long: `Check parses the descriptor and its includes, resolves every style and
image path, and prints what was loaded together with any warnings. It fails
on the first syntax error, or on any warning when --strict is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, root, args)
		},
	}

	return cmd
}

func runCheck(cmd *cobra.Command, root *rootFlags, args []string) error {
	app, err := newAppContext(cmd, root)
	if err != nil {
		return err
	}

	th, loadErr := app.loadTheme(args)
	out := cmd.OutOrStdout()
	if th != nil {
		rules := 0
		for _, st := range th.Styles() {
			rules += st.Rules.Len()
		}
		fmt.Fprintf(out, "Theme: %s\n", th.Path())
		fmt.Fprintf(out, "Styles: %d\nRules: %d\nBindings: %d\n", len(th.Styles()), rules, len(th.Bindings()))
		if warnings := th.Warnings(); len(warnings) > 0 {
			fmt.Fprintf(out, "Warnings: %d\n", len(warnings))
			for _, w := range warnings {
				fmt.Fprintf(out, "  %v\n", w)
			}
		}
	}

	if loadErr != nil {
		return newCommandError("check", "loading theme", loadErr, "Fix the reported location and run check again.")
	}

	fmt.Fprintln(out, "OK")
	return nil
}
