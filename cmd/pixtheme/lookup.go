package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

type lookupOptions struct {
	q       queryFlags
	explain bool
}

func newLookupCmd(root *rootFlags) *cobra.Command {
	opts := &lookupOptions{}

	cmd := &cobra.Command{
		Use:   "lookup [theme]",
		Short: "Show the rule a paint request resolves to",
		Long: `Lookup answers one paint request the way the engine does: the first rule
of the style that accepts the request wins. With --explain every rule is
listed with its score; rejected rules score -1.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, root, opts, args)
		},
	}

	opts.q.bind(cmd)
	cmd.Flags().BoolVar(&opts.explain, "explain", false, "Score every rule against the request")

	return cmd
}

func runLookup(cmd *cobra.Command, root *rootFlags, opts *lookupOptions, args []string) error {
	q, err := opts.q.query()
	if err != nil {
		return newCommandError("lookup", "reading the request", err, "See 'pixtheme lookup --help' for accepted values.")
	}

	app, err := newAppContext(cmd, root)
	if err != nil {
		return err
	}
	th, err := app.mustLoadTheme(cmd, args)
	if err != nil {
		return err
	}
	st, err := opts.q.selectStyle(th)
	if err != nil {
		return newCommandError("lookup", "selecting style", err, "Run 'pixtheme rules' to see the defined styles.")
	}

	out := cmd.OutOrStdout()
	if opts.explain {
		writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(writer, "#\tSCORE\tMATCH\tLINE")
		for i, c := range st.Rules.Explain(q) {
			fmt.Fprintf(writer, "%d\t%d\t%s\t%d\n", i, c.Score, c.Rule.Describe(st.Rules.Atoms()), c.Rule.Line)
		}
		if err := writer.Flush(); err != nil {
			return err
		}
	}

	r, ok := st.Rules.Lookup(q)
	if !ok {
		fmt.Fprintf(out, "style %q: no matching rule\n", st.Name)
		return nil
	}

	fmt.Fprintf(out, "style %q line %d: %s\n", st.Name, r.Line, r.Describe(st.Rules.Atoms()))
	fmt.Fprintf(out, "  file: %s\n", imageLabel(r.Image))
	if r.Image.Present() {
		fmt.Fprintf(out, "  path: %s\n", r.Image.Path)
		fmt.Fprintf(out, "  border: %s stretch: %t\n", r.Image.Insets, r.Image.Stretch)
	}
	if r.Overlay.Source != "" {
		fmt.Fprintf(out, "  overlay: %s\n", imageLabel(r.Overlay))
	}
	return nil
}
