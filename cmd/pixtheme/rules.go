package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexisbeaulieu97/pixtheme/internal/rule"
	"github.com/alexisbeaulieu97/pixtheme/internal/theme"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))

type rulesOptions struct {
	style      string
	jsonOutput bool
}

func newRulesCmd(root *rootFlags) *cobra.Command {
	opts := &rulesOptions{}

	cmd := &cobra.Command{
		Use:   "rules [theme]",
		Short: "List the rules of each style in lookup order",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRules(cmd, root, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.style, "style", "s", "", "Only list the rules of this style")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func runRules(cmd *cobra.Command, root *rootFlags, opts *rulesOptions, args []string) error {
	app, err := newAppContext(cmd, root)
	if err != nil {
		return err
	}
	th, err := app.mustLoadTheme(cmd, args)
	if err != nil {
		return err
	}

	styles := th.Styles()
	if opts.style != "" {
		st, ok := th.Style(opts.style)
		if !ok {
			return newCommandError("rules", "selecting style", fmt.Errorf("style %q is not defined", opts.style), "Run 'pixtheme rules' to see the defined styles.")
		}
		styles = []*theme.Style{st}
	}

	if opts.jsonOutput {
		return renderRulesJSON(cmd.OutOrStdout(), th, styles)
	}
	return renderRulesTable(cmd.OutOrStdout(), styles)
}

func renderRulesTable(out io.Writer, styles []*theme.Style) error {
	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	header := "STYLE\t#\tMATCH\tIMAGE\tLINE"
	if isTerminal(out) {
		header = headerStyle.Render(header)
	}
	fmt.Fprintln(writer, header)

	for _, st := range styles {
		for i, r := range st.Rules.Rules() {
			fmt.Fprintf(writer, "%s\t%d\t%s\t%s\t%d\n", st.Name, i, r.Describe(st.Rules.Atoms()), imageLabel(r.Image), r.Line)
		}
	}

	return writer.Flush()
}

func imageLabel(img rule.Image) string {
	switch {
	case img.Source == "":
		return "-"
	case !img.Present():
		return img.Source + " (missing)"
	default:
		return img.Source
	}
}

type rulesJSONRule struct {
	Index    int    `json:"index"`
	Line     int    `json:"line"`
	Function string `json:"function"`
	Match    string `json:"match"`
	Image    string `json:"image,omitempty"`
	Path     string `json:"path,omitempty"`
	Border   string `json:"border,omitempty"`
	Stretch  bool   `json:"stretch"`
	Overlay  string `json:"overlay,omitempty"`
}

type rulesJSONStyle struct {
	Name   string          `json:"name"`
	Parent string          `json:"parent,omitempty"`
	Engine string          `json:"engine,omitempty"`
	Rules  []rulesJSONRule `json:"rules"`
}

type rulesJSONPayload struct {
	Theme  string           `json:"theme"`
	Count  int              `json:"count"`
	Styles []rulesJSONStyle `json:"styles"`
}

func renderRulesJSON(out io.Writer, th *theme.Theme, styles []*theme.Style) error {
	payload := rulesJSONPayload{Theme: th.Path(), Styles: make([]rulesJSONStyle, len(styles))}

	for i, st := range styles {
		entry := rulesJSONStyle{Name: st.Name, Parent: st.Parent, Engine: st.Engine, Rules: []rulesJSONRule{}}
		for j, r := range st.Rules.Rules() {
			jr := rulesJSONRule{
				Index:    j,
				Line:     r.Line,
				Function: r.Function.String(),
				Match:    r.Describe(st.Rules.Atoms()),
				Image:    r.Image.Source,
				Path:     r.Image.Path,
				Stretch:  r.Image.Stretch,
				Overlay:  r.Overlay.Source,
			}
			if r.Image.Insets != (rule.Insets{}) {
				jr.Border = r.Image.Insets.String()
			}
			entry.Rules = append(entry.Rules, jr)
			payload.Count++
		}
		payload.Styles[i] = entry
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}

func isTerminal(writer any) bool {
	if file, ok := writer.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}
