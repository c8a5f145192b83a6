package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	verbose    bool
	strict     bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "pixtheme",
		Short:         "pixtheme loads pixmap theme descriptors and renders their rules",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Host configuration file (YAML)")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().BoolVar(&flags.strict, "strict", false, "Reject skipped content and treat warnings as errors")

	cmd.AddCommand(newCheckCmd(flags))
	cmd.AddCommand(newRulesCmd(flags))
	cmd.AddCommand(newLookupCmd(flags))
	cmd.AddCommand(newRenderCmd(flags))
	cmd.AddCommand(newBrowseCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
