package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "chatmarkup",
		Short:         "Render IRC-formatted chat text and check its spelling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file (.toml, .yaml)")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(newRenderCmd(flags))
	cmd.AddCommand(newSpellCmd(flags))
	cmd.AddCommand(newPaletteCmd(flags))
	cmd.AddCommand(newURLsCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
