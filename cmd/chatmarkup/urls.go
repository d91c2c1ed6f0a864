package main

import (
	"fmt"

	"github.com/spf13/cobra"

	chatmarkup "github.com/danielgatis/go-chatmarkup"
	"github.com/danielgatis/go-chatmarkup/config"
)

type urlsOptions struct {
	save string
}

func newURLsCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &urlsOptions{}

	cmd := &cobra.Command{
		Use:   "urls [file]",
		Short: "List the hyperlinks found in chat lines",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runURLs(cmd, rootFlags, opts, inputArg(args))
		},
	}
	cmd.Flags().StringVar(&opts.save, "save", "", "Also write the list to this file")

	return cmd
}

func runURLs(cmd *cobra.Command, rootFlags *rootFlags, opts *urlsOptions, path string) error {
	a, err := newApp(cmd, rootFlags, appOptions{
		configure: func(cfg *config.Config) { cfg.Spell.Enabled = false },
	})
	if err != nil {
		return err
	}
	defer a.Close()

	in, err := openInput(cmd, path)
	if err != nil {
		return err
	}
	defer in.Close()

	err = readLines(in, func(raw string) {
		a.rc.Transcode(chatmarkup.Message{Raw: raw}, chatmarkup.MessageContext{})
	})
	if err != nil {
		return err
	}

	urls := a.rc.URLs()
	if _, err := urls.WriteTo(cmd.OutOrStdout()); err != nil {
		return err
	}
	if opts.save != "" {
		if err := urls.Save(opts.save); err != nil {
			return err
		}
		a.log.Debug().Str("path", opts.save).Int("urls", urls.Len()).Msg("url list saved")
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%d urls\n", urls.Len())
	return nil
}
