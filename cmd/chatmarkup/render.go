package main

import (
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	chatmarkup "github.com/danielgatis/go-chatmarkup"
)

type renderOptions struct {
	format     string
	nick       string
	channel    string
	highlights []string
	timestamps bool
	png        string
}

func newRenderCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Transcode chat lines and print them styled",
		Long: "Reads one raw message per line from file, or stdin, and prints the visible\n" +
			"text with ANSI styling, or a JSON snapshot with --format json.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, rootFlags, opts, inputArg(args))
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "ansi", "Output format: ansi or json")
	cmd.Flags().StringVar(&opts.nick, "nick", "", "Local nick used for highlights")
	cmd.Flags().StringVar(&opts.channel, "channel", "", "Channel name")
	cmd.Flags().StringSliceVar(&opts.highlights, "highlight", nil, "Extra highlight words")
	cmd.Flags().BoolVar(&opts.timestamps, "timestamps", false, "Prefix lines with a timestamp")
	cmd.Flags().StringVar(&opts.png, "png", "", "Also render the lines to this PNG file")

	return cmd
}

func runRender(cmd *cobra.Command, rootFlags *rootFlags, opts *renderOptions, path string) error {
	if opts.format != "ansi" && opts.format != "json" {
		return fmt.Errorf("unknown format %q: use ansi or json", opts.format)
	}

	a, err := newApp(cmd, rootFlags, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	if opts.timestamps {
		prefs := a.rc.Preferences()
		prefs.ShowTimestamps = true
		a.rc.SetPreferences(prefs)
	}

	in, err := openInput(cmd, path)
	if err != nil {
		return err
	}
	defer in.Close()

	ctx := chatmarkup.MessageContext{Nick: opts.nick, Channel: opts.channel, Highlights: opts.highlights}
	buf := chatmarkup.NewTextBuffer()
	var highlighted []bool
	err = readLines(in, func(raw string) {
		line := a.rc.Transcode(chatmarkup.Message{Raw: raw}, ctx)
		buf.Append(line)
		highlighted = append(highlighted, line.Highlighted())
	})
	if err != nil {
		return err
	}

	snap := buf.Snapshot(chatmarkup.SnapshotDetailStyled, a.rc.StyleTable(), a.rc.Palette())
	a.log.Debug().Int("lines", len(snap.Lines)).Msg("rendered")

	if opts.png != "" {
		if err := writePNG(opts.png, a.rc.Screenshot(buf, 4)); err != nil {
			return err
		}
		a.log.Debug().Str("path", opts.png).Msg("screenshot saved")
	}

	out := cmd.OutOrStdout()
	if opts.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}
	return writeANSI(out, snap, highlighted)
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}

// writeANSI prints every segment with its color and attributes. Output to a
// non-terminal writer degrades to plain text.
func writeANSI(w io.Writer, snap *chatmarkup.Snapshot, highlighted []bool) error {
	out := termenv.NewOutput(w)
	for i, line := range snap.Lines {
		if i < len(highlighted) && highlighted[i] {
			fmt.Fprint(out, out.String("! ").Reverse().String())
		}
		for _, seg := range line.Segments {
			style := out.String(seg.Text).Foreground(out.Color(seg.Fg))
			if seg.Attributes.Bold {
				style = style.Bold()
			}
			if seg.Attributes.Italic {
				style = style.Italic()
			}
			if seg.Attributes.Underline {
				style = style.Underline()
			}
			text := style.String()
			if seg.Hyperlink && out.Profile != termenv.Ascii {
				text = out.Hyperlink(seg.Text, text)
			}
			if _, err := fmt.Fprint(out, text); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(out); err != nil {
			return err
		}
	}
	return nil
}
