package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	chatmarkup "github.com/danielgatis/go-chatmarkup"
	"github.com/danielgatis/go-chatmarkup/config"
)

var roleNames = map[int]string{
	chatmarkup.ColorMarkFg:     "selection fg",
	chatmarkup.ColorMarkBg:     "selection bg",
	chatmarkup.ColorFg:         "text fg",
	chatmarkup.ColorBg:         "text bg",
	chatmarkup.ColorMarker:     "marker line",
	chatmarkup.ColorNewData:    "tab: new data",
	chatmarkup.ColorHighlight:  "tab: highlight",
	chatmarkup.ColorNewMessage: "tab: new message",
	chatmarkup.ColorAway:       "away user",
	chatmarkup.ColorSpell:      "spelling error",
}

type paletteOptions struct {
	file string
}

func newPaletteCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &paletteOptions{}

	cmd := &cobra.Command{
		Use:   "palette",
		Short: "Inspect and edit the color palette file",
	}
	cmd.PersistentFlags().StringVar(&opts.file, "file", "", "Palette file, overrides the config")

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print every palette entry with a swatch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPaletteShow(cmd, rootFlags, opts)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Write the default colors to the palette file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPaletteReset(cmd, rootFlags, opts)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <index> <r> <g> <b>",
		Short: "Change one palette entry and save the file",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPaletteSet(cmd, rootFlags, opts, args)
		},
	})

	return cmd
}

func paletteApp(cmd *cobra.Command, rootFlags *rootFlags, opts *paletteOptions) (*app, error) {
	return newApp(cmd, rootFlags, appOptions{
		configure: func(cfg *config.Config) {
			cfg.Spell.Enabled = false
			if opts.file != "" {
				cfg.Palette.Path = opts.file
			}
		},
	})
}

func runPaletteShow(cmd *cobra.Command, rootFlags *rootFlags, opts *paletteOptions) error {
	a, err := paletteApp(cmd, rootFlags, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	p := a.rc.Palette()
	label := lipgloss.NewStyle().Width(18)
	for i := 0; i <= chatmarkup.MaxColor; i++ {
		name, ok := roleNames[i]
		if !ok {
			name = fmt.Sprintf("mirc %d", i)
		}
		swatch := lipgloss.NewStyle().Background(lipgloss.Color(p.Hex(i))).Render("    ")
		fmt.Fprintf(cmd.OutOrStdout(), "%3d %s %s %s\n", i, label.Render(name), p.Hex(i), swatch)
	}
	return nil
}

func runPaletteReset(cmd *cobra.Command, rootFlags *rootFlags, opts *paletteOptions) error {
	a, err := paletteApp(cmd, rootFlags, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	path := a.cfg.Palette.Path
	if path == "" {
		return errors.New("no palette file: set palette.path or --file")
	}
	p := a.rc.Palette()
	p.Reset()
	if err := p.Save(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "palette reset: %s\n", path)
	return nil
}

func runPaletteSet(cmd *cobra.Command, rootFlags *rootFlags, opts *paletteOptions, args []string) error {
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid index %q: %w", args[0], err)
	}
	var rgb [3]uint8
	for i, s := range args[1:] {
		v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 8)
		if err != nil {
			return fmt.Errorf("invalid channel %q: %w", s, err)
		}
		rgb[i] = uint8(v)
	}

	a, err := paletteApp(cmd, rootFlags, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	path := a.cfg.Palette.Path
	if path == "" {
		return errors.New("no palette file: set palette.path or --file")
	}
	p := a.rc.Palette()
	if !p.Set(index, rgb[0], rgb[1], rgb[2]) {
		return fmt.Errorf("index %d out of range 0-%d", index, chatmarkup.MaxColor)
	}
	if err := p.Save(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "color %d set to %s\n", index, p.Hex(index))
	return nil
}
