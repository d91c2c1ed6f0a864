package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	chatmarkup "github.com/danielgatis/go-chatmarkup"
	"github.com/danielgatis/go-chatmarkup/config"
	"github.com/danielgatis/go-chatmarkup/internal/logging"
	"github.com/danielgatis/go-chatmarkup/spell"
)

// app bundles what every command needs: settings, logger and render context.
type app struct {
	cfg *config.Config
	log zerolog.Logger
	rc  *chatmarkup.RenderContext
}

type appOptions struct {
	// wordListOnly skips the Enchant candidates.
	wordListOnly bool
	// configure adjusts the loaded settings before the render context is built.
	configure func(*config.Config)
}

func newApp(cmd *cobra.Command, flags *rootFlags, opts appOptions) (*app, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if opts.configure != nil {
		opts.configure(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	level := cfg.Log.Level
	if flags.verbose {
		level = "debug"
	}
	log, err := logging.New(logging.Options{
		Level:         level,
		HumanReadable: cfg.Log.HumanReadable,
		Writer:        cmd.ErrOrStderr(),
		Component:     cmd.Name(),
	})
	if err != nil {
		return nil, err
	}

	renderOpts := []chatmarkup.RenderOption{chatmarkup.WithRenderLogger(log)}
	if opts.wordListOnly {
		candidates := []spell.Candidate{}
		if cfg.Spell.WordListDir != "" {
			candidates = append(candidates, spell.WordListCandidate(cfg.Spell.WordListDir, nil))
		}
		renderOpts = append(renderOpts, chatmarkup.WithSpellCandidates(candidates))
	}

	rc := chatmarkup.NewRenderContext(renderOpts...)
	if err := rc.Init(cfg.RenderConfig(nil)); err != nil {
		return nil, fmt.Errorf("init render context: %w", err)
	}
	return &app{cfg: cfg, log: log, rc: rc}, nil
}

func (a *app) Close() {
	if err := a.rc.Close(); err != nil {
		a.log.Debug().Err(err).Msg("render context close failed")
	}
}

// openInput returns the named file, or the command's stdin for "" and "-".
func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return f, nil
}

// readLines calls fn for every line of r.
func readLines(r io.Reader, fn func(string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		fn(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

func inputArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
