package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/danielgatis/go-chatmarkup/config"
)

type spellOptions struct {
	languages    string
	wordListDir  string
	wordListOnly bool
	all          bool
	ignore       []string
}

func newSpellCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &spellOptions{}

	cmd := &cobra.Command{
		Use:   "spell [text...]",
		Short: "Flag misspelled words and print suggestions",
		Long: "Checks the given text, or every line of stdin, and prints one row per\n" +
			"misspelled word with its byte range and suggestions.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSpell(cmd, rootFlags, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.languages, "lang", "l", "", "Language list, overrides the config")
	cmd.Flags().StringVar(&opts.wordListDir, "wordlist", "", "Directory of <lang>.dic or <lang>.txt word lists")
	cmd.Flags().BoolVar(&opts.wordListOnly, "wordlist-only", false, "Skip the Enchant library and use word lists only")
	cmd.Flags().BoolVarP(&opts.all, "all", "a", false, "List every word, not only misspelled ones")
	cmd.Flags().StringSliceVar(&opts.ignore, "ignore", nil, "Words to treat as correct")

	return cmd
}

func runSpell(cmd *cobra.Command, rootFlags *rootFlags, opts *spellOptions, args []string) error {
	a, err := newApp(cmd, rootFlags, appOptions{
		wordListOnly: opts.wordListOnly,
		configure: func(cfg *config.Config) {
			cfg.Spell.Enabled = true
			if opts.languages != "" {
				cfg.Spell.Languages = opts.languages
			}
			if opts.wordListDir != "" {
				cfg.Spell.WordListDir = opts.wordListDir
			}
		},
	})
	if err != nil {
		return err
	}
	defer a.Close()

	annotator := a.rc.Annotator()
	for _, w := range opts.ignore {
		annotator.IgnoreWord(w)
	}
	a.log.Debug().
		Str("state", a.rc.Spell().State().String()).
		Strs("languages", a.rc.Spell().Languages()).
		Msg("spell checker")

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	check := func(text string) {
		for span := range annotator.Tokenize(text) {
			if !span.Misspelled && !opts.all {
				continue
			}
			writeSpan(tw, span.Word, span.Start, span.End, span.Misspelled, annotator.Suggest)
		}
	}

	if len(args) > 0 {
		check(strings.Join(args, " "))
	} else {
		in, err := openInput(cmd, "")
		if err != nil {
			return err
		}
		if err := readLines(in, check); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func writeSpan(w io.Writer, word string, start, end int, misspelled bool, suggest func(string) []string) {
	status := "ok"
	var suggestions string
	if misspelled {
		status = "misspelled"
		suggestions = strings.Join(suggest(word), ", ")
	}
	fmt.Fprintf(w, "%s\t%d-%d\t%s\t%s\n", word, start, end, status, suggestions)
}
