package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/okatsu/mdpresent/internal/app"
	"github.com/okatsu/mdpresent/internal/config"
	"github.com/okatsu/mdpresent/internal/deck"
	"github.com/okatsu/mdpresent/internal/export"
	"github.com/okatsu/mdpresent/internal/nav"
)

var (
	verbose    bool
	theme      string
	transition string
	wrap       bool
	noProgress bool
	notes      bool
	startAt    string
	output     string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "mdpresent <file[#/h[/v]]>",
	Short: "Present a markdown document as a slide deck in the terminal",
	Long: `mdpresent turns a single markdown document into a navigable terminal
presentation.

Top-level slides are separated by a line containing exactly "---", vertical
sub-slides by a line containing exactly "--", and speaker notes start at a
line beginning with "Note:" or "Notes:". An optional YAML frontmatter block
sets the title, author, theme and presentation options.

A deep-link fragment on the file argument ("deck.md#/2/1") selects the
starting slide, and the current fragment is shown in the status line so a
position can be shared.`,
	Args: cobra.ExactArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The presenter has its own UI; only the plain commands log.
		if cmd.Name() == cmd.Root().Name() {
			return nil
		}
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Run(args[0], startAt, flagOverrides(cmd))
	},
	SilenceUsage: true,
}

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Render the deck to a standalone HTML document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := nav.SplitTarget(args[0])
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		parsed, err := deck.Parse(data)
		if err != nil {
			return err
		}
		for _, w := range parsed.Warnings {
			logger.Warn("parse warning", zap.Int("line", w.Line), zap.String("message", w.Message))
		}

		opts := config.Resolve(parsed.Meta, flagOverrides(cmd))
		rendered, err := export.New().HTML(parsed, opts)
		if err != nil {
			return err
		}

		out := output
		if out == "" {
			out = strings.TrimSuffix(path, filepath.Ext(path)) + ".html"
		}
		if err := os.WriteFile(out, rendered, 0o644); err != nil {
			return err
		}
		logger.Info("deck exported",
			zap.String("source", path),
			zap.String("output", out),
			zap.Int("slides", len(parsed.Slides)),
			zap.Int("leaves", parsed.LeafCount()))
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Parse the deck and report its shape and any warnings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := nav.SplitTarget(args[0])
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		parsed, err := deck.Parse(data)
		if err != nil {
			return err
		}

		logger.Debug("deck parsed", zap.String("source", path))

		fmt.Printf("%s: %d slide(s), %d leaf(s)\n", path, len(parsed.Slides), parsed.LeafCount())
		for h, slide := range parsed.Slides {
			if slide.IsGroup() {
				fmt.Printf("  slide %d: group of %d\n", h+1, len(slide.Leaves))
			} else {
				fmt.Printf("  slide %d: leaf\n", h+1)
			}
		}
		for _, w := range parsed.Warnings {
			fmt.Printf("  warning (line %d): %s\n", w.Line, w.Message)
		}
		return nil
	},
}

// flagOverrides lifts only the flags the user actually set, so that
// frontmatter keeps precedence over untouched flags.
func flagOverrides(cmd *cobra.Command) config.Overrides {
	var ov config.Overrides
	if cmd.Flags().Changed("theme") {
		ov.Theme = &theme
	}
	if cmd.Flags().Changed("transition") {
		ov.Transition = &transition
	}
	if cmd.Flags().Changed("wrap") {
		ov.Wrap = &wrap
	}
	if cmd.Flags().Changed("no-progress") {
		show := !noProgress
		ov.Progress = &show
	}
	if cmd.Flags().Changed("notes") {
		ov.Notes = &notes
	}
	return ov
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging for non-interactive commands")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", "", "glamour style for terminal rendering (default from frontmatter, else auto)")
	rootCmd.PersistentFlags().StringVar(&transition, "transition", "", "transition emitted by the HTML export")
	rootCmd.PersistentFlags().BoolVar(&wrap, "wrap", false, "wrap navigation past the ends of the deck")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "hide the progress bar")
	rootCmd.PersistentFlags().BoolVar(&notes, "notes", false, "open the presenter notes panel at startup")
	rootCmd.Flags().StringVar(&startAt, "at", "", "starting deep-link fragment, e.g. /2/1")

	exportCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: source name with .html)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
