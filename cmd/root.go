package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/itsmostafa/mdindex/internal/host"
	"github.com/itsmostafa/mdindex/internal/index"
	"github.com/itsmostafa/mdindex/internal/version"
)

// mdBook releases whose preprocessor protocol this build understands.
var supportedMdbookVersions = []string{"0.4.", "0.5."}

var rootCmd = &cobra.Command{
	Use:   "mdindex",
	Short: "mdBook preprocessor that builds a back-of-book index",
	Long: `mdindex collects index entries marked inline in an mdBook and writes them
into the chapter titled "Index".

  {{i:text}}   keep text in the chapter and index it
  {{ii:text}}  keep text in italics and index it
  {{hi:text}}  index text without showing it

Configure it in book.toml:

  [preprocessor.indexing]
  use_chapter_names = false

  [preprocessor.indexing.see_instead]
  "unit type" = "` + "`()`" + `"

  [preprocessor.indexing.nest_under]
  "generic type" = "generics"

Run without arguments, it reads [context, book] JSON from stdin and writes
the processed book to stdout, as mdBook expects.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		return runPreprocessor(cmd.InOrStdin(), cmd.OutOrStdout(), logger)
	},
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("mdindex %s\n", version.String()))
	initSettings(rootCmd)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runPreprocessor performs one indexing pass over the book read from in.
func runPreprocessor(in io.Reader, out io.Writer, logger *slog.Logger) error {
	ctx, b, err := host.ReadInput(in)
	if err != nil {
		return err
	}
	logger = logger.With("renderer", ctx.Renderer)
	checkMdbookVersion(ctx.MdbookVersion, logger)

	cfg, err := loadConfig(ctx, logger)
	if err != nil {
		return err
	}

	b, err = index.New(cfg, ctx.Renderer, logger).Run(b)
	if err != nil {
		return err
	}
	return host.WriteBook(out, b)
}

// loadConfig reads [preprocessor.indexing] from the build context.
func loadConfig(ctx *host.Context, logger *slog.Logger) (index.Config, error) {
	table, err := ctx.Table(index.ConfigSection)
	if err != nil {
		return index.Config{}, fmt.Errorf("%w: %v", index.ErrInvalidConfig, err)
	}

	cfg, unknown, err := index.ParseConfig(table)
	if err != nil {
		return index.Config{}, err
	}
	for _, key := range unknown {
		logger.Warn("ignoring unknown config key", "key", index.ConfigSection+"."+key)
	}
	for term, target := range cfg.SeeInstead {
		logger.Debug("index entry redirected", "term", term, "see", target)
	}
	for term, parent := range cfg.NestUnder {
		logger.Debug("index entry nested", "term", term, "under", parent)
	}
	return cfg, nil
}

func checkMdbookVersion(v string, logger *slog.Logger) {
	if v == "" {
		return
	}
	for _, prefix := range supportedMdbookVersions {
		if strings.HasPrefix(v, prefix) {
			return
		}
	}
	logger.Warn("mdbook version not tested with this preprocessor", "mdbook_version", v)
}
