package cmd

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/itsmostafa/mdindex/internal/host"
	"github.com/itsmostafa/mdindex/internal/index"
	"github.com/itsmostafa/mdindex/internal/preview"
)

var (
	previewInput    string
	previewConfig   string
	previewRenderer string
	previewOutput   string
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print the index a build would produce",
	Long: `Run the preprocessor over a captured [context, book] document and print the
resulting index instead of the book.

The document is read from --input, or stdin when no file is given. With
--config, the [preprocessor.indexing] table of that book.toml replaces the
one in the document.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := preview.ParseFormat(previewOutput)
		if err != nil {
			return err
		}
		logger, err := newLogger(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		in := cmd.InOrStdin()
		if previewInput != "" {
			f, err := os.Open(previewInput)
			if err != nil {
				return fmt.Errorf("failed to open input: %w", err)
			}
			defer f.Close()
			in = f
		}

		ctx, b, err := host.ReadInput(in)
		if err != nil {
			return err
		}
		if previewRenderer != "" {
			ctx.Renderer = previewRenderer
		}
		if previewConfig != "" {
			if ctx.Config, err = readBookConfig(previewConfig); err != nil {
				return err
			}
		}

		cfg, err := loadConfig(ctx, logger)
		if err != nil {
			return err
		}
		p := index.New(cfg, ctx.Renderer, logger)
		if _, err := p.Run(b); err != nil {
			return err
		}

		return preview.Print(cmd.OutOrStdout(), p.Index(), preview.Summary{
			Renderer: ctx.Renderer,
			Chapters: len(b.Chapters()),
		}, format)
	},
}

func init() {
	previewCmd.Flags().StringVarP(&previewInput, "input", "i", "", "File holding the [context, book] JSON (default stdin)")
	previewCmd.Flags().StringVarP(&previewConfig, "config", "c", "", "book.toml to take [preprocessor.indexing] from")
	previewCmd.Flags().StringVarP(&previewRenderer, "renderer", "r", "", "Renderer to preview for (default from input)")
	previewCmd.Flags().StringVarP(&previewOutput, "output", "o", "text", "Output format (text, yaml, json)")
	rootCmd.AddCommand(previewCmd)
}

// readBookConfig loads a book.toml as the generic table mdBook would pass
// in the build context.
func readBookConfig(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg map[string]any
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", index.ErrInvalidConfig, path, err)
	}
	return cfg, nil
}
