package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/itsmostafa/mdindex/internal/index"
)

var supportsCmd = &cobra.Command{
	Use:   "supports <renderer>",
	Short: "Check whether a renderer is supported by this preprocessor",
	Long: `Check whether a renderer is supported. mdBook calls this before a build
and skips the preprocessor for the renderer when it exits non-zero.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !index.SupportsRenderer(args[0]) {
			return fmt.Errorf("renderer %q is not supported", args[0])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(supportsCmd)
}
