package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kulturarv/wikibasekit/internal/proposal"
)

// previewCmd renders a proposal file as readable wiki-style text.
var previewCmd = &cobra.Command{
	Use:   "preview <proposal.yaml>",
	Short: "Render a proposal file for human review",
	Long: `Preview reads a YAML proposal file describing labels, descriptions
and claims for one entity and renders it as wiki-style text, the same
form a bot posts for review before writing.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	item, err := proposal.Decode(data)
	if err != nil {
		return err
	}
	return item.Render(cmd.OutOrStdout())
}
