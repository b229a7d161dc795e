package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kulturarv/wikibasekit/pkg/logging"
	"github.com/kulturarv/wikibasekit/pkg/wdq"
)

var translateOnly bool

// queryCmd translates a legacy query and optionally runs it.
var queryCmd = &cobra.Command{
	Use:   "query <legacy-query>",
	Short: "Translate a legacy WDQ query and run it against the SPARQL endpoint",
	Long: `Query translates a legacy WDQ expression such as CLAIM[31:5] into
SPARQL and runs it against the configured query endpoint, printing the
matching item identifiers one per line.

Use --translate-only to print the generated SPARQL without executing it.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().BoolVar(&translateOnly, "translate-only", false, "print SPARQL without executing")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	legacy := args[0]

	if translateOnly {
		sparql, err := wdq.Translate(legacy)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), sparql)
		return nil
	}

	service := wdq.NewService(cfg.QueryEndpoint,
		wdq.WithLogger(logging.Ctx(cmd.Context())))

	ids, err := service.Run(cmd.Context(), legacy)
	if err != nil {
		return err
	}
	for _, id := range ids {
		fmt.Fprintf(cmd.OutOrStdout(), "Q%d\n", id)
	}
	return nil
}
