package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kulturarv/wikibasekit/pkg/logging"
	"github.com/kulturarv/wikibasekit/pkg/search"
	"github.com/kulturarv/wikibasekit/pkg/termsearch"
	"github.com/kulturarv/wikibasekit/pkg/wdq"
	"github.com/kulturarv/wikibasekit/pkg/wikibase"
)

var (
	searchLanguage string
	searchTypes    []string
)

// searchCmd finds entities whose terms match a pattern.
var searchCmd = &cobra.Command{
	Use:   "search <pattern>",
	Short: "Search labels and aliases for matching entities",
	Long: `Search looks up entities whose terms match the given pattern. With a
terms-table DSN configured it queries the wb_terms replica directly and
the pattern may use SQL LIKE wildcards; otherwise it falls back to an
exact label and alias lookup on the SPARQL endpoint.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchLanguage, "language", "l", "", "term language (defaults to configured language)")
	searchCmd.Flags().StringSliceVarP(&searchTypes, "types", "t", nil, "term types to match (label, alias, description)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	pattern := args[0]
	language := searchLanguage
	if language == "" {
		language = cfg.Language
	}

	var ids []wikibase.EntityID
	if cfg.TermsDSN != "" {
		backend, err := termsearch.New(ctx, cfg.TermsDSN,
			termsearch.WithLogger(logging.Ctx(ctx)))
		if err != nil {
			return err
		}
		defer backend.Close()

		var opts []termsearch.SearchOption
		if len(searchTypes) > 0 {
			types := make([]termsearch.TermType, 0, len(searchTypes))
			for _, t := range searchTypes {
				types = append(types, termsearch.TermType(t))
			}
			opts = append(opts, termsearch.WithTermTypes(types...))
		}
		ids = backend.Search(ctx, pattern, language, opts...)
	} else {
		service := wdq.NewService(cfg.QueryEndpoint,
			wdq.WithLogger(logging.Ctx(ctx)))
		found, err := service.Candidates(ctx, pattern, language)
		if err != nil {
			return err
		}
		ids = found
	}

	for _, id := range search.Dedupe(ids) {
		fmt.Fprintln(cmd.OutOrStdout(), id)
	}
	return nil
}
