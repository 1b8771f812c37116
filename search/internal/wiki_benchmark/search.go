package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/larose/lynxq/search"
	"github.com/larose/lynxq/search/index"
	"github.com/larose/lynxq/search/query"
)

var errEmptyQuery = errors.New("query has no terms")

// buildQuery turns words into a boolean query over field. With or set, the
// words are OR'ed. Otherwise they are AND'ed and a word prefixed with '!' must
// not match.
func buildQuery(field string, words []string, or bool) (query.Node, error) {
	clauses := make([]*query.BooleanClause, 0, len(words))

	for _, word := range words {
		matchType := query.Must
		if or {
			matchType = query.Should
		} else if rest, ok := strings.CutPrefix(word, "!"); ok {
			matchType = query.MustNot
			word = rest
		}

		for _, term := range index.Analyze([]byte(word)) {
			clauses = append(clauses, &query.BooleanClause{
				Type: matchType,
				Node: &query.TermNode{FieldName: field, Term: term},
			})
		}
	}

	if len(clauses) == 0 {
		return nil, errEmptyQuery
	}

	return &query.BooleanNode{Clauses: clauses}, nil
}

type searchOptions struct {
	field string
	or    bool
	limit int
}

func newSearchCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search <word>...",
		Short: "Run a boolean query and print the matching documents",
		Long: `Run a boolean query against the index.

Words are AND'ed unless --or is given. Prefix a word with '!' to exclude the
documents containing it.`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), cmd.OutOrStdout(), rootOpts, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.field, "field", "f", "body", "field to search")
	cmd.Flags().BoolVar(&opts.or, "or", false, "match any word instead of all of them")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 10, "maximum number of matches to print (0 prints all)")

	return cmd
}

func searchOptionsFor(rootOpts *rootOptions, limit int, metrics *query.Metrics) search.Options {
	return search.Options{
		IndexId:     rootOpts.cfg.IndexId,
		BatchSize:   rootOpts.cfg.BatchSize,
		StoredField: rootOpts.cfg.StoredField,
		Limit:       limit,
		Logger:      rootOpts.logger,
		Metrics:     metrics,
	}
}

func runSearch(ctx context.Context, w io.Writer, rootOpts *rootOptions, opts *searchOptions, words []string) error {
	q, err := buildQuery(opts.field, words, opts.or)
	if err != nil {
		return err
	}

	indexReader, err := index.NewIndexReader(rootOpts.cfg.Directory)
	if err != nil {
		return err
	}
	defer indexReader.Close()

	start := time.Now()

	matches, err := search.Search(ctx, q, indexReader, searchOptionsFor(rootOpts, opts.limit, nil))
	if err != nil {
		return err
	}

	for _, match := range matches {
		fmt.Fprintf(w, "%s\t%d\t%s\n", match.IndexId, match.DocumentId, match.Properties)
	}
	fmt.Fprintf(w, "%d matches in %d us\n", len(matches), time.Since(start).Microseconds())

	return nil
}

type benchOptions struct {
	field      string
	iterations int
	profile    string
}

var benchQueries = [][]string{
	{"the"},
	{"griffith", "observatory"},
	{"bowel", "obstruction"},
	{"vicenza", "italy"},
	{"vicenza", "!italy"},
}

func newBenchCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &benchOptions{}

	cmd := &cobra.Command{
		Use:          "bench",
		Short:        "Time a fixed set of AND and OR queries",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd.Context(), cmd.OutOrStdout(), rootOpts, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.field, "field", "f", "body", "field to search")
	cmd.Flags().IntVar(&opts.iterations, "iterations", 10, "runs per query; the best time is reported")
	cmd.Flags().StringVar(&opts.profile, "cpu-profile", "search.cpu.pprof", "write a CPU profile to this file (empty disables it)")

	return cmd
}

func runBench(ctx context.Context, w io.Writer, rootOpts *rootOptions, opts *benchOptions) error {
	if opts.profile != "" {
		stopProfiler, err := startCpuProfiler(opts.profile)
		if err != nil {
			return err
		}
		defer stopProfiler()
	}

	indexReader, err := index.NewIndexReader(rootOpts.cfg.Directory)
	if err != nil {
		return err
	}
	defer indexReader.Close()

	metrics := query.NewMetrics(prometheus.NewRegistry())
	searchOpts := searchOptionsFor(rootOpts, 0, metrics)

	for _, words := range benchQueries {
		for _, or := range []bool{false, true} {
			q, err := buildQuery(opts.field, words, or)
			if err != nil {
				return err
			}

			var best time.Duration = math.MaxInt64
			var matches int

			for i := 0; i < opts.iterations; i++ {
				start := time.Now()

				results, err := search.Search(ctx, q, indexReader, searchOpts)
				if err != nil {
					return err
				}

				best = min(best, time.Since(start))
				matches = len(results)
			}

			operator := "and"
			if or {
				operator = "or"
			}

			fmt.Fprintf(w, "%v %s: %d matches, %d us\n", words, operator, matches, best.Microseconds())
		}
	}

	return nil
}
