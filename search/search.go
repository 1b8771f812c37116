package search

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/larose/lynxq/search/index"
	"github.com/larose/lynxq/search/query"
)

type Options struct {
	// IndexId is attached to every match.
	IndexId string
	// BatchSize bounds the number of matches per results message.
	BatchSize int
	// StoredField, when set, names the stored field returned as the
	// properties of each match.
	StoredField string
	// Limit caps the number of matches returned; 0 returns all of them.
	Limit   int
	Logger  *slog.Logger
	Metrics *query.Metrics
}

// Search runs a query against an index. The root operator and the result
// consumer run as two execution units that only talk through a mailbox; if
// either fails the whole query fails.
func Search(ctx context.Context, node query.Node, indexReader *index.IndexReader, opts Options) ([]query.DocumentMatch, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	queryContext := query.NewQueryContext()

	root, err := query.NewPlanner(queryContext, logger).Plan(node)
	if err != nil {
		return nil, err
	}

	source := &query.IndexTermSource{
		Reader:      indexReader,
		IndexId:     opts.IndexId,
		StoredField: opts.StoredField,
	}

	executionContext, err := query.NewExecutionContext(queryContext, source)
	if err != nil {
		return nil, err
	}
	executionContext.IndexId = opts.IndexId
	executionContext.BatchSize = opts.BatchSize
	executionContext.Logger = logger
	executionContext.Metrics = opts.Metrics

	mailbox := query.NewQueue()
	out := query.OutputChannel{
		Destination: mailbox,
		Token:       query.NewCorrelationToken(),
		IndexId:     opts.IndexId,
	}
	collector := query.NewCollector(out.Token, opts.Limit)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		_, err := query.Run(groupCtx, root, executionContext, out)
		return err
	})

	group.Go(func() error {
		return collector.Collect(groupCtx, mailbox)
	})

	if err := group.Wait(); err != nil {
		logger.Error("query failed", "plan", root.String(), "token", out.Token, "error", err)
		return nil, err
	}

	logger.Debug("query completed", "plan", root.String(), "token", out.Token, "matches", len(collector.Matches()), "batches", collector.Batches())

	return collector.Matches(), nil
}
