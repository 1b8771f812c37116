package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/larose/lynxq/search/index"
)

type Article struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

type ArticleIterator struct {
	reader *bufio.Reader
	logger *slog.Logger
}

func newArticleIterator(r io.Reader, logger *slog.Logger) *ArticleIterator {
	return &ArticleIterator{
		reader: bufio.NewReader(r),
		logger: logger,
	}
}

// NextBatch returns up to maxItems articles. Lines that are not valid JSON are
// logged and skipped. An empty batch means the input is exhausted.
func (it *ArticleIterator) NextBatch(maxItems int) ([]Article, error) {
	var batch []Article

	for len(batch) < maxItems {
		lineBytes, err := it.reader.ReadBytes('\n')
		eof := errors.Is(err, io.EOF)
		if err != nil && !eof {
			return nil, err
		}

		if len(lineBytes) > 0 {
			var article Article
			if err := json.Unmarshal(lineBytes, &article); err != nil {
				it.logger.Warn("skipping malformed article", "error", err)
			} else {
				batch = append(batch, article)
			}
		}

		if eof {
			break
		}
	}

	return batch, nil
}

func convertArticleToDocument(article Article) index.Document {
	return index.Document{
		index.Field{
			FieldType: index.ByteFieldType,
			Name:      "url",
			Value:     []byte(article.URL),
		},
		index.Field{
			FieldType: index.TextFieldType,
			Name:      "title",
			Value:     []byte(article.Title),
		},
		index.Field{
			FieldType: index.TextFieldType,
			Name:      "body",
			Value:     []byte(article.Body),
		},
	}
}

type indexOptions struct {
	input     string
	batchSize int
	limit     int
	profile   string
}

func newIndexCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &indexOptions{}

	cmd := &cobra.Command{
		Use:          "index",
		Short:        "Build an index from a JSONL article dump",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(rootOpts, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "wiki-articles.jsonl", "JSONL file with one article per line")
	cmd.Flags().IntVar(&opts.batchSize, "segment-size", 100_000, "articles per segment")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "stop after this many articles (0 indexes everything)")
	cmd.Flags().StringVar(&opts.profile, "cpu-profile", "", "write a CPU profile to this file")

	return cmd
}

func runIndex(rootOpts *rootOptions, opts *indexOptions) error {
	if opts.profile != "" {
		stopProfiler, err := startCpuProfiler(opts.profile)
		if err != nil {
			return err
		}
		defer stopProfiler()
	}

	logger := rootOpts.logger
	directory := rootOpts.cfg.Directory

	if err := os.RemoveAll(directory); err != nil {
		return err
	}
	if err := os.MkdirAll(directory, 0700); err != nil {
		return err
	}

	file, err := os.Open(opts.input)
	if err != nil {
		return fmt.Errorf("error opening file: %w", err)
	}
	defer file.Close()

	indexWriter := index.NewIndexWriter(directory, index.WithWriterLogger(logger))
	iterator := newArticleIterator(file, logger)

	totalProcessed, err := indexArticles(indexWriter, iterator, opts.batchSize, opts.limit)
	if err != nil {
		return err
	}

	logger.Info("index built", "directory", directory, "articles", totalProcessed)
	return nil
}

func indexArticles(indexWriter *index.IndexWriter, iterator *ArticleIterator, batchSize, limit int) (int, error) {
	totalProcessed := 0
	docs := make([]index.Document, 0, batchSize)

	for {
		size := batchSize
		if limit > 0 {
			remaining := limit - totalProcessed
			if remaining <= 0 {
				break
			}
			size = min(size, remaining)
		}

		articles, err := iterator.NextBatch(size)
		if err != nil {
			return totalProcessed, err
		}

		if len(articles) == 0 {
			break
		}

		for _, article := range articles {
			docs = append(docs, convertArticleToDocument(article))
		}

		if err := indexWriter.AddDocuments(docs); err != nil {
			return totalProcessed, err
		}

		totalProcessed += len(articles)
		iterator.logger.Info("segment written", "articles", len(articles), "total", totalProcessed)
		docs = docs[:0]
	}

	return totalProcessed, nil
}
