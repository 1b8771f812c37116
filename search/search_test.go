package search_test

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/larose/lynxq/search"
	"github.com/larose/lynxq/search/index"
	"github.com/larose/lynxq/search/query"
)

type pet struct {
	id   string
	body string
}

func petDocuments(pets []pet) []index.Document {
	docs := make([]index.Document, 0, len(pets))
	for _, p := range pets {
		docs = append(docs, index.Document{
			{Name: "id", FieldType: index.ByteFieldType, Value: []byte(p.id)},
			{Name: "body", FieldType: index.TextFieldType, Value: []byte(p.body)},
		})
	}
	return docs
}

func newIndex(t *testing.T, segments ...[]pet) string {
	directory := t.TempDir()

	writer := index.NewIndexWriter(directory)
	for _, segment := range segments {
		require.NoError(t, writer.AddDocuments(petDocuments(segment)))
	}

	return directory
}

func openIndex(t *testing.T, directory string) *index.IndexReader {
	reader, err := index.NewIndexReader(directory)
	require.NoError(t, err)
	t.Cleanup(func() { reader.Close() })
	return reader
}

func term(value string) *query.TermNode {
	return &query.TermNode{FieldName: "body", Term: []byte(value)}
}

func boolean(clauses ...*query.BooleanClause) *query.BooleanNode {
	return &query.BooleanNode{Clauses: clauses}
}

func clause(matchType query.MatchType, value string) *query.BooleanClause {
	return &query.BooleanClause{Type: matchType, Node: term(value)}
}

func ids(matches []query.DocumentMatch) []string {
	result := make([]string, len(matches))
	for i, match := range matches {
		result[i] = string(match.Properties)
	}
	return result
}

func assertAscending(t *testing.T, matches []query.DocumentMatch) {
	for i := 1; i < len(matches); i++ {
		assert.Less(t, matches[i-1].DocumentId, matches[i].DocumentId)
	}
}

var pets = [][]pet{
	{
		{"1", "the cat and the dog"},
		{"2", "cat food spam"},
		{"3", "a cat chased a dog"},
		{"4", "dog only"},
	},
	{
		{"5", "cat dog spam"},
		{"6", "cat sleeping near a dog"},
		{"7", "bird"},
	},
}

func options() search.Options {
	return search.Options{IndexId: "pets", StoredField: "id"}
}

func TestSearchIntersection(t *testing.T) {
	reader := openIndex(t, newIndex(t, pets...))

	q := boolean(clause(query.Must, "cat"), clause(query.MustNot, "spam"), clause(query.Must, "dog"))

	matches, err := search.Search(context.Background(), q, reader, options())
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"1", "3", "6"}, ids(matches))
	assertAscending(t, matches)
	for _, match := range matches {
		assert.Equal(t, "pets", match.IndexId)
	}
}

func TestSearchUnion(t *testing.T) {
	reader := openIndex(t, newIndex(t, pets...))

	q := boolean(clause(query.Should, "bird"), clause(query.Should, "spam"))

	matches, err := search.Search(context.Background(), q, reader, options())
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"2", "5", "7"}, ids(matches))
	assertAscending(t, matches)
}

func TestSearchSingleTerm(t *testing.T) {
	reader := openIndex(t, newIndex(t, pets...))

	matches, err := search.Search(context.Background(), term("dog"), reader, options())
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"1", "3", "4", "5", "6"}, ids(matches))
	assertAscending(t, matches)
}

func TestSearchNoMatch(t *testing.T) {
	reader := openIndex(t, newIndex(t, pets...))

	q := boolean(clause(query.Must, "cat"), clause(query.Must, "unicorn"))

	matches, err := search.Search(context.Background(), q, reader, options())
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSearchEmptyIndex(t *testing.T) {
	reader := openIndex(t, t.TempDir())

	q := boolean(clause(query.Must, "cat"), clause(query.Must, "dog"))

	matches, err := search.Search(context.Background(), q, reader, options())
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSearchOnlyNegations(t *testing.T) {
	reader := openIndex(t, newIndex(t, pets...))

	q := boolean(clause(query.MustNot, "cat"), clause(query.MustNot, "dog"))

	_, err := search.Search(context.Background(), q, reader, options())
	assert.ErrorIs(t, err, query.ErrNoPositiveOperand)
}

func TestSearchMixedClauses(t *testing.T) {
	reader := openIndex(t, newIndex(t, pets...))

	q := boolean(clause(query.Must, "cat"), clause(query.Should, "dog"))

	_, err := search.Search(context.Background(), q, reader, options())
	assert.ErrorIs(t, err, query.ErrMixedClauses)
}

func TestSearchDeletedDocuments(t *testing.T) {
	directory := newIndex(t, pets...)

	writer := index.NewIndexWriter(directory)
	require.NoError(t, writer.DeleteDocuments("id", [][]byte{[]byte("1"), []byte("6")}))

	reader := openIndex(t, directory)

	q := boolean(clause(query.Must, "cat"), clause(query.Must, "dog"))

	matches, err := search.Search(context.Background(), q, reader, options())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"3", "5"}, ids(matches))

	matches, err = search.Search(context.Background(), term("dog"), reader, options())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"3", "4", "5"}, ids(matches))
}

func TestSearchWithoutStoredField(t *testing.T) {
	reader := openIndex(t, newIndex(t, pets...))

	matches, err := search.Search(context.Background(), term("bird"), reader, search.Options{})
	require.NoError(t, err)

	require.Len(t, matches, 1)
	assert.Nil(t, matches[0].Properties)
	assert.Equal(t, index.DocumentId(2), index.ToLocalDocId(matches[0].DocumentId))
}

func fizzBuzz(n int) []pet {
	docs := make([]pet, 0, n)
	for i := 0; i < n; i++ {
		words := []string{"number"}
		if i%3 == 0 {
			words = append(words, "fizz")
		}
		if i%5 == 0 {
			words = append(words, "buzz")
		}
		if i%7 == 0 {
			words = append(words, "bang")
		}
		docs = append(docs, pet{id: strconv.Itoa(i), body: strings.Join(words, " ")})
	}
	return docs
}

func TestSearchManyDocuments(t *testing.T) {
	docs := fizzBuzz(3000)
	reader := openIndex(t, newIndex(t, docs[:1000], docs[1000:2500], docs[2500:]))

	q := boolean(clause(query.Must, "fizz"), clause(query.Must, "buzz"), clause(query.MustNot, "bang"))

	registry := prometheus.NewRegistry()
	opts := options()
	opts.BatchSize = 7
	opts.Metrics = query.NewMetrics(registry)

	matches, err := search.Search(context.Background(), q, reader, opts)
	require.NoError(t, err)

	var expected []string
	for i := 0; i < 3000; i++ {
		if i%15 == 0 && i%7 != 0 {
			expected = append(expected, strconv.Itoa(i))
		}
	}

	assert.ElementsMatch(t, expected, ids(matches))
	assertAscending(t, matches)

	count, err := testutil.GatherAndCount(registry, "lynxq_sent_batches_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSearchLimit(t *testing.T) {
	docs := fizzBuzz(500)
	reader := openIndex(t, newIndex(t, docs))

	opts := options()
	opts.BatchSize = 4
	opts.Limit = 10

	matches, err := search.Search(context.Background(), term("fizz"), reader, opts)
	require.NoError(t, err)

	require.Len(t, matches, 10)
	for i, match := range matches {
		assert.Equal(t, fmt.Sprint(i*3), string(match.Properties))
	}
}
