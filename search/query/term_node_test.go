package query

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/larose/lynxq/search/index"
)

func numberedDocuments(from, to int) []index.Document {
	docs := make([]index.Document, 0, to-from)
	for i := from; i < to; i++ {
		body := "all"
		if i%2 == 0 {
			body += " even"
		}
		docs = append(docs, index.Document{
			{Name: "id", FieldType: index.ByteFieldType, Value: []byte(strconv.Itoa(i))},
			{Name: "body", FieldType: index.TextFieldType, Value: []byte(body)},
		})
	}
	return docs
}

func newIndexTermSource(t *testing.T) *IndexTermSource {
	directory := t.TempDir()

	writer := index.NewIndexWriter(directory)
	require.NoError(t, writer.AddDocuments(numberedDocuments(0, 300)))
	require.NoError(t, writer.AddDocuments(numberedDocuments(300, 400)))
	require.NoError(t, writer.DeleteDocuments("id", [][]byte{[]byte("4"), []byte("302")}))

	reader, err := index.NewIndexReader(directory)
	require.NoError(t, err)
	t.Cleanup(func() { reader.Close() })

	return &IndexTermSource{Reader: reader, IndexId: "numbers", StoredField: "id"}
}

func TestIndexTermSourceStream(t *testing.T) {
	source := newIndexTermSource(t)

	frequency, err := source.DocFreq("body", []byte("even"))
	require.NoError(t, err)
	assert.Equal(t, KnownFrequency(200), frequency)

	stream, err := source.TermStream("body", []byte("even"), nil)
	require.NoError(t, err)

	elements := drain(stream)
	require.Len(t, elements, 200)

	var tombstones []string
	for i, e := range elements {
		if i > 0 {
			assert.Less(t, elements[i-1].Match.DocumentId, e.Match.DocumentId)
		}
		assert.Equal(t, "numbers", e.Match.IndexId)
		if e.Mark == NoValue {
			tombstones = append(tombstones, strconv.Itoa(int(index.ToLocalDocId(e.Match.DocumentId))))
			assert.Nil(t, e.Match.Properties)
		}
	}

	// local ids of "4" in the first segment and "302" in the second one
	assert.ElementsMatch(t, []string{"4", "2"}, tombstones)
}

func TestIndexTermSourceConstrainedStream(t *testing.T) {
	source := newIndexTermSource(t)

	all, err := source.TermStream("body", []byte("all"), nil)
	require.NoError(t, err)
	allElements := drain(all)
	require.Len(t, allElements, 400)

	constraint := NewCandidateSet()
	for i, e := range allElements {
		if i%3 == 0 {
			require.NoError(t, constraint.Insert(e.Match.DocumentId, nil))
		}
	}
	// ids outside of any segment are never matched
	require.NoError(t, constraint.Insert(^DocumentId(0), nil))

	stream, err := source.TermStream("body", []byte("even"), constraint)
	require.NoError(t, err)

	var expected []DocumentId
	for i, e := range allElements {
		if i%3 == 0 && index.ToLocalDocId(e.Match.DocumentId)%2 == 0 {
			expected = append(expected, e.Match.DocumentId)
		}
	}

	elements := drain(stream)
	assert.Equal(t, expected, docIdsOf(elements))

	for _, e := range elements {
		if e.Mark == Value {
			assert.NotEmpty(t, e.Match.Properties)
		}
	}
}

func TestIndexTermSourceMissingTerm(t *testing.T) {
	source := newIndexTermSource(t)

	frequency, err := source.DocFreq("body", []byte("odd"))
	require.NoError(t, err)
	assert.Equal(t, KnownFrequency(0), frequency)

	stream, err := source.TermStream("title", []byte("even"), nil)
	require.NoError(t, err)
	assert.Empty(t, drain(stream))
}
