package index

import (
	"encoding/binary"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simpleDocs(ids ...uint64) []Document {
	docs := make([]Document, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, Document{
			{Name: "id", FieldType: ByteFieldType, Value: Uint64Key(id)},
			{Name: "body", FieldType: TextFieldType, Value: []byte("doc number " + strconv.FormatUint(id, 10) + " parity " + parity(id))},
		})
	}
	return docs
}

func parity(id uint64) string {
	if id%2 == 0 {
		return "even"
	}
	return "odd"
}

func TestAnalyze(t *testing.T) {
	terms := Analyze([]byte("Hello, World!  This is... Lynx"))

	assert.Equal(t, [][]byte{[]byte("hello"), []byte("world"), []byte("this"), []byte("is"), []byte("lynx")}, terms)
	assert.Empty(t, Analyze([]byte(" ,. ")))
}

func TestIndexWriteAndRead(t *testing.T) {
	directory := t.TempDir()

	writer := NewIndexWriter(directory)
	require.NoError(t, writer.AddDocuments(simpleDocs(1, 2, 3)))
	require.NoError(t, writer.AddDocuments(simpleDocs(4, 5)))

	reader, err := NewIndexReader(directory)
	require.NoError(t, err)
	defer reader.Close()

	require.Len(t, reader.SegmentReaders, 2)
	assert.Less(t, reader.SegmentReaders[0].Id, reader.SegmentReaders[1].Id)

	docFreq, err := reader.DocFreq("body", []byte("odd"))
	require.NoError(t, err)
	assert.Equal(t, uint64(3), docFreq)

	docFreq, err = reader.DocFreq("body", []byte("missing"))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), docFreq)

	docFreq, err = reader.DocFreq("nofield", []byte("odd"))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), docFreq)

	docIds, err := reader.SearchByExactValues("id", [][]byte{Uint64Key(2), Uint64Key(5)})
	require.NoError(t, err)
	require.Len(t, docIds, 2)

	ids := make([]uint64, 0, 2)
	for _, docId := range docIds {
		value, err := reader.Value("id", docId)
		require.NoError(t, err)
		ids = append(ids, binary.BigEndian.Uint64(value))
	}
	assert.ElementsMatch(t, []uint64{2, 5}, ids)
}

func TestIndexDeleteDocuments(t *testing.T) {
	directory := t.TempDir()

	writer := NewIndexWriter(directory)
	require.NoError(t, writer.AddDocuments(simpleDocs(1, 2, 3, 4)))
	require.NoError(t, writer.DeleteDocuments("id", [][]byte{Uint64Key(3)}))
	require.NoError(t, writer.DeleteDocuments("id", [][]byte{Uint64Key(4)}))

	reader, err := NewIndexReader(directory)
	require.NoError(t, err)
	defer reader.Close()

	require.Len(t, reader.SegmentReaders, 1)
	assert.Equal(t, uint64(2), reader.SegmentReaders[0].DeletedDocIds.GetCardinality())

	docIds, err := reader.SearchByExactValues("id", [][]byte{Uint64Key(1), Uint64Key(3), Uint64Key(4)})
	require.NoError(t, err)
	require.Len(t, docIds, 1)

	value, err := reader.Value("id", docIds[0])
	require.NoError(t, err)
	assert.Equal(t, uint64(1), binary.BigEndian.Uint64(value))
}

func TestEmptyIndex(t *testing.T) {
	reader, err := NewIndexReader(t.TempDir())
	require.NoError(t, err)
	defer reader.Close()

	assert.Empty(t, reader.SegmentReaders)
}

func TestGlobalDocIds(t *testing.T) {
	docId := ToGlobalDocId(7, 42)

	assert.Equal(t, uint32(7), ToSegmentId(docId))
	assert.Equal(t, DocumentId(42), ToLocalDocId(docId))

	first, last := SegmentRange(7)
	assert.LessOrEqual(t, first, docId)
	assert.GreaterOrEqual(t, last, docId)
	assert.Equal(t, uint32(7), ToSegmentId(last))
}
