package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePostings(t *testing.T, docIds []DocumentId) *PostingsIterator {
	t.Helper()

	directory := t.TempDir()

	writer, err := newPostingsWriter(directory, "1", "body")
	require.NoError(t, err)

	start, end, err := writer.WriteTerm(docIds)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader, err := newPostingsReader(directory, "1", "body")
	require.NoError(t, err)
	t.Cleanup(func() { reader.Close() })

	return reader.Iterator(&TermInfo{DocFreq: uint32(len(docIds)), PostingsStartOffset: start, PostingsEndOffset: end})
}

func TestPostingsIteratorWalksAllBlocks(t *testing.T) {
	docIds := make([]DocumentId, 0, 300)
	for i := 0; i < 300; i++ {
		docIds = append(docIds, DocumentId(i*3+1))
	}

	it := writePostings(t, docIds)

	read := make([]DocumentId, 0, len(docIds))
	for docId := DocumentId(0); it.Next(docId); docId = it.DocId() + 1 {
		read = append(read, it.DocId())
	}

	assert.Equal(t, docIds, read)
}

func TestPostingsIteratorSeeks(t *testing.T) {
	docIds := make([]DocumentId, 0, 400)
	for i := 0; i < 400; i++ {
		docIds = append(docIds, DocumentId(i*2))
	}

	it := writePostings(t, docIds)

	require.True(t, it.Next(301))
	assert.Equal(t, DocumentId(302), it.DocId())

	require.True(t, it.Next(302))
	assert.Equal(t, DocumentId(302), it.DocId())

	require.True(t, it.Next(798))
	assert.Equal(t, DocumentId(798), it.DocId())

	assert.False(t, it.Next(799))
	assert.False(t, it.Next(1000))
}

func TestPostingsIteratorSkipsUndecodedLastBlock(t *testing.T) {
	docIds := make([]DocumentId, 0, 200)
	for i := 0; i < 200; i++ {
		docIds = append(docIds, DocumentId(i))
	}

	it := writePostings(t, docIds)

	assert.True(t, it.NextShallow(150))
	assert.False(t, it.NextShallow(500))
	assert.False(t, it.Next(0))
}

func TestEmptyPostingsIterator(t *testing.T) {
	it := newPostingsIterator(nil)
	assert.False(t, it.Next(0))
}
