package index

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Item struct {
	key, value []byte
}

func TestKVStore(t *testing.T) {
	basename := filepath.Join(t.TempDir(), "test_kvstore")

	writer, err := newKVStoreWriter(basename)
	require.NoError(t, err)

	testData := []Item{
		{key: []byte("apple"), value: []byte("fruit")},
		{key: []byte("carrot"), value: []byte("vegetable")},
		{key: []byte("dog"), value: []byte("animal")},
		{key: []byte("foo"), value: []byte("bar")},
		{key: []byte("hello"), value: []byte("world")},
	}

	for _, item := range testData {
		require.NoError(t, writer.Append(item.key, item.value))
	}

	require.NoError(t, writer.Close())

	reader, err := newKVStoreReader(basename)
	require.NoError(t, err)
	defer reader.Close()

	assert.Equal(t, len(testData), reader.Len())

	for _, item := range testData {
		assert.Equal(t, item.value, reader.Get(item.key))
	}

	assert.Nil(t, reader.Get([]byte("9661c61e")))
	assert.Nil(t, reader.Get([]byte("zzz")))
}

func TestKVStoreMultipleValuesAreConcatenated(t *testing.T) {
	basename := filepath.Join(t.TempDir(), "concat")

	writer, err := newKVStoreWriter(basename)
	require.NoError(t, err)
	require.NoError(t, writer.Append([]byte("k"), []byte("ab"), []byte("cd")))
	require.NoError(t, writer.Close())

	reader, err := newKVStoreReader(basename)
	require.NoError(t, err)
	defer reader.Close()

	assert.Equal(t, []byte("abcd"), reader.Get([]byte("k")))
}

func TestKVStoreRejectsOutOfOrderKeys(t *testing.T) {
	basename := filepath.Join(t.TempDir(), "unordered")

	writer, err := newKVStoreWriter(basename)
	require.NoError(t, err)
	defer writer.Close()

	require.NoError(t, writer.Append([]byte("b"), []byte("1")))
	assert.Error(t, writer.Append([]byte("a"), []byte("2")))
	assert.Error(t, writer.Append([]byte("b"), []byte("3")))
}

func TestKVStoreEmpty(t *testing.T) {
	basename := filepath.Join(t.TempDir(), "empty")

	writer, err := newKVStoreWriter(basename)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader, err := newKVStoreReader(basename)
	require.NoError(t, err)
	defer reader.Close()

	assert.Equal(t, 0, reader.Len())
	assert.Nil(t, reader.Get([]byte("a")))
}
