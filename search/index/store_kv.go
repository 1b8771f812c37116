package index

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"sort"

	"github.com/edsrzf/mmap-go"
)

/*
KV store layout:
  - <basename>.data: records of [key length (uint32)][value length (uint32)][key][value]
  - <basename>.index: one uint64 offset into the data file per record

Records are sorted by key.
*/
const recordHeaderSize = 8

type KVStoreWriter struct {
	dataFile    *os.File
	dataWriter  *bufio.Writer
	indexFile   *os.File
	indexWriter *bufio.Writer
	offset      uint64
	lastKey     []byte
	count       int
}

func newKVStoreWriter(basename string) (*KVStoreWriter, error) {
	dataFile, err := createFile(basename + ".data")
	if err != nil {
		return nil, err
	}

	indexFile, err := createFile(basename + ".index")
	if err != nil {
		_ = dataFile.Close()
		return nil, err
	}

	return &KVStoreWriter{
		dataFile:    dataFile,
		dataWriter:  bufio.NewWriter(dataFile),
		indexFile:   indexFile,
		indexWriter: bufio.NewWriter(indexFile),
	}, nil
}

// Append adds a record. Keys must be appended in strictly increasing order.
func (w *KVStoreWriter) Append(key []byte, values ...[]byte) error {
	if w.count > 0 && bytes.Compare(w.lastKey, key) >= 0 {
		return fmt.Errorf("kv store: key %x appended after %x", key, w.lastKey)
	}

	valueLength := 0
	for _, value := range values {
		valueLength += len(value)
	}

	record := make([]byte, 0, recordHeaderSize+len(key)+valueLength)
	record = binary.BigEndian.AppendUint32(record, uint32(len(key)))
	record = binary.BigEndian.AppendUint32(record, uint32(valueLength))
	record = append(record, key...)
	for _, value := range values {
		record = append(record, value...)
	}

	if _, err := w.dataWriter.Write(record); err != nil {
		return err
	}

	if _, err := w.indexWriter.Write(Uint64Key(w.offset)); err != nil {
		return err
	}

	w.offset += uint64(len(record))
	w.lastKey = append(w.lastKey[:0], key...)
	w.count++

	return nil
}

func (w *KVStoreWriter) Close() error {
	if err := w.dataWriter.Flush(); err != nil {
		_ = w.dataFile.Close()
		_ = w.indexFile.Close()
		return err
	}

	if err := w.dataFile.Close(); err != nil {
		_ = w.indexFile.Close()
		return err
	}

	if err := w.indexWriter.Flush(); err != nil {
		_ = w.indexFile.Close()
		return err
	}

	return w.indexFile.Close()
}

type KVStoreReader struct {
	data      mmap.MMap
	dataFile  *os.File
	index     mmap.MMap
	indexFile *os.File
}

func mapFile(filename string) (*os.File, mmap.MMap, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, nil, err
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, nil, err
	}

	// mmap refuses empty files
	if info.Size() == 0 {
		return file, mmap.MMap{}, nil
	}

	data, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		_ = file.Close()
		return nil, nil, err
	}

	return file, data, nil
}

func newKVStoreReader(basename string) (*KVStoreReader, error) {
	dataFile, data, err := mapFile(basename + ".data")
	if err != nil {
		return nil, err
	}

	indexFile, index, err := mapFile(basename + ".index")
	if err != nil {
		_ = unmap(data)
		_ = dataFile.Close()
		return nil, err
	}

	return &KVStoreReader{
		data:      data,
		dataFile:  dataFile,
		index:     index,
		indexFile: indexFile,
	}, nil
}

func (kv *KVStoreReader) Len() int {
	return len(kv.index) / 8
}

func (kv *KVStoreReader) record(i int) ([]byte, []byte) {
	offset := binary.BigEndian.Uint64(kv.index[i*8 : i*8+8])
	keyLength := uint64(binary.BigEndian.Uint32(kv.data[offset : offset+4]))
	valueLength := uint64(binary.BigEndian.Uint32(kv.data[offset+4 : offset+8]))

	keyStart := offset + recordHeaderSize
	valueStart := keyStart + keyLength

	return kv.data[keyStart:valueStart], kv.data[valueStart : valueStart+valueLength]
}

// Get returns the value stored for key, or nil. The returned slice aliases the
// mapped file and is only valid until Close.
func (kv *KVStoreReader) Get(key []byte) []byte {
	n := kv.Len()

	i := sort.Search(n, func(i int) bool {
		currentKey, _ := kv.record(i)
		return bytes.Compare(currentKey, key) >= 0
	})

	if i == n {
		return nil
	}

	currentKey, value := kv.record(i)
	if !bytes.Equal(currentKey, key) {
		return nil
	}

	return value
}

func unmap(data mmap.MMap) error {
	if len(data) == 0 {
		return nil
	}
	return data.Unmap()
}

func (kv *KVStoreReader) Close() error {
	errs := []error{unmap(kv.data), unmap(kv.index), kv.dataFile.Close(), kv.indexFile.Close()}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
