package index

import (
	"encoding/binary"
	"fmt"
	"path/filepath"
)

// TermInfo locates the postings of one term inside a field's postings file.
type TermInfo struct {
	DocFreq             uint32
	PostingsStartOffset uint64
	PostingsEndOffset   uint64
}

const termInfoSize = 20

func dictionaryBasename(directory, segmentId, fieldName string) string {
	return filepath.Join(directory, "segment."+segmentId+"."+fieldName+".dictionary")
}

type DictionaryWriter struct {
	buffer   []byte
	kvWriter *KVStoreWriter
}

func newDictionaryWriter(directory, segmentId, fieldName string) (*DictionaryWriter, error) {
	kvWriter, err := newKVStoreWriter(dictionaryBasename(directory, segmentId, fieldName))
	if err != nil {
		return nil, err
	}

	return &DictionaryWriter{buffer: make([]byte, termInfoSize), kvWriter: kvWriter}, nil
}

func (writer *DictionaryWriter) Write(term []byte, termInfo *TermInfo) error {
	binary.BigEndian.PutUint32(writer.buffer, termInfo.DocFreq)
	binary.BigEndian.PutUint64(writer.buffer[4:], termInfo.PostingsStartOffset)
	binary.BigEndian.PutUint64(writer.buffer[12:], termInfo.PostingsEndOffset)
	return writer.kvWriter.Append(term, writer.buffer)
}

func (writer *DictionaryWriter) Close() error {
	return writer.kvWriter.Close()
}

type DictionaryReader struct {
	kvReader *KVStoreReader
}

func newDictionaryReader(directory, segmentId, fieldName string) (*DictionaryReader, error) {
	kvReader, err := newKVStoreReader(dictionaryBasename(directory, segmentId, fieldName))
	if err != nil {
		return nil, err
	}

	return &DictionaryReader{kvReader: kvReader}, nil
}

// Get returns nil when the term does not occur in the field.
func (reader *DictionaryReader) Get(term []byte) (*TermInfo, error) {
	value := reader.kvReader.Get(term)
	if value == nil {
		return nil, nil
	}

	if len(value) != termInfoSize {
		return nil, fmt.Errorf("dictionary entry for %q: %d bytes, want %d", term, len(value), termInfoSize)
	}

	return &TermInfo{
		DocFreq:             binary.BigEndian.Uint32(value),
		PostingsStartOffset: binary.BigEndian.Uint64(value[4:]),
		PostingsEndOffset:   binary.BigEndian.Uint64(value[12:]),
	}, nil
}

func (reader *DictionaryReader) Close() error {
	return reader.kvReader.Close()
}
