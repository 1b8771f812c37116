package index

import (
	"fmt"
	"path/filepath"
	"slices"
)

func storeBasename(directory, segmentId, fieldName string) string {
	return filepath.Join(directory, "segment."+segmentId+"."+fieldName+".store")
}

type storedValue struct {
	docId DocumentId
	value []byte
}

// StoreWriter keeps the raw value of every field so it can be returned with
// matches. Documents arrive in ascending order, so each field's values are
// already sorted by doc id.
type StoreWriter struct {
	docId  DocumentId
	fields map[string][]storedValue
}

func newStoreWriter() *StoreWriter {
	return &StoreWriter{
		fields: make(map[string][]storedValue, 10),
	}
}

func (writer *StoreWriter) Doc(docId DocumentId) {
	writer.docId = docId
}

// Field records value for the current document. A field repeated in the same
// document keeps its last value.
func (writer *StoreWriter) Field(fieldName string, value []byte) {
	values := writer.fields[fieldName]

	if n := len(values); n > 0 && values[n-1].docId == writer.docId {
		values[n-1].value = value
		return
	}

	writer.fields[fieldName] = append(values, storedValue{docId: writer.docId, value: value})
}

func (writer *StoreWriter) EndField() {
}

func (writer *StoreWriter) Term(term []byte) {
}

func (writer *StoreWriter) Write(directory, segmentId string) error {
	fieldNames := make([]string, 0, len(writer.fields))
	for fieldName := range writer.fields {
		fieldNames = append(fieldNames, fieldName)
	}
	slices.Sort(fieldNames)

	for _, fieldName := range fieldNames {
		if err := writeFieldStore(storeBasename(directory, segmentId, fieldName), writer.fields[fieldName]); err != nil {
			return fmt.Errorf("store of field %s: %w", fieldName, err)
		}
	}

	return nil
}

func writeFieldStore(basename string, values []storedValue) error {
	kvStoreWriter, err := newKVStoreWriter(basename)
	if err != nil {
		return err
	}

	for _, stored := range values {
		if err := kvStoreWriter.Append(Uint32Key(uint32(stored.docId)), stored.value); err != nil {
			_ = kvStoreWriter.Close()
			return err
		}
	}

	return kvStoreWriter.Close()
}

// FieldStoreReader reads the stored values of one field of a segment.
type FieldStoreReader struct {
	kvStoreReader *KVStoreReader
}

func newFieldStoreReader(directory, segmentId, fieldName string) (*FieldStoreReader, error) {
	kvStoreReader, err := newKVStoreReader(storeBasename(directory, segmentId, fieldName))
	if err != nil {
		return nil, err
	}

	return &FieldStoreReader{kvStoreReader: kvStoreReader}, nil
}

// Value returns nil when the document has no value for the field. The slice
// aliases the mapped file.
func (reader *FieldStoreReader) Value(docId DocumentId) []byte {
	return reader.kvStoreReader.Get(Uint32Key(uint32(docId)))
}

func (reader *FieldStoreReader) Close() error {
	return reader.kvStoreReader.Close()
}
