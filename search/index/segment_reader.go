package index

import (
	"errors"
	"io/fs"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
)

// SegmentReader opens the per-field files of a segment on first use. A field
// that no document of the segment has is reported as empty, not as an error.
type SegmentReader struct {
	DeletedDocIds *roaring.Bitmap
	Id            uint32
	IdString      string

	directory         string
	mutex             sync.Mutex
	dictionaryReaders map[string]*DictionaryReader
	postingsReaders   map[string]*PostingsReader
	storeReaders      map[string]*FieldStoreReader
}

func newSegmentReader(directory string, segmentId uint32, deletedDocIds *roaring.Bitmap) *SegmentReader {
	return &SegmentReader{
		DeletedDocIds:     deletedDocIds,
		Id:                segmentId,
		IdString:          formatId(segmentId),
		directory:         directory,
		dictionaryReaders: make(map[string]*DictionaryReader),
		postingsReaders:   make(map[string]*PostingsReader),
		storeReaders:      make(map[string]*FieldStoreReader),
	}
}

// openCached returns the cached reader for fieldName, opening it if needed.
// A missing file yields the zero value and no error.
func openCached[T any](cache map[string]T, fieldName string, open func() (T, error)) (T, error) {
	if reader, exists := cache[fieldName]; exists {
		return reader, nil
	}

	reader, err := open()
	if errors.Is(err, fs.ErrNotExist) {
		var zero T
		cache[fieldName] = zero
		return zero, nil
	}
	if err != nil {
		var zero T
		return zero, err
	}

	cache[fieldName] = reader
	return reader, nil
}

// TermInfo returns nil when the term does not occur in the segment.
func (reader *SegmentReader) TermInfo(fieldName string, term []byte) (*TermInfo, error) {
	reader.mutex.Lock()
	defer reader.mutex.Unlock()

	dictionaryReader, err := openCached(reader.dictionaryReaders, fieldName, func() (*DictionaryReader, error) {
		return newDictionaryReader(reader.directory, reader.IdString, fieldName)
	})
	if err != nil || dictionaryReader == nil {
		return nil, err
	}

	return dictionaryReader.Get(term)
}

func (reader *SegmentReader) Postings(fieldName string, termInfo *TermInfo) (*PostingsIterator, error) {
	reader.mutex.Lock()
	defer reader.mutex.Unlock()

	postingsReader, err := openCached(reader.postingsReaders, fieldName, func() (*PostingsReader, error) {
		return newPostingsReader(reader.directory, reader.IdString, fieldName)
	})
	if err != nil {
		return nil, err
	}
	if postingsReader == nil {
		return newPostingsIterator(nil), nil
	}

	return postingsReader.Iterator(termInfo), nil
}

// FieldStore returns nil when no document of the segment has the field.
func (reader *SegmentReader) FieldStore(fieldName string) (*FieldStoreReader, error) {
	reader.mutex.Lock()
	defer reader.mutex.Unlock()

	return openCached(reader.storeReaders, fieldName, func() (*FieldStoreReader, error) {
		return newFieldStoreReader(reader.directory, reader.IdString, fieldName)
	})
}

// StoredValue returns nil when the document has no value for the field.
func (reader *SegmentReader) StoredValue(fieldName string, docId DocumentId) ([]byte, error) {
	storeReader, err := reader.FieldStore(fieldName)
	if err != nil || storeReader == nil {
		return nil, err
	}

	return storeReader.Value(docId), nil
}

func (reader *SegmentReader) Close() error {
	reader.mutex.Lock()
	defer reader.mutex.Unlock()

	var errs []error
	for _, r := range reader.dictionaryReaders {
		if r != nil {
			errs = append(errs, r.Close())
		}
	}
	for _, r := range reader.postingsReaders {
		if r != nil {
			errs = append(errs, r.Close())
		}
	}
	for _, r := range reader.storeReaders {
		if r != nil {
			errs = append(errs, r.Close())
		}
	}

	return errors.Join(errs...)
}
