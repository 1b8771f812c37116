package index

import (
	"cmp"
	"errors"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
)

// IndexReader is a point-in-time view of the committed segments. Segment
// readers are sorted by segment id, so walking them in order visits global doc
// ids in ascending order.
type IndexReader struct {
	SegmentReaders []*SegmentReader
}

func NewIndexReader(directory string) (*IndexReader, error) {
	commit, err := readCommit(directory)
	if err != nil {
		return nil, err
	}

	deletedReader, err := openDeletedReader(directory, commit.DeletedId)
	if err != nil {
		return nil, err
	}
	defer deletedReader.Close()

	segmentReaders := make([]*SegmentReader, 0, len(commit.SegmentIds))

	for _, segmentId := range commit.SegmentIds {
		deletedDocIds, err := deletedReader.DeletedDocIds(segmentId)
		if err != nil {
			return nil, err
		}

		segmentReaders = append(segmentReaders, newSegmentReader(directory, segmentId, deletedDocIds))
	}

	slices.SortFunc(segmentReaders, func(a, b *SegmentReader) int {
		return cmp.Compare(a.Id, b.Id)
	})

	return &IndexReader{
		SegmentReaders: segmentReaders,
	}, nil
}

func (reader *IndexReader) segmentReader(segmentId uint32) *SegmentReader {
	i, found := slices.BinarySearchFunc(reader.SegmentReaders, segmentId, func(s *SegmentReader, id uint32) int {
		return cmp.Compare(s.Id, id)
	})
	if !found {
		return nil
	}
	return reader.SegmentReaders[i]
}

// DocFreq sums the document frequency of a term over all segments. Deleted
// documents are still counted.
func (reader *IndexReader) DocFreq(fieldName string, term []byte) (uint64, error) {
	docFreq := uint64(0)

	for _, segmentReader := range reader.SegmentReaders {
		termInfo, err := segmentReader.TermInfo(fieldName, term)
		if err != nil {
			return 0, err
		}

		if termInfo != nil {
			docFreq += uint64(termInfo.DocFreq)
		}
	}

	return docFreq, nil
}

// SearchByExactValues returns the ascending global ids of the live documents
// whose field holds one of values.
func (reader *IndexReader) SearchByExactValues(fieldName string, values [][]byte) ([]GlobalDocumentId, error) {
	results := make([]GlobalDocumentId, 0, 100)

	for _, segmentReader := range reader.SegmentReaders {
		segmentDocIds := roaring.NewBitmap()

		for _, value := range values {
			termInfo, err := segmentReader.TermInfo(fieldName, value)
			if err != nil {
				return nil, err
			}
			if termInfo == nil {
				continue
			}

			it, err := segmentReader.Postings(fieldName, termInfo)
			if err != nil {
				return nil, err
			}

			for docId := DocumentId(0); it.Next(docId); docId = it.DocId() + 1 {
				segmentDocIds.Add(uint32(it.DocId()))
			}
		}

		segmentDocIds.AndNot(segmentReader.DeletedDocIds)

		for _, docId := range segmentDocIds.ToArray() {
			results = append(results, ToGlobalDocId(segmentReader.Id, DocumentId(docId)))
		}
	}

	return results, nil
}

// Value returns the stored value of a field, or nil.
func (reader *IndexReader) Value(fieldName string, docId GlobalDocumentId) ([]byte, error) {
	segmentReader := reader.segmentReader(ToSegmentId(docId))
	if segmentReader == nil {
		return nil, nil
	}

	return segmentReader.StoredValue(fieldName, ToLocalDocId(docId))
}

func (reader *IndexReader) Close() error {
	var errs []error
	for _, segmentReader := range reader.SegmentReaders {
		errs = append(errs, segmentReader.Close())
	}
	return errors.Join(errs...)
}
