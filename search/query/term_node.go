package query

import (
	"github.com/larose/lynxq/search/index"
)

// - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - -
// TermNode
// - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - -

// TermNode matches the documents whose field contains Term exactly.
type TermNode struct {
	FieldName string
	Term      []byte
}

func (t *TermNode) Plan(planner *Planner) (*Operand, error) {
	planner.Context.RegisterTerm(t.FieldName, t.Term)
	return NewTermOperand(t.FieldName, t.Term), nil
}

// - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - -
// IndexTermSource
// - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - -

// IndexTermSource reads term postings from an index. Matches carry the stored
// value of StoredField as their properties when it is set.
type IndexTermSource struct {
	Reader      *index.IndexReader
	IndexId     string
	StoredField string
}

func (s *IndexTermSource) DocFreq(fieldName string, term []byte) (Frequency, error) {
	docFreq, err := s.Reader.DocFreq(fieldName, term)
	if err != nil {
		return Unknown, err
	}
	return KnownFrequency(docFreq), nil
}

func (s *IndexTermSource) TermStream(fieldName string, term []byte, constraint *CandidateSet) (ResultStream, error) {
	streams := make([]*segmentTermStream, 0, len(s.Reader.SegmentReaders))

	for _, segmentReader := range s.Reader.SegmentReaders {
		termInfo, err := segmentReader.TermInfo(fieldName, term)
		if err != nil {
			return nil, err
		}
		if termInfo == nil {
			continue
		}

		postings, err := segmentReader.Postings(fieldName, termInfo)
		if err != nil {
			return nil, err
		}

		stream := &segmentTermStream{
			indexId:       s.IndexId,
			segmentReader: segmentReader,
			postings:      postings,
		}

		if s.StoredField != "" {
			stream.store, err = segmentReader.FieldStore(s.StoredField)
			if err != nil {
				return nil, err
			}
		}

		if constraint != nil {
			stream.constraint = constraint.Cursor()
			first, _ := index.SegmentRange(segmentReader.Id)
			stream.constraint.Seek(first)
		}

		streams = append(streams, stream)
	}

	return &termStream{streams: streams}, nil
}

// termStream chains the per-segment streams. Segments are sorted by id, so
// the result is in ascending global document id order.
type termStream struct {
	streams []*segmentTermStream
}

func (t *termStream) Next() (Element, bool) {
	for len(t.streams) > 0 {
		element, ok := t.streams[0].Next()
		if ok {
			return element, true
		}
		t.streams = t.streams[1:]
	}

	return Element{}, false
}

// segmentTermStream walks the postings of one term in one segment. With a
// constraint it leapfrogs between the constraint and the postings.
type segmentTermStream struct {
	indexId       string
	segmentReader *index.SegmentReader
	postings      *index.PostingsIterator
	store         *index.FieldStoreReader
	constraint    *Cursor
	nextDocId     index.DocumentId
	exhausted     bool
}

func (t *segmentTermStream) Next() (Element, bool) {
	if t.exhausted {
		return Element{}, false
	}

	docId, ok := t.nextMatch()
	if !ok {
		t.exhausted = true
		return Element{}, false
	}

	if docId == index.DocumentId(^uint32(0)) {
		t.exhausted = true
	}
	t.nextDocId = docId + 1

	globalDocId := index.ToGlobalDocId(t.segmentReader.Id, docId)

	if t.segmentReader.DeletedDocIds.Contains(uint32(docId)) {
		return Element{Match: DocumentMatch{IndexId: t.indexId, DocumentId: globalDocId}, Mark: NoValue}, true
	}

	return Element{
		Match: DocumentMatch{IndexId: t.indexId, DocumentId: globalDocId, Properties: t.properties(docId)},
		Mark:  Value,
	}, true
}

func (t *segmentTermStream) nextMatch() (index.DocumentId, bool) {
	if t.constraint == nil {
		if !t.postings.Next(t.nextDocId) {
			return 0, false
		}
		return t.postings.DocId(), true
	}

	_, last := index.SegmentRange(t.segmentReader.Id)
	target := t.nextDocId

	for {
		t.constraint.Seek(index.ToGlobalDocId(t.segmentReader.Id, target))

		candidate, ok := t.constraint.Peek()
		if !ok || candidate > last {
			return 0, false
		}

		if !t.postings.Next(index.ToLocalDocId(candidate)) {
			return 0, false
		}

		docId := t.postings.DocId()
		if docId == index.ToLocalDocId(candidate) {
			return docId, true
		}

		target = docId
	}
}

// properties copies the stored value out of the mapped store file.
func (t *segmentTermStream) properties(docId index.DocumentId) Properties {
	if t.store == nil {
		return nil
	}

	value := t.store.Value(docId)
	if value == nil {
		return nil
	}

	return append(Properties(nil), value...)
}
