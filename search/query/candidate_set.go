package query

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// CandidateSet is an ordered map from document id to properties. The bitmap
// gives ordered iteration and seeks, the map holds the payloads.
type CandidateSet struct {
	docIds     *roaring64.Bitmap
	properties map[DocumentId]Properties
}

func NewCandidateSet() *CandidateSet {
	return &CandidateSet{
		docIds:     roaring64.New(),
		properties: make(map[DocumentId]Properties),
	}
}

// Insert adds a document that must not be in the set yet.
func (s *CandidateSet) Insert(docId DocumentId, properties Properties) error {
	if !s.docIds.CheckedAdd(docId) {
		return fmt.Errorf("%w: %d", ErrDuplicateDocument, docId)
	}

	if properties != nil {
		s.properties[docId] = properties
	}

	return nil
}

func (s *CandidateSet) Remove(docId DocumentId) {
	s.docIds.Remove(docId)
	delete(s.properties, docId)
}

func (s *CandidateSet) Contains(docId DocumentId) bool {
	return s.docIds.Contains(docId)
}

func (s *CandidateSet) Properties(docId DocumentId) Properties {
	return s.properties[docId]
}

func (s *CandidateSet) Len() int {
	return int(s.docIds.GetCardinality())
}

func (s *CandidateSet) IsEmpty() bool {
	return s.docIds.IsEmpty()
}

// DocIds returns the document ids in ascending order.
func (s *CandidateSet) DocIds() []DocumentId {
	return s.docIds.ToArray()
}

// Subtract removes every document of other from s.
func (s *CandidateSet) Subtract(other *CandidateSet) {
	it := other.docIds.Iterator()
	for it.HasNext() {
		delete(s.properties, it.Next())
	}
	s.docIds.AndNot(other.docIds)
}

// Cursor returns a forward-only position over the set, starting at the
// smallest document id.
func (s *CandidateSet) Cursor() *Cursor {
	return &Cursor{it: s.docIds.Iterator()}
}

// Stream returns the set as a result stream in ascending document id order.
func (s *CandidateSet) Stream(indexId string) ResultStream {
	return &candidateSetStream{set: s, indexId: indexId, cursor: s.Cursor()}
}

type Cursor struct {
	it roaring64.IntPeekable64
}

// Peek returns the current document id without consuming it.
func (c *Cursor) Peek() (DocumentId, bool) {
	if !c.it.HasNext() {
		return 0, false
	}
	return c.it.PeekNext(), true
}

func (c *Cursor) Next() (DocumentId, bool) {
	if !c.it.HasNext() {
		return 0, false
	}
	return c.it.Next(), true
}

// Seek skips every document id lower than docId.
func (c *Cursor) Seek(docId DocumentId) {
	c.it.AdvanceIfNeeded(docId)
}

type candidateSetStream struct {
	set     *CandidateSet
	indexId string
	cursor  *Cursor
}

func (s *candidateSetStream) Next() (Element, bool) {
	docId, ok := s.cursor.Next()
	if !ok {
		return Element{}, false
	}

	return Element{
		Match: DocumentMatch{IndexId: s.indexId, DocumentId: docId, Properties: s.set.Properties(docId)},
		Mark:  Value,
	}, true
}
