package query

import (
	"cmp"
	"slices"
)

// MemoryTermSource is a TermSource over postings held in memory.
type MemoryTermSource struct {
	IndexId string

	postings map[string][]Element
	unknown  map[string]bool
}

func NewMemoryTermSource(indexId string) *MemoryTermSource {
	return &MemoryTermSource{
		IndexId:  indexId,
		postings: make(map[string][]Element),
		unknown:  make(map[string]bool),
	}
}

func (s *MemoryTermSource) add(fieldName string, term []byte, element Element) {
	key := termKey(fieldName, term)
	elements := append(s.postings[key], element)
	slices.SortStableFunc(elements, func(a, b Element) int {
		return cmp.Compare(a.Match.DocumentId, b.Match.DocumentId)
	})
	s.postings[key] = elements
}

// Add records that the document contains the term.
func (s *MemoryTermSource) Add(fieldName string, term []byte, docId DocumentId, properties Properties) {
	s.add(fieldName, term, Element{
		Match: DocumentMatch{IndexId: s.IndexId, DocumentId: docId, Properties: properties},
		Mark:  Value,
	})
}

// AddDeleted records a deleted document: it streams as a tombstone and still
// counts in the term frequency, like a deleted document of a segment.
func (s *MemoryTermSource) AddDeleted(fieldName string, term []byte, docId DocumentId) {
	s.add(fieldName, term, Element{
		Match: DocumentMatch{IndexId: s.IndexId, DocumentId: docId},
		Mark:  NoValue,
	})
}

// MarkUnknown makes DocFreq report an unknown frequency for the term.
func (s *MemoryTermSource) MarkUnknown(fieldName string, term []byte) {
	s.unknown[termKey(fieldName, term)] = true
}

func (s *MemoryTermSource) DocFreq(fieldName string, term []byte) (Frequency, error) {
	key := termKey(fieldName, term)
	if s.unknown[key] {
		return Unknown, nil
	}
	return KnownFrequency(uint64(len(s.postings[key]))), nil
}

func (s *MemoryTermSource) TermStream(fieldName string, term []byte, constraint *CandidateSet) (ResultStream, error) {
	elements := s.postings[termKey(fieldName, term)]
	return Constrain(NewSliceStream(elements...), constraint), nil
}
