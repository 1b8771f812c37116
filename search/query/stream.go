package query

import "github.com/larose/lynxq/search/index"

// DocumentId is a global document id, ordered by segment then local id.
type DocumentId = index.GlobalDocumentId

// Properties is an opaque per-document payload carried through unchanged.
type Properties []byte

type DocumentMatch struct {
	IndexId    string
	DocumentId DocumentId
	Properties Properties
}

// Mark tells whether a stream element is a real match or a tombstone.
type Mark byte

const (
	// Value is a real match.
	Value Mark = iota
	// Negated is a match of the inner operand of a negation.
	Negated
	// NoValue marks a document without a value, such as a deleted one.
	NoValue
)

func (m Mark) IsTombstone() bool {
	return m != Value
}

type Element struct {
	Match DocumentMatch
	Mark  Mark
}

// ResultStream is a single-pass stream of elements in ascending document id
// order. Next returns false once the stream has ended.
type ResultStream interface {
	Next() (Element, bool)
}

// SliceStream streams a fixed list of elements.
type SliceStream struct {
	elements []Element
	index    int
}

func NewSliceStream(elements ...Element) *SliceStream {
	return &SliceStream{elements: elements}
}

func (s *SliceStream) Next() (Element, bool) {
	if s.index >= len(s.elements) {
		return Element{}, false
	}

	element := s.elements[s.index]
	s.index++

	return element, true
}

// EmptyStream has no elements.
type EmptyStream struct {
}

func (EmptyStream) Next() (Element, bool) {
	return Element{}, false
}

// tombstoneFilter drops negated and no-value elements.
type tombstoneFilter struct {
	stream ResultStream
}

// NewTombstoneFilter returns a stream holding only the real matches of
// stream. It reads lazily and never buffers.
func NewTombstoneFilter(stream ResultStream) ResultStream {
	if _, filtered := stream.(*tombstoneFilter); filtered {
		return stream
	}
	return &tombstoneFilter{stream: stream}
}

func (f *tombstoneFilter) Next() (Element, bool) {
	for {
		element, ok := f.stream.Next()
		if !ok {
			return Element{}, false
		}

		if !element.Mark.IsTombstone() {
			return element, true
		}
	}
}

// negatedStream marks every real match of the inner operand as Negated.
type negatedStream struct {
	stream ResultStream
}

func (s *negatedStream) Next() (Element, bool) {
	element, ok := s.stream.Next()
	if !ok {
		return Element{}, false
	}

	if element.Mark == Value {
		element.Mark = Negated
	}

	return element, true
}

// constrainedStream keeps the elements whose document is in the constraint.
// It leapfrogs: the constraint cursor is only moved forward.
type constrainedStream struct {
	stream ResultStream
	cursor *Cursor
}

// Constrain returns the elements of stream whose document is in constraint,
// or stream itself when constraint is nil.
func Constrain(stream ResultStream, constraint *CandidateSet) ResultStream {
	if constraint == nil {
		return stream
	}
	return &constrainedStream{stream: stream, cursor: constraint.Cursor()}
}

func (s *constrainedStream) Next() (Element, bool) {
	for {
		element, ok := s.stream.Next()
		if !ok {
			return Element{}, false
		}

		s.cursor.Seek(element.Match.DocumentId)

		docId, ok := s.cursor.Peek()
		if !ok {
			return Element{}, false
		}

		if docId == element.Match.DocumentId {
			return element, true
		}
	}
}

// Collect drains stream into a new candidate set. No-value elements are
// skipped, negated ones are kept.
func Collect(stream ResultStream) (*CandidateSet, error) {
	set := NewCandidateSet()

	for {
		element, ok := stream.Next()
		if !ok {
			return set, nil
		}

		if element.Mark == NoValue {
			continue
		}

		if err := set.Insert(element.Match.DocumentId, element.Match.Properties); err != nil {
			return nil, err
		}
	}
}
