package query

import (
	"container/heap"
	"fmt"
	"strings"
)

// streamHead is the next unread element of one of the merged streams.
type streamHead struct {
	element Element
	stream  ResultStream
	// position of the stream in the merge input, used to break ties
	position int
}

// streamHeap is a min-heap of stream heads by document id.
type streamHeap struct {
	items []*streamHead
}

func (h *streamHeap) Len() int { return len(h.items) }

func (h *streamHeap) Less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	if a.element.Match.DocumentId != b.element.Match.DocumentId {
		return a.element.Match.DocumentId < b.element.Match.DocumentId
	}
	if a.element.Mark != b.element.Mark {
		return a.element.Mark < b.element.Mark
	}
	return a.position < b.position
}

func (h *streamHeap) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
}

func (h *streamHeap) Push(item any) {
	h.items = append(h.items, item.(*streamHead))
}

func (h *streamHeap) Pop() any {
	old := h.items
	n := len(old)
	x := old[n-1]
	h.items = old[0 : n-1]
	return x
}

// mergeStream merges ascending streams into one ascending stream. When several
// streams hold the same document only one element is kept: a real match over a
// tombstone, then the earliest stream.
type mergeStream struct {
	heap    *streamHeap
	started bool
	streams []ResultStream
	last    DocumentId
	emitted bool
}

func newMergeStream(streams []ResultStream) ResultStream {
	if len(streams) == 1 {
		return streams[0]
	}
	return &mergeStream{heap: &streamHeap{}, streams: streams}
}

func (m *mergeStream) advance(head *streamHead) {
	element, ok := head.stream.Next()
	if !ok {
		return
	}

	head.element = element
	heap.Push(m.heap, head)
}

func (m *mergeStream) Next() (Element, bool) {
	if !m.started {
		m.started = true
		for i, stream := range m.streams {
			m.advance(&streamHead{stream: stream, position: i})
		}
	}

	for m.heap.Len() > 0 {
		head := heap.Pop(m.heap).(*streamHead)
		element := head.element
		m.advance(head)

		if m.emitted && element.Match.DocumentId == m.last {
			continue
		}

		m.last = element.Match.DocumentId
		m.emitted = true
		return element, true
	}

	return Element{}, false
}

func joinOperands(operator string, operands []*Operand) string {
	parts := make([]string, len(operands))
	for i, operand := range operands {
		parts[i] = operand.String()
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, " "+operator+" "))
}
