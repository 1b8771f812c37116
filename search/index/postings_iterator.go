package index

import (
	"encoding/binary"
	"log"
)

// PostingsIterator walks the doc ids of one term in ascending order. Blocks
// are decoded lazily: skipping over a block only reads its header.
type PostingsIterator struct {
	data []byte

	// Current block header
	blockOffset int
	numDocs     int
	firstDocId  DocumentId
	lastDocId   DocumentId
	blockLength int

	// Current block data
	blockDecoded bool
	docIds       []DocumentId
	index        int

	exhausted bool
}

func newPostingsIterator(data []byte) *PostingsIterator {
	it := &PostingsIterator{
		data:   data,
		docIds: make([]DocumentId, 0, postingsBlockSize),
	}

	if len(data) == 0 {
		it.exhausted = true
		return it
	}

	it.decodeHeader(0)

	return it
}

func (it *PostingsIterator) decodeHeader(offset int) {
	if offset+blockHeaderSize > len(it.data) {
		log.Fatalf("postings block header at %d overflows %d bytes", offset, len(it.data))
	}

	header := it.data[offset : offset+blockHeaderSize]

	it.blockOffset = offset
	it.numDocs = int(header[0])
	it.firstDocId = DocumentId(binary.BigEndian.Uint32(header[1:]))
	it.lastDocId = DocumentId(binary.BigEndian.Uint32(header[5:]))
	it.blockLength = int(binary.BigEndian.Uint32(header[9:]))
	it.blockDecoded = false
}

func (it *PostingsIterator) decodeBlock() {
	it.docIds = it.docIds[:0]

	offset := it.blockOffset + blockHeaderSize
	docId := DocumentId(0)

	for i := 0; i < it.numDocs; i++ {
		delta, n := binary.Uvarint(it.data[offset:])
		if n <= 0 {
			log.Fatalf("corrupted postings block at %d", it.blockOffset)
		}

		offset += n
		docId += DocumentId(delta)
		it.docIds = append(it.docIds, docId)
	}

	it.index = 0
	it.blockDecoded = true
}

// NextShallow moves to the first block that may contain a doc id >= docId,
// without decoding it.
func (it *PostingsIterator) NextShallow(docId DocumentId) bool {
	for !it.exhausted {
		if docId <= it.lastDocId {
			return true
		}

		next := it.blockOffset + it.blockLength
		if next >= len(it.data) {
			it.exhausted = true
			return false
		}

		it.decodeHeader(next)
	}

	return false
}

// Next moves to the first doc id >= docId.
func (it *PostingsIterator) Next(docId DocumentId) bool {
	if !it.NextShallow(docId) {
		return false
	}

	if !it.blockDecoded {
		it.decodeBlock()
	}

	for it.index < len(it.docIds) && it.docIds[it.index] < docId {
		it.index++
	}

	// lastDocId >= docId, so the block always holds a match.
	return true
}

// DocId is only meaningful after Next returned true.
func (it *PostingsIterator) DocId() DocumentId {
	return it.docIds[it.index]
}
