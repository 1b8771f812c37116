package index

type FieldType int

const (
	TextFieldType FieldType = iota
	ByteFieldType
)

// DocumentId is a segment-local document id. Ids are dense and start at 0.
type DocumentId uint32

// GlobalDocumentId identifies a document across segments: the segment id in the
// high 32 bits and the local id in the low 32 bits.
type GlobalDocumentId = uint64

type Field struct {
	FieldType FieldType
	Name      string
	Value     []byte
}

type Document []Field

func ToGlobalDocId(segmentId uint32, localDocId DocumentId) GlobalDocumentId {
	return uint64(segmentId)<<32 | uint64(localDocId)
}

func ToSegmentId(docId GlobalDocumentId) uint32 {
	return uint32(docId >> 32)
}

func ToLocalDocId(docId GlobalDocumentId) DocumentId {
	return DocumentId(uint32(docId))
}

// SegmentRange returns the first and last global ids a segment can hold.
func SegmentRange(segmentId uint32) (GlobalDocumentId, GlobalDocumentId) {
	return ToGlobalDocId(segmentId, 0), ToGlobalDocId(segmentId, DocumentId(^uint32(0)))
}
