package index

// SegmentComponentWriter receives a batch of documents and persists one part
// of a segment. Calls arrive in this order:
//   - Doc()
//   - Field(), Term()..., EndField()
//   - Field(), Term()..., EndField()
//   - Doc()
//   - ...
//   - Write()
type SegmentComponentWriter interface {
	Doc(docId DocumentId)
	Field(fieldName string, value []byte)
	EndField()
	Term(term []byte)
	Write(directory, segmentId string) error
}
