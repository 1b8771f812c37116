package index

import (
	"slices"
)

// InvertedIndexWriter buffers the postings of a segment in memory and writes
// one dictionary and one postings file per field.
type InvertedIndexWriter struct {
	docId   DocumentId
	fieldId int

	fieldIds   map[string]int
	fieldNames []string
	// postings[fieldId][term] holds ascending doc ids without duplicates
	postings []map[string][]DocumentId
}

func newInvertedIndexWriter() *InvertedIndexWriter {
	return &InvertedIndexWriter{
		fieldIds:   make(map[string]int),
		fieldNames: make([]string, 0, 5),
		postings:   make([]map[string][]DocumentId, 0, 5),
	}
}

func (w *InvertedIndexWriter) Doc(docId DocumentId) {
	w.docId = docId
}

func (w *InvertedIndexWriter) Field(fieldName string, value []byte) {
	fieldId, exists := w.fieldIds[fieldName]
	if !exists {
		fieldId = len(w.fieldNames)
		w.fieldNames = append(w.fieldNames, fieldName)
		w.fieldIds[fieldName] = fieldId
		w.postings = append(w.postings, make(map[string][]DocumentId))
	}

	w.fieldId = fieldId
}

func (w *InvertedIndexWriter) EndField() {
}

func (w *InvertedIndexWriter) Term(term []byte) {
	fieldPostings := w.postings[w.fieldId]
	docIds := fieldPostings[string(term)]

	// Documents arrive in order, so a repeated term only needs a look at the tail.
	if len(docIds) > 0 && docIds[len(docIds)-1] == w.docId {
		return
	}

	fieldPostings[string(term)] = append(docIds, w.docId)
}

func (w *InvertedIndexWriter) Write(directory, segmentId string) error {
	for fieldId, fieldPostings := range w.postings {
		if err := w.writeField(directory, segmentId, w.fieldNames[fieldId], fieldPostings); err != nil {
			return err
		}
	}

	return nil
}

func (w *InvertedIndexWriter) writeField(directory, segmentId, fieldName string, fieldPostings map[string][]DocumentId) error {
	postingsWriter, err := newPostingsWriter(directory, segmentId, fieldName)
	if err != nil {
		return err
	}

	dictWriter, err := newDictionaryWriter(directory, segmentId, fieldName)
	if err != nil {
		_ = postingsWriter.Close()
		return err
	}

	sortedTerms := make([]string, 0, len(fieldPostings))
	for term := range fieldPostings {
		sortedTerms = append(sortedTerms, term)
	}
	slices.Sort(sortedTerms)

	termInfo := &TermInfo{}

	for _, term := range sortedTerms {
		docIds := fieldPostings[term]

		start, end, err := postingsWriter.WriteTerm(docIds)
		if err != nil {
			_ = postingsWriter.Close()
			_ = dictWriter.Close()
			return err
		}

		termInfo.DocFreq = uint32(len(docIds))
		termInfo.PostingsStartOffset = start
		termInfo.PostingsEndOffset = end

		if err := dictWriter.Write([]byte(term), termInfo); err != nil {
			_ = postingsWriter.Close()
			_ = dictWriter.Close()
			return err
		}
	}

	if err := postingsWriter.Close(); err != nil {
		_ = dictWriter.Close()
		return err
	}

	return dictWriter.Close()
}
