package index

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/exp/rand"
)

type IndexWriter struct {
	directory string
	logger    *slog.Logger
	mutex     sync.Mutex
	tokenizer *StandardTokenizer
}

type WriterOption func(*IndexWriter)

func WithWriterLogger(logger *slog.Logger) WriterOption {
	return func(w *IndexWriter) {
		w.logger = logger
	}
}

func NewIndexWriter(directory string, opts ...WriterOption) *IndexWriter {
	writer := &IndexWriter{
		directory: directory,
		logger:    slog.Default(),
		tokenizer: NewStandardTokenizer(),
	}

	for _, opt := range opts {
		opt(writer)
	}

	return writer
}

// AddDocuments writes docs as a new segment and commits it. Local doc ids are
// the positions in docs.
func (writer *IndexWriter) AddDocuments(docs []Document) error {
	writer.mutex.Lock()
	defer writer.mutex.Unlock()

	if len(docs) == 0 {
		return nil
	}

	componentWriters := []SegmentComponentWriter{newInvertedIndexWriter(), newStoreWriter()}

	for docId, doc := range docs {
		for _, componentWriter := range componentWriters {
			componentWriter.Doc(DocumentId(docId))
		}

		for _, field := range doc {
			if err := writer.addField(componentWriters, field); err != nil {
				return err
			}
		}
	}

	commit, err := readCommit(writer.directory)
	if err != nil {
		return err
	}

	segmentId := rand.Uint32()
	for slices.Contains(commit.SegmentIds, segmentId) {
		segmentId = rand.Uint32()
	}

	for _, componentWriter := range componentWriters {
		if err := componentWriter.Write(writer.directory, formatId(segmentId)); err != nil {
			return fmt.Errorf("write segment %d: %w", segmentId, err)
		}
	}

	commit.SegmentIds = append(commit.SegmentIds, segmentId)

	if err := writeCommit(writer.directory, commit); err != nil {
		return err
	}

	writer.logger.Debug("segment committed", "segment", segmentId, "docs", len(docs))

	return nil
}

func (writer *IndexWriter) addField(componentWriters []SegmentComponentWriter, field Field) error {
	for _, componentWriter := range componentWriters {
		componentWriter.Field(field.Name, field.Value)
	}

	switch field.FieldType {
	case TextFieldType:
		writer.tokenizer.Reset(field.Value)
		for {
			token, ok := writer.tokenizer.NextToken()
			if !ok {
				break
			}

			for _, componentWriter := range componentWriters {
				componentWriter.Term(token.Text)
			}
		}
	case ByteFieldType:
		for _, componentWriter := range componentWriters {
			componentWriter.Term(field.Value)
		}
	default:
		return fmt.Errorf("unknown field type %d", field.FieldType)
	}

	for _, componentWriter := range componentWriters {
		componentWriter.EndField()
	}

	return nil
}

// DeleteDocuments marks every document whose field holds one of values as
// deleted, in a new deletion generation.
func (writer *IndexWriter) DeleteDocuments(fieldName string, values [][]byte) error {
	writer.mutex.Lock()
	defer writer.mutex.Unlock()

	indexReader, err := NewIndexReader(writer.directory)
	if err != nil {
		return err
	}
	defer indexReader.Close()

	docIdsToDelete, err := indexReader.SearchByExactValues(fieldName, values)
	if err != nil {
		return err
	}

	deletedDocIdsBySegment := make(map[uint32]*roaring.Bitmap, len(indexReader.SegmentReaders))
	for _, segmentReader := range indexReader.SegmentReaders {
		deletedDocIdsBySegment[segmentReader.Id] = segmentReader.DeletedDocIds.Clone()
	}

	for _, docId := range docIdsToDelete {
		deletedDocIdsBySegment[ToSegmentId(docId)].Add(uint32(ToLocalDocId(docId)))
	}

	commit, err := readCommit(writer.directory)
	if err != nil {
		return err
	}

	nextDeletedId := uint32(0)
	if commit.DeletedId != nil {
		nextDeletedId = *commit.DeletedId + 1
	}

	if err := writeDeleted(writer.directory, formatId(nextDeletedId), deletedDocIdsBySegment); err != nil {
		return err
	}

	commit.DeletedId = &nextDeletedId

	if err := writeCommit(writer.directory, commit); err != nil {
		return err
	}

	writer.logger.Debug("documents deleted", "field", fieldName, "count", len(docIdsToDelete), "generation", nextDeletedId)

	return nil
}
