package index

import (
	"bufio"
	"encoding/binary"
	"os"
	"path/filepath"
)

const postingsBlockSize = 128

/*
Block:
  - Header:
	- [0] num docs (byte)
	- [1] first doc id (uint32)
	- [5] last doc id (uint32)
	- [9] block length in bytes, header included (uint32)
  - Doc id deltas (uvarint), the first one relative to 0
*/
const blockHeaderSize = 13

func postingsFilename(directory, segmentId, fieldName string) string {
	return filepath.Join(directory, "segment."+segmentId+"."+fieldName+".postings")
}

type PostingsWriter struct {
	file   *os.File
	offset uint64
	writer *bufio.Writer
}

func newPostingsWriter(directory, segmentId, fieldName string) (*PostingsWriter, error) {
	file, err := createFile(postingsFilename(directory, segmentId, fieldName))
	if err != nil {
		return nil, err
	}

	return &PostingsWriter{
		file:   file,
		writer: bufio.NewWriter(file),
	}, nil
}

// WriteTerm writes the sorted doc ids of one term and returns the offsets of
// its first and past-the-last byte.
func (writer *PostingsWriter) WriteTerm(docIds []DocumentId) (uint64, uint64, error) {
	start := writer.offset

	for i := 0; i < len(docIds); i += postingsBlockSize {
		end := min(i+postingsBlockSize, len(docIds))
		if err := writer.writeBlock(docIds[i:end]); err != nil {
			return 0, 0, err
		}
	}

	return start, writer.offset, nil
}

func (writer *PostingsWriter) writeBlock(docIds []DocumentId) error {
	buffer := make([]byte, 0, blockHeaderSize+len(docIds)*binary.MaxVarintLen32)

	buffer = append(buffer, byte(len(docIds)))
	buffer = binary.BigEndian.AppendUint32(buffer, uint32(docIds[0]))
	buffer = binary.BigEndian.AppendUint32(buffer, uint32(docIds[len(docIds)-1]))
	buffer = binary.BigEndian.AppendUint32(buffer, 0) // patched below

	previous := DocumentId(0)
	for _, docId := range docIds {
		buffer = binary.AppendUvarint(buffer, uint64(docId-previous))
		previous = docId
	}

	binary.BigEndian.PutUint32(buffer[9:], uint32(len(buffer)))

	if _, err := writer.writer.Write(buffer); err != nil {
		return err
	}

	writer.offset += uint64(len(buffer))

	return nil
}

func (writer *PostingsWriter) Close() error {
	if err := writer.writer.Flush(); err != nil {
		_ = writer.file.Close()
		return err
	}

	return writer.file.Close()
}

type PostingsReader struct {
	fileReader *FileReader
}

func newPostingsReader(directory, segmentId, fieldName string) (*PostingsReader, error) {
	fileReader, err := newFileReader(postingsFilename(directory, segmentId, fieldName))
	if err != nil {
		return nil, err
	}

	return &PostingsReader{fileReader: fileReader}, nil
}

func (reader *PostingsReader) Iterator(termInfo *TermInfo) *PostingsIterator {
	return newPostingsIterator(reader.fileReader.Slice(termInfo.PostingsStartOffset, termInfo.PostingsEndOffset))
}

func (reader *PostingsReader) Close() error {
	return reader.fileReader.Close()
}
