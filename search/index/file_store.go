package index

import (
	"os"

	"github.com/edsrzf/mmap-go"
)

func createFile(filename string) (*os.File, error) {
	return os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0600)
}

// FileReader gives read-only random access to a memory mapped file.
type FileReader struct {
	data mmap.MMap
	file *os.File
}

func newFileReader(filename string) (*FileReader, error) {
	file, data, err := mapFile(filename)
	if err != nil {
		return nil, err
	}

	return &FileReader{
		data: data,
		file: file,
	}, nil
}

func (reader *FileReader) Slice(start, end uint64) []byte {
	return reader.data[start:end]
}

func (reader *FileReader) Close() error {
	if err := unmap(reader.data); err != nil {
		_ = reader.file.Close()
		return err
	}
	return reader.file.Close()
}
