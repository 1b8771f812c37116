package index

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
)

const commitFilename = "commit"

// Commit lists the live segments of an index and its current deletion
// generation. It is replaced atomically on every change.
type Commit struct {
	SegmentIds []uint32 `json:"segmentIds"`
	DeletedId  *uint32  `json:"deletedId,omitempty"`
}

func formatId(id uint32) string {
	return strconv.FormatUint(uint64(id), 10)
}

func readCommit(directory string) (*Commit, error) {
	commitFile, err := os.Open(filepath.Join(directory, commitFilename))
	if errors.Is(err, fs.ErrNotExist) {
		return &Commit{SegmentIds: make([]uint32, 0)}, nil
	}
	if err != nil {
		return nil, err
	}
	defer commitFile.Close()

	var commit Commit
	if err := json.NewDecoder(commitFile).Decode(&commit); err != nil {
		return nil, err
	}

	return &commit, nil
}

func writeCommit(directory string, commit *Commit) error {
	tempFilePath := filepath.Join(directory, "."+commitFilename)

	tempFile, err := os.Create(tempFilePath)
	if err != nil {
		return err
	}

	if err := json.NewEncoder(tempFile).Encode(commit); err != nil {
		_ = tempFile.Close()
		return err
	}

	if err := tempFile.Sync(); err != nil {
		_ = tempFile.Close()
		return err
	}

	if err := tempFile.Close(); err != nil {
		return err
	}

	return os.Rename(tempFilePath, filepath.Join(directory, commitFilename))
}
