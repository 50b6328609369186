package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// FileSource reads the catalog and record feeds from local JSON files, the
// same array-of-rows layout the upstream spreadsheet export produces.
type FileSource struct {
	itemPath   string
	recordPath string
}

// NewFileSource builds a file-backed feed source.
func NewFileSource(itemPath, recordPath string) *FileSource {
	return &FileSource{itemPath: itemPath, recordPath: recordPath}
}

// FetchItemRows loads the catalog feed file.
func (s *FileSource) FetchItemRows(_ context.Context) ([]map[string]any, error) {
	return readRowsFile(s.itemPath)
}

// FetchRecordRows loads the daily record feed file.
func (s *FileSource) FetchRecordRows(_ context.Context) ([]map[string]any, error) {
	return readRowsFile(s.recordPath)
}

func readRowsFile(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read feed file %s: %w", path, err)
	}

	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode feed file %s: %w", path, err)
	}
	return rows, nil
}
