package store

import (
	"context"
	"fmt"
	"os"
)

// DatasetSource supplies the raw product dataset as a JSON array document.
type DatasetSource interface {
	Load(ctx context.Context) ([]byte, error)
	Name() string
}

type fileSource struct {
	path string
}

// NewFileSource reads the dataset from a file, relative paths resolve against the working directory.
func NewFileSource(path string) DatasetSource {
	return &fileSource{path: path}
}

func (s *fileSource) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", s.path, err)
	}
	return data, nil
}

func (s *fileSource) Name() string {
	return "file:" + s.path
}
