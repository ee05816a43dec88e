package rag

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrStoreNotFound is returned when the vector store file does not exist
var ErrStoreNotFound = errors.New("vector store not found")

// Doc is a source document to ingest
type Doc struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Row is one embedded chunk in the vector store
type Row struct {
	DocID     string    `json:"doc_id"`
	Title     string    `json:"title"`
	ChunkID   string    `json:"chunk_id"`
	Content   string    `json:"content"`
	Embedding []float32 `json:"embedding"`
}

// LoadDocs reads a JSON array of documents
func LoadDocs(path string) ([]Doc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read docs: %w", err)
	}
	var docs []Doc
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("failed to parse docs %s: %w", path, err)
	}
	return docs, nil
}

// LoadRows reads the vector store at path
func LoadRows(path string) ([]Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrStoreNotFound, path)
		}
		return nil, fmt.Errorf("failed to read vector store: %w", err)
	}
	var rows []Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse vector store %s: %w", path, err)
	}
	return rows, nil
}

// SaveRows writes rows to path as indented JSON
func SaveRows(path string, rows []Row) error {
	if rows == nil {
		rows = []Row{}
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal vector store: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create vector store directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write vector store: %w", err)
	}
	return nil
}
