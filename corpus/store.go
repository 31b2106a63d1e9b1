// Package corpus persists crawl output: numbered document files, the
// sequence-number index, and the intermediate URL list. These artifacts are
// the contract surface for the downstream text-extraction stage.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// DocExt is the extension of stored document files.
const DocExt = ".txt"

// Store writes one file per saved document, named by its 1-based sequence
// number. Bodies are stored verbatim.
type Store struct {
	dir string
}

// NewStore creates the store directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory %q: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes body under seq and returns the file path. Each save is an
// independent, immediately durable write.
func (s *Store) Save(seq int, body string) (string, error) {
	if seq <= 0 {
		return "", fmt.Errorf("sequence number must be positive, got %d", seq)
	}
	path := filepath.Join(s.dir, strconv.Itoa(seq)+DocExt)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("write document %d: %w", seq, err)
	}
	return path, nil
}

// Document is one stored file, identified by the sequence number derived
// from its filename.
type Document struct {
	ID   int
	Path string
}

// Documents enumerates the stored files in ascending ID order. This is the
// iteration contract the downstream extraction stage relies on; files whose
// names are not a plain number are ignored.
func Documents(dir string) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read store directory %q: %w", dir, err)
	}

	var docs []Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, DocExt) {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSuffix(name, DocExt))
		if err != nil || id <= 0 {
			continue
		}
		docs = append(docs, Document{ID: id, Path: filepath.Join(dir, name)})
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}
