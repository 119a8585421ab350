package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"
)

const indexFileName = "index.json"

// placeholderContent seeds every fresh collection so the index file is never
// empty. Its zero vector scores 0 against every query, so it never outranks
// real content.
const placeholderContent = "Initialization document"

type indexRecord struct {
	Document Document  `json:"document"`
	Vector   []float32 `json:"vector"`
}

type indexFile struct {
	Collection string        `json:"collection"`
	Records    []indexRecord `json:"records"`
}

// FileIndex keeps a collection's vectors in a single JSON file under one
// directory per collection. Every mutation rewrites the whole file through a
// temp-file rename, so a crash mid-write leaves the previous index intact.
// Two processes writing the same collection race at file granularity and the
// last writer wins.
type FileIndex struct {
	mu     sync.Mutex
	dir    string
	data   indexFile
	logger *slog.Logger
}

// NewFileIndex loads the collection's index from root/collection, creating a
// fresh placeholder-seeded one if the directory is missing or the index file
// cannot be read back. Load failures never surface to the caller.
func NewFileIndex(root, collection string, logger *slog.Logger) (*FileIndex, error) {
	if logger == nil {
		logger = slog.Default()
	}
	dir := filepath.Join(root, collection)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create collection directory: %w", err)
	}

	idx := &FileIndex{dir: dir, logger: logger}

	raw, err := os.ReadFile(filepath.Join(dir, indexFileName))
	if err == nil {
		var data indexFile
		if jsonErr := json.Unmarshal(raw, &data); jsonErr == nil {
			idx.data = data
			logger.Info("loaded collection index", "collection", collection, "records", len(data.Records))
			return idx, nil
		}
		logger.Warn("collection index unreadable, recreating", "collection", collection)
	} else if !os.IsNotExist(err) {
		logger.Warn("collection index unreadable, recreating", "collection", collection, "error", err)
	}

	idx.data = indexFile{
		Collection: collection,
		Records: []indexRecord{{
			Document: Document{
				ID:       uuid.NewString(),
				Content:  placeholderContent,
				Metadata: map[string]string{},
			},
			Vector: nil,
		}},
	}
	if err := idx.persistLocked(); err != nil {
		return nil, err
	}
	logger.Info("created collection index", "collection", collection, "path", dir)
	return idx, nil
}

func (idx *FileIndex) Location() string { return idx.dir }

// Add appends documents with their vectors and persists the whole index
// before returning.
func (idx *FileIndex) Add(ctx context.Context, docs []Document, vectors [][]float32) error {
	if len(docs) != len(vectors) {
		return fmt.Errorf("document count %d does not match vector count %d", len(docs), len(vectors))
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	for i, doc := range docs {
		if doc.ID == "" {
			doc.ID = uuid.NewString()
		}
		idx.data.Records = append(idx.data.Records, indexRecord{Document: doc, Vector: vectors[i]})
	}
	return idx.persistLocked()
}

// Search returns the k records with the highest dot product against the
// query vector, best first. Non-positive k yields no results.
func (idx *FileIndex) Search(ctx context.Context, vector []float32, k int) ([]ScoredDocument, error) {
	if k <= 0 {
		return nil, nil
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	scored := make([]ScoredDocument, 0, len(idx.data.Records))
	for _, rec := range idx.data.Records {
		scored = append(scored, ScoredDocument{
			Document: rec.Document,
			Score:    dot(vector, rec.Vector),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	if k < len(scored) {
		scored = scored[:k]
	}
	return scored, nil
}

func (idx *FileIndex) Count(ctx context.Context) (int, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return len(idx.data.Records), nil
}

func (idx *FileIndex) persistLocked() error {
	raw, err := json.Marshal(idx.data)
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}

	tmp := filepath.Join(idx.dir, indexFileName+".tmp")
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(idx.dir, indexFileName)); err != nil {
		return fmt.Errorf("failed to replace index: %w", err)
	}
	return nil
}

func dot(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float32
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
