package knowledge

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/mikeboe/deep-researcher/pkg/embeddings"
	"github.com/mikeboe/deep-researcher/pkg/extract"
	"github.com/mikeboe/deep-researcher/pkg/splitter"
)

// CollectionInfo describes the state of the store's collection.
type CollectionInfo struct {
	CollectionName string `json:"collection_name"`
	VectorCount    int    `json:"vector_count"`
	StoragePath    string `json:"vector_db_path"`
	EmbeddingModel string `json:"embedding_model"`
}

// Store binds a collection index to an embedder and a chunker. Ingestion
// failures are logged and reported as zero chunks; they never fail the
// caller.
type Store struct {
	collection string
	index      Index
	embedder   embeddings.Embedder
	splitter   *splitter.TextSplitter
	logger     *slog.Logger
}

func NewStore(collection string, index Index, embedder embeddings.Embedder, ts *splitter.TextSplitter, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		collection: collection,
		index:      index,
		embedder:   embedder,
		splitter:   ts,
		logger:     logger,
	}
}

// IngestDocument extracts text from the file at path, chunks and embeds it,
// and appends the chunks to the collection. Returns the number of chunks
// added; extraction or embedding problems are logged and yield 0.
func (s *Store) IngestDocument(ctx context.Context, path string, metadata map[string]string) int {
	text, err := extract.TextFromFile(path)
	if err != nil {
		s.logger.Error("document extraction failed", "path", path, "error", err)
		return 0
	}

	merged := map[string]string{
		"source":    filepath.Base(path),
		"file_path": path,
		"file_type": strings.ToLower(filepath.Ext(path)),
	}
	for k, v := range metadata {
		merged[k] = v
	}

	return s.ingest(ctx, text, merged)
}

// IngestText chunks and embeds raw text and appends it to the collection.
func (s *Store) IngestText(ctx context.Context, text string, metadata map[string]string) int {
	if metadata == nil {
		metadata = map[string]string{}
	}
	return s.ingest(ctx, text, metadata)
}

func (s *Store) ingest(ctx context.Context, text string, metadata map[string]string) int {
	chunks, err := s.splitter.SplitText(text)
	if err != nil {
		s.logger.Error("chunking failed", "collection", s.collection, "error", err)
		return 0
	}
	if len(chunks) == 0 {
		s.logger.Warn("nothing to ingest", "collection", s.collection)
		return 0
	}

	vectors, err := s.embedder.EmbedTexts(ctx, chunks)
	if err != nil {
		s.logger.Error("embedding failed", "collection", s.collection, "error", err)
		return 0
	}

	docs := make([]Document, len(chunks))
	for i, chunk := range chunks {
		docs[i] = Document{Content: chunk, Metadata: metadata}
	}

	if err := s.index.Add(ctx, docs, vectors); err != nil {
		s.logger.Error("index update failed", "collection", s.collection, "error", err)
		return 0
	}

	s.logger.Info("ingested chunks", "collection", s.collection, "chunks", len(chunks))
	return len(chunks)
}

// Retrieve returns the k most similar chunks to the query.
func (s *Store) Retrieve(ctx context.Context, query string, k int) ([]Document, error) {
	scored, err := s.RetrieveWithScores(ctx, query, k)
	if err != nil {
		return nil, err
	}
	docs := make([]Document, len(scored))
	for i, sd := range scored {
		docs[i] = sd.Document
	}
	return docs, nil
}

// RetrieveWithScores returns the k most similar chunks with their cosine
// similarity, best first.
func (s *Store) RetrieveWithScores(ctx context.Context, query string, k int) ([]ScoredDocument, error) {
	vec, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	return s.index.Search(ctx, vec, k)
}

// AugmentQuery builds a prompt that places the top-k retrieved passages
// ahead of the original question.
func (s *Store) AugmentQuery(ctx context.Context, query string, k int) (string, error) {
	docs, err := s.Retrieve(ctx, query, k)
	if err != nil {
		return "", err
	}

	passages := make([]string, 0, len(docs))
	for _, doc := range docs {
		passages = append(passages, doc.Content)
	}

	return fmt.Sprintf(`Answer the following question based on the provided context:

Context:
%s

Question: %s`, strings.Join(passages, "\n\n"), query), nil
}

// CollectionInfo reports the collection name, vector count, storage location
// and embedding model.
func (s *Store) CollectionInfo(ctx context.Context) CollectionInfo {
	count, err := s.index.Count(ctx)
	if err != nil {
		s.logger.Warn("failed to count vectors", "collection", s.collection, "error", err)
		count = 0
	}
	return CollectionInfo{
		CollectionName: s.collection,
		VectorCount:    count,
		StoragePath:    s.index.Location(),
		EmbeddingModel: s.embedder.Model(),
	}
}
