// Package vectorstore provides the Postgres-backed vector index used when a
// database is configured, built on pgvector. It serves the same contract as
// the file-backed index but scales past what a single JSON file can hold.
package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/mikeboe/deep-researcher/pkg/knowledge"
)

// PGIndex stores a collection's chunks in one pgvector table.
type PGIndex struct {
	pool      *pgxpool.Pool
	tableName string
}

// isValidTableName validates that a table name contains only safe characters
// to prevent SQL injection attacks
func isValidTableName(name string) bool {
	// Table names must start with a letter or underscore and be between
	// 1-63 chars (PostgreSQL limit)
	matched, _ := regexp.MatchString(`^[a-z_][a-zA-Z0-9_]{0,62}$`, name)
	return matched
}

// NewPGIndex creates an index over the named table. The table must already
// exist (see database.CreateCollectionTable).
func NewPGIndex(pool *pgxpool.Pool, tableName string) (*PGIndex, error) {
	if !isValidTableName(tableName) {
		return nil, fmt.Errorf("invalid table name: must contain only alphanumeric characters and underscores, start with a letter or underscore, and be 1-63 characters long")
	}
	return &PGIndex{
		pool:      pool,
		tableName: tableName,
	}, nil
}

func (idx *PGIndex) Location() string {
	return "postgres table " + idx.tableName
}

// Add inserts documents with their embeddings in one batch.
func (idx *PGIndex) Add(ctx context.Context, docs []knowledge.Document, vectors [][]float32) error {
	if len(docs) != len(vectors) {
		return fmt.Errorf("document count %d does not match vector count %d", len(docs), len(vectors))
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (content, metadata, embedding)
		VALUES ($1, $2, $3)
	`, pgx.Identifier{idx.tableName}.Sanitize())

	batch := &pgx.Batch{}
	for i, doc := range docs {
		metadataJSON, err := json.Marshal(doc.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}

		embedding := pgvector.NewVector(vectors[i])
		batch.Queue(query, doc.Content, metadataJSON, embedding)
	}

	br := idx.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range docs {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to insert document: %w", err)
		}
	}

	return nil
}

// Search returns the k nearest chunks by cosine similarity, best first.
func (idx *PGIndex) Search(ctx context.Context, vector []float32, k int) ([]knowledge.ScoredDocument, error) {
	query := fmt.Sprintf(`
		SELECT id, content, metadata, 1 - (embedding <=> $1) as similarity
		FROM %s
		ORDER BY embedding <=> $1
		LIMIT $2
	`, pgx.Identifier{idx.tableName}.Sanitize())

	embedding := pgvector.NewVector(vector)
	rows, err := idx.pool.Query(ctx, query, embedding, k)
	if err != nil {
		return nil, fmt.Errorf("failed to execute similarity search: %w", err)
	}
	defer rows.Close()

	var results []knowledge.ScoredDocument
	for rows.Next() {
		var doc knowledge.Document
		var metadataJSON []byte
		var similarity float64

		if err := rows.Scan(&doc.ID, &doc.Content, &metadataJSON, &similarity); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		if err := json.Unmarshal(metadataJSON, &doc.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}

		results = append(results, knowledge.ScoredDocument{
			Document: doc,
			Score:    float32(similarity),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return results, nil
}

// Count returns the number of stored chunks.
func (idx *PGIndex) Count(ctx context.Context) (int, error) {
	query := fmt.Sprintf(`SELECT count(*) FROM %s`, pgx.Identifier{idx.tableName}.Sanitize())

	var count int
	if err := idx.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}
