// Package knowledge implements the embedding-indexed document store: text is
// chunked, embedded and appended to a named collection, then retrieved by
// cosine similarity to augment question answering.
package knowledge

import "context"

// Document is one stored chunk with its provenance metadata.
type Document struct {
	ID       string            `json:"id"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
}

// ScoredDocument pairs a retrieved chunk with its similarity score.
type ScoredDocument struct {
	Document Document `json:"document"`
	Score    float32  `json:"score"`
}

// Index is the vector backend behind a Store. Vectors passed to Add and
// Search must be unit length; Search ranks by dot product, which then equals
// cosine similarity.
type Index interface {
	Add(ctx context.Context, docs []Document, vectors [][]float32) error
	Search(ctx context.Context, vector []float32, k int) ([]ScoredDocument, error)
	Count(ctx context.Context) (int, error)
	Location() string
}
