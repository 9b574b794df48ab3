// Package vectorstore defines the vector storage used by the document collections.
package vectorstore

import (
	"context"
	"errors"
)

// ErrCollectionNotFound is returned when searching a collection that was never created.
var ErrCollectionNotFound = errors.New("collection not found")

// Chunk is a part of an ingested document.
type Chunk struct {
	DocumentID string
	ChunkID    string
	Text       string
	Index      int
}

// SearchResult represents a matching chunk with a relevance score.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// Storage persists vectors per named collection and supports similarity search.
type Storage interface {
	// Init creates collection if missing.
	Init(ctx context.Context, collection string, dimension int) error
	// Upsert stores chunks with their vectors; a chunk with a known ChunkID is replaced.
	Upsert(ctx context.Context, collection string, chunks []Chunk, vectors [][]float32) error
	// Search returns up to topK chunks ordered by decreasing cosine similarity.
	Search(ctx context.Context, collection string, vector []float32, topK int) ([]SearchResult, error)
	// Clear drops collection.
	Clear(ctx context.Context, collection string) error
}
