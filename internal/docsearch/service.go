// Package docsearch implements semantic search over the named document collections.
package docsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/embeddings"

	"github.com/longkey1/chenai/internal/chenai"
	"github.com/longkey1/chenai/internal/logger"
	"github.com/longkey1/chenai/internal/vectorstore"
)

// Payload is the JSON document returned by Search.
type Payload struct {
	Data  []string `json:"Data,omitempty"`
	Error string   `json:"Error,omitempty"`
}

// Service searches and fills the document collections.
type Service struct {
	store    vectorstore.Storage
	embedder embeddings.Embedder
	chunker  *SentenceChunker
}

var _ chenai.DocumentSearcher = (*Service)(nil)

// NewService returns a service storing vectors in store.
func NewService(store vectorstore.Storage, embedder embeddings.Embedder) *Service {
	return &Service{
		store:    store,
		embedder: embedder,
		chunker:  NewSentenceChunker(5, 1),
	}
}

// Search returns the n chunks closest to query as {"Data": [...]}.
//
// Problems with the request itself (unknown or empty collection) are reported
// in the payload as {"Error": "..."}. Failures to reach the embedding model or
// the vector store are returned as errors.
func (s *Service) Search(ctx context.Context, collection, query string, n int) (string, error) {
	if !isCollection(collection) {
		return encode(Payload{Error: fmt.Sprintf("Unknown collection: %s", collection)})
	}
	if n <= 0 {
		n = 5
	}

	vector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return "", err
	}

	results, err := s.store.Search(ctx, collection, vector, n)
	if errors.Is(err, vectorstore.ErrCollectionNotFound) {
		return encode(Payload{Error: fmt.Sprintf("Collection %s has no documents. Ingest some with: chenai ingest --collection %s <files>", collection, collection)})
	}
	if err != nil {
		return "", err
	}

	data := make([]string, 0, len(results))
	for _, r := range results {
		data = append(data, r.Chunk.Text)
	}
	logger.FromContext(ctx).Debug("document search", "collection", collection, "results", len(data))
	if len(data) == 0 {
		return encode(Payload{Error: fmt.Sprintf("No results found in %s", collection)})
	}
	return encode(Payload{Data: data})
}

func encode(p Payload) (string, error) {
	out, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encoding search payload: %w", err)
	}
	return string(out), nil
}

func isCollection(name string) bool {
	for _, c := range chenai.Collections {
		if c == name {
			return true
		}
	}
	return false
}
