package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/longkey1/chenai/internal/chenai/config"
)

// NewOllamaEmbedder creates the embedder the document collections are indexed with.
// Embeddings always come from Ollama, whatever provider answers the chat.
func NewOllamaEmbedder(cfg *config.Config) (*CachedEmbedder, error) {
	baseURL, err := cfg.GetBaseURL("ollama")
	if err != nil {
		return nil, err
	}
	client, err := ollama.New(
		ollama.WithModel(cfg.EmbeddingModel),
		ollama.WithServerURL(baseURL),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ollama embedding client: %w", err)
	}
	impl, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(false))
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}
	return NewCachedEmbedder(impl, cfg.EmbeddingModel, cfg.EmbeddingCacheSize)
}

// CachedEmbedder wraps a langchaingo embedder with an LRU cache of query vectors.
type CachedEmbedder struct {
	impl  embeddings.Embedder
	model string
	cache *lru.Cache[string, []float32]
}

var _ embeddings.Embedder = (*CachedEmbedder)(nil)

// NewCachedEmbedder wraps impl. A size of zero disables the cache.
func NewCachedEmbedder(impl embeddings.Embedder, model string, size int) (*CachedEmbedder, error) {
	e := &CachedEmbedder{impl: impl, model: model}
	if size > 0 {
		cache, err := lru.New[string, []float32](size)
		if err != nil {
			return nil, fmt.Errorf("embedder %q: init cache: %w", model, err)
		}
		e.cache = cache
	}
	return e, nil
}

// EmbedDocuments embeds texts without caching; documents are embedded once at ingest.
func (e *CachedEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	vectors, err := e.impl.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, e.withContext(err)
	}
	if len(vectors) != len(texts) {
		return nil, e.withContext(fmt.Errorf("received %d embeddings for %d texts", len(vectors), len(texts)))
	}
	return vectors, nil
}

// EmbedQuery embeds text, serving repeated queries from the cache.
func (e *CachedEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	key := cacheKey(text)
	if e.cache != nil {
		if vector, ok := e.cache.Get(key); ok {
			return cloneVector(vector), nil
		}
	}
	vector, err := e.impl.EmbedQuery(ctx, text)
	if err != nil {
		return nil, e.withContext(err)
	}
	if e.cache != nil && len(vector) > 0 {
		e.cache.Add(key, cloneVector(vector))
	}
	return vector, nil
}

func (e *CachedEmbedder) withContext(err error) error {
	return fmt.Errorf("embedding model %s: %w", e.model, err)
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

func cloneVector(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	return out
}
