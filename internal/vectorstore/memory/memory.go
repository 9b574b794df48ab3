package memory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/longkey1/chenai/internal/vectorstore"
)

// Storage is a simple in-memory vector store using brute-force cosine similarity.
type Storage struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

type collection struct {
	dimension int
	index     map[string]int // ChunkID -> position
	vectors   [][]float32    // L2-normalized
	chunks    []vectorstore.Chunk
}

var _ vectorstore.Storage = (*Storage)(nil)

func NewStorage() *Storage {
	return &Storage{collections: make(map[string]*collection)}
}

func (s *Storage) Init(_ context.Context, name string, dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.collections[name]; ok {
		if c.dimension != dimension {
			return fmt.Errorf("collection %s has dimension %d, not %d", name, c.dimension, dimension)
		}
		return nil
	}
	s.collections[name] = &collection{dimension: dimension, index: make(map[string]int)}
	return nil
}

func (s *Storage) Upsert(_ context.Context, name string, chunks []vectorstore.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[name]
	if !ok {
		return fmt.Errorf("%w: %s", vectorstore.ErrCollectionNotFound, name)
	}
	for _, v := range vectors {
		if len(v) != c.dimension {
			return errors.New("vector dimension mismatch")
		}
	}
	for i, chunk := range chunks {
		v := normalize(vectors[i])
		if pos, ok := c.index[chunk.ChunkID]; ok {
			c.chunks[pos] = chunk
			c.vectors[pos] = v
			continue
		}
		c.index[chunk.ChunkID] = len(c.chunks)
		c.chunks = append(c.chunks, chunk)
		c.vectors = append(c.vectors, v)
	}
	return nil
}

func (s *Storage) Search(_ context.Context, name string, vector []float32, topK int) ([]vectorstore.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", vectorstore.ErrCollectionNotFound, name)
	}
	if topK <= 0 {
		topK = 5
	}
	query := normalize(vector)
	results := make([]vectorstore.SearchResult, len(c.vectors))
	for i := range c.vectors {
		results[i] = vectorstore.SearchResult{Chunk: c.chunks[i], Score: dot(c.vectors[i], query)}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK], nil
}

func (s *Storage) Clear(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections, name)
	return nil
}

// Len returns the number of chunks stored in collection.
func (s *Storage) Len(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.collections[name]; ok {
		return len(c.chunks)
	}
	return 0
}

func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	out := make([]float32, len(v))
	if sum == 0 {
		return out
	}
	norm := math.Sqrt(sum)
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
