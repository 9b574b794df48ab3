package docsearch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/longkey1/chenai/internal/logger"
	"github.com/longkey1/chenai/internal/vectorstore"
)

// embedBatchSize bounds the number of chunks sent to the embedding model per request.
const embedBatchSize = 32

// IngestResult summarizes one ingestion run.
type IngestResult struct {
	Collection string
	Documents  int
	Chunks     int
}

// Ingest chunks, embeds and stores docs in collection.
func (s *Service) Ingest(ctx context.Context, collection string, docs []Document) (IngestResult, error) {
	result := IngestResult{Collection: collection}
	if !isCollection(collection) {
		return result, fmt.Errorf("unknown collection: %s", collection)
	}

	var chunks []vectorstore.Chunk
	for _, doc := range docs {
		c := s.chunker.Chunk(doc)
		if len(c) == 0 {
			continue
		}
		chunks = append(chunks, c...)
		result.Documents++
	}
	if len(chunks) == 0 {
		return result, nil
	}

	initialized := false
	for start := 0; start < len(chunks); start += embedBatchSize {
		end := min(start+embedBatchSize, len(chunks))
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Text
		}
		vectors, err := s.embedder.EmbedDocuments(ctx, texts)
		if err != nil {
			return result, err
		}
		if !initialized {
			if len(vectors) == 0 || len(vectors[0]) == 0 {
				return result, fmt.Errorf("embedding model returned empty vectors")
			}
			if err := s.store.Init(ctx, collection, len(vectors[0])); err != nil {
				return result, fmt.Errorf("initializing collection %s: %w", collection, err)
			}
			initialized = true
		}
		if err := s.store.Upsert(ctx, collection, batch, vectors); err != nil {
			return result, fmt.Errorf("storing chunks in %s: %w", collection, err)
		}
		result.Chunks += len(batch)
	}

	logger.FromContext(ctx).Info("ingested documents", "collection", collection, "documents", result.Documents, "chunks", result.Chunks)
	return result, nil
}

// IngestFiles ingests every file matched by patterns into collection.
func (s *Service) IngestFiles(ctx context.Context, collection string, patterns []string) (IngestResult, error) {
	paths, err := ExpandPatterns(patterns)
	if err != nil {
		return IngestResult{Collection: collection}, err
	}
	docs, err := LoadDocuments(paths)
	if err != nil {
		return IngestResult{Collection: collection}, err
	}
	return s.Ingest(ctx, collection, docs)
}

// ExpandPatterns resolves glob patterns to a sorted list of regular files.
// A pattern without glob characters must name an existing file.
func ExpandPatterns(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err != nil {
				return nil, fmt.Errorf("no files match %q", pattern)
			}
			matches = []string{pattern}
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil || info.IsDir() || seen[m] {
				continue
			}
			seen[m] = true
			paths = append(paths, m)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// LoadDocuments reads paths as documents identified by their path.
func LoadDocuments(paths []string) ([]Document, error) {
	docs := make([]Document, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		docs = append(docs, Document{
			ID:      p,
			Path:    p,
			Content: string(data),
		})
	}
	return docs, nil
}
