package qdrant

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/longkey1/chenai/internal/vectorstore"
)

// Storage is a minimal REST client to Qdrant.
// It assumes cosine distance and creates collections if missing.
type Storage struct {
	client *resty.Client
}

type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

var _ vectorstore.Storage = (*Storage)(nil)

type searchResponse struct {
	Result []struct {
		Score   float64 `json:"score"`
		Payload struct {
			DocumentID string `json:"document_id"`
			ChunkID    string `json:"chunk_id"`
			Index      int    `json:"index"`
			Text       string `json:"text"`
		} `json:"payload"`
	} `json:"result"`
}

func NewStorage(cfg Config) *Storage {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.URL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		client.SetHeader("api-key", cfg.APIKey)
	}
	return &Storage{client: client}
}

func (s *Storage) Init(ctx context.Context, collection string, dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	resp, err := s.client.R().
		SetContext(ctx).
		SetPathParam("collection", collection).
		SetBody(body).
		Put("/collections/{collection}")
	if err != nil {
		return fmt.Errorf("qdrant create collection %s: %w", collection, err)
	}
	// 409: the collection already exists
	if resp.IsError() && resp.StatusCode() != http.StatusConflict {
		return fmt.Errorf("qdrant create collection %s failed: %s", collection, resp.Status())
	}
	return nil
}

func (s *Storage) Upsert(ctx context.Context, collection string, chunks []vectorstore.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	points := make([]map[string]any, len(chunks))
	for i := range chunks {
		points[i] = map[string]any{
			"id":     PointID(chunks[i].ChunkID),
			"vector": vectors[i],
			"payload": map[string]any{
				"document_id": chunks[i].DocumentID,
				"chunk_id":    chunks[i].ChunkID,
				"index":       chunks[i].Index,
				"text":        chunks[i].Text,
			},
		}
	}
	resp, err := s.client.R().
		SetContext(ctx).
		SetPathParam("collection", collection).
		SetQueryParam("wait", "true").
		SetBody(map[string]any{"points": points}).
		Put("/collections/{collection}/points")
	if err != nil {
		return fmt.Errorf("qdrant upsert into %s: %w", collection, err)
	}
	if resp.IsError() {
		return fmt.Errorf("qdrant upsert into %s failed: %s", collection, resp.Status())
	}
	return nil
}

func (s *Storage) Search(ctx context.Context, collection string, vector []float32, topK int) ([]vectorstore.SearchResult, error) {
	if topK <= 0 {
		topK = 5
	}
	var out searchResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetPathParam("collection", collection).
		SetBody(map[string]any{
			"vector":       vector,
			"limit":        topK,
			"with_payload": true,
		}).
		SetResult(&out).
		Post("/collections/{collection}/points/search")
	if err != nil {
		return nil, fmt.Errorf("qdrant search %s: %w", collection, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", vectorstore.ErrCollectionNotFound, collection)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("qdrant search %s failed: %s", collection, resp.Status())
	}

	results := make([]vectorstore.SearchResult, 0, len(out.Result))
	for _, r := range out.Result {
		results = append(results, vectorstore.SearchResult{
			Chunk: vectorstore.Chunk{
				DocumentID: r.Payload.DocumentID,
				ChunkID:    r.Payload.ChunkID,
				Index:      r.Payload.Index,
				Text:       r.Payload.Text,
			},
			Score: r.Score,
		})
	}
	return results, nil
}

func (s *Storage) Clear(ctx context.Context, collection string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetPathParam("collection", collection).
		Delete("/collections/{collection}")
	if err != nil {
		return fmt.Errorf("qdrant delete collection %s: %w", collection, err)
	}
	if resp.IsError() && resp.StatusCode() != http.StatusNotFound {
		return fmt.Errorf("qdrant delete collection %s failed: %s", collection, resp.Status())
	}
	return nil
}

// PointID maps a chunk id to the UUID Qdrant stores it under. Qdrant only
// accepts unsigned integers or UUIDs as point ids.
func PointID(chunkID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("chenai:"+chunkID)).String()
}
