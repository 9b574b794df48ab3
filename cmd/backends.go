package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/longkey1/chenai/internal/chenai/config"
	"github.com/longkey1/chenai/internal/chenai/engine"
	"github.com/longkey1/chenai/internal/chenai/prompt"
	"github.com/longkey1/chenai/internal/chenai/router"
	"github.com/longkey1/chenai/internal/docsearch"
	"github.com/longkey1/chenai/internal/llm"
	"github.com/longkey1/chenai/internal/logger"
	"github.com/longkey1/chenai/internal/vectorstore"
	"github.com/longkey1/chenai/internal/vectorstore/memory"
	"github.com/longkey1/chenai/internal/vectorstore/qdrant"
	"github.com/longkey1/chenai/internal/websearch"
)

// newVectorStore creates the vector store selected by cfg.VectorStore
func newVectorStore(cfg *config.Config) vectorstore.Storage {
	if cfg.VectorStore == config.VectorStoreQdrant {
		return qdrant.NewStorage(qdrant.Config{
			URL:    cfg.QdrantURL,
			APIKey: cfg.QdrantAPIKey,
		})
	}
	return memory.NewStorage()
}

// newDocSearch creates the document search service and, for the in-memory
// store, ingests the collections listed in the configuration.
func newDocSearch(ctx context.Context, cfg *config.Config) (*docsearch.Service, error) {
	embedder, err := llm.NewOllamaEmbedder(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}
	svc := docsearch.NewService(newVectorStore(cfg), embedder)

	if cfg.VectorStore == config.VectorStoreMemory {
		for name, patterns := range cfg.Collections {
			if _, err := svc.IngestFiles(ctx, name, patterns); err != nil {
				// The assistant still works without this collection
				logger.Warn("failed to ingest collection", "collection", name, "error", err)
			}
		}
	}
	return svc, nil
}

// newWebSearch creates the web search client.
func newWebSearch(cfg *config.Config) *websearch.Client {
	return websearch.New(
		websearch.WithMaxResults(cfg.WebSearchMaxResults),
		websearch.WithTimeout(time.Duration(cfg.WebSearchTimeoutSecs)*time.Second),
	)
}

// newEngine wires every backend selected by cfg into a turn engine.
func newEngine(ctx context.Context, cfg *config.Config, opts ...engine.Option) (*engine.Engine, error) {
	model, err := llm.NewModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating model: %w", err)
	}

	docs, err := newDocSearch(ctx, cfg)
	if err != nil {
		return nil, err
	}

	fallback, err := router.ParseTarget(cfg.RouterFallback)
	if err != nil {
		return nil, err
	}

	templates := prompt.Default()
	if cfg.PromptFile != "" {
		templates, err = prompt.LoadPrompt(cfg.PromptFile)
		if err != nil {
			return nil, fmt.Errorf("loading prompt file: %w", err)
		}
		if err := templates.Validate(); err != nil {
			return nil, fmt.Errorf("invalid prompt file %s: %w", cfg.PromptFile, err)
		}
	}

	base := []engine.Option{
		engine.WithModel(cfg.Model),
		engine.WithRouter(router.New(router.WithFallback(fallback))),
		engine.WithTemplates(templates),
	}
	return engine.New(llm.NewCompleter(model), docs, newWebSearch(cfg), append(base, opts...)...), nil
}

// newOllamaClient creates a client for the Ollama management API.
func newOllamaClient(cfg *config.Config) (*llm.OllamaClient, error) {
	baseURL, err := cfg.GetBaseURL("ollama")
	if err != nil {
		return nil, err
	}
	return llm.NewOllamaClient(baseURL, 5*time.Second), nil
}
