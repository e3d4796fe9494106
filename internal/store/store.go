package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/mkravets/memsieve/internal/embed"
	"github.com/mkravets/memsieve/internal/model"
	"github.com/mkravets/memsieve/internal/store/memory"
	"github.com/mkravets/memsieve/internal/store/qdrant"
)

// Store persists fragments with their embeddings and answers
// similarity queries. Add is an idempotent upsert: re-adding a
// fragment with the same content-derived ID replaces the entry
// rather than duplicating it.
type Store interface {
	// Initialize prepares the backend. Every other method returns
	// model.ErrStoreNotReady until it has been called.
	Initialize(ctx context.Context) error

	// Add upserts fragments, embedding their content as needed
	Add(ctx context.Context, fragments []model.Fragment) error

	// Search embeds the query and returns up to limit fragments with
	// similarity >= minSimilarity, ordered by descending similarity
	Search(ctx context.Context, query string, limit int, minSimilarity float64) ([]model.SearchResult, error)

	// Get returns the fragment with the given ID, or model.ErrFragmentNotFound
	Get(ctx context.Context, id string) (*model.Fragment, error)

	// Delete removes the fragment with the given ID
	Delete(ctx context.Context, id string) error

	// Stats reports an aggregate snapshot of the stored corpus
	Stats(ctx context.Context) (*model.StoreStats, error)
}

// New creates a store backend based on configuration
func New(cfg model.StoreConfig, proxy model.ProxyConfig, embedder embed.Embedder) (Store, error) {
	switch strings.ToLower(cfg.Provider) {
	case "memory", "":
		return memory.New(embedder), nil

	case "qdrant":
		return qdrant.New(qdrant.Config{
			URL:        cfg.Qdrant.URL,
			APIKey:     cfg.Qdrant.APIKey,
			Collection: cfg.Qdrant.Collection,
			Timeout:    cfg.Qdrant.Timeout,
			HTTPProxy:  proxy.HTTPProxy,
			HTTPSProxy: proxy.HTTPSProxy,
			NoProxy:    proxy.NoProxy,
		}, embedder), nil

	default:
		return nil, fmt.Errorf("unknown store provider: %s (supported: memory, qdrant)", cfg.Provider)
	}
}
