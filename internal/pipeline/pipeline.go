package pipeline

import (
	"context"
	"fmt"

	"github.com/mkravets/memsieve/internal/embed"
	"github.com/mkravets/memsieve/internal/model"
	"github.com/mkravets/memsieve/internal/score"
	"github.com/mkravets/memsieve/internal/segment"
	"github.com/mkravets/memsieve/internal/store"
)

// Pipeline wires the segmenter, validator, embedder and store into the
// operations the CLI exposes: ingest, search, stats and validate.
type Pipeline struct {
	cfg       *model.Config
	segmenter *segment.Segmenter
	validator *score.Validator
	embedder  embed.Embedder
	store     store.Store
}

// New builds a pipeline from configuration
func New(cfg *model.Config) (*Pipeline, error) {
	embedder, err := embed.NewEmbedder(cfg.Embedder, cfg.Cache, cfg.Proxy)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}

	st, err := store.New(cfg.Store, cfg.Proxy, embedder)
	if err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}

	return &Pipeline{
		cfg:       cfg,
		segmenter: segment.NewSegmenter(cfg.Ingest),
		validator: score.NewValidator(cfg.Scoring),
		embedder:  embedder,
		store:     st,
	}, nil
}

// Initialize prepares the vector store backend
func (p *Pipeline) Initialize(ctx context.Context) error {
	return p.store.Initialize(ctx)
}

// Stats reports the store's aggregate snapshot
func (p *Pipeline) Stats(ctx context.Context) (*model.StoreStats, error) {
	return p.store.Stats(ctx)
}

// ValidateFragment re-evaluates a stored fragment and returns both the
// fragment and its fresh validation result. The stored score is left
// untouched; this is a diagnostic view.
func (p *Pipeline) ValidateFragment(ctx context.Context, id string) (*model.Fragment, model.ValidationResult, error) {
	frag, err := p.store.Get(ctx, id)
	if err != nil {
		return nil, model.ValidationResult{}, err
	}
	return frag, p.validator.Validate(*frag, nil), nil
}
