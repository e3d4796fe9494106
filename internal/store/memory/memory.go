package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/mkravets/memsieve/internal/embed"
	"github.com/mkravets/memsieve/internal/model"
)

// Store is an in-memory vector store using brute-force cosine
// similarity. Vectors are rebuilt lazily: adds mark the index dirty
// and the next search re-prepares the embedder over the full corpus,
// which keeps corpus-derived embedders (TF-IDF) consistent as
// fragments arrive.
type Store struct {
	embedder embed.Embedder

	mu        sync.RWMutex
	fragments map[string]model.Fragment
	order     []string // insertion order, stable corpus for Prepare
	vectors   map[string][]float32
	dirty     bool
	ready     bool
}

// New creates an empty in-memory store
func New(embedder embed.Embedder) *Store {
	return &Store{
		embedder:  embedder,
		fragments: make(map[string]model.Fragment),
		vectors:   make(map[string][]float32),
	}
}

// Initialize marks the store ready. No external resources are needed.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = true
	return nil
}

// Add upserts fragments. Re-adding an existing ID replaces the entry,
// so updated scores land on the same fragment instead of duplicating it.
func (s *Store) Add(ctx context.Context, fragments []model.Fragment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return model.ErrStoreNotReady
	}

	for _, f := range fragments {
		if f.ID == "" {
			return fmt.Errorf("fragment with empty ID")
		}
		if _, exists := s.fragments[f.ID]; !exists {
			s.order = append(s.order, f.ID)
			s.dirty = true
		}
		s.fragments[f.ID] = f
	}
	return nil
}

// Search embeds the query and returns fragments ordered by descending
// cosine similarity, dropping anything below minSimilarity.
func (s *Store) Search(ctx context.Context, query string, limit int, minSimilarity float64) ([]model.SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return nil, model.ErrStoreNotReady
	}
	if limit <= 0 {
		limit = 10
	}
	if len(s.fragments) == 0 {
		return []model.SearchResult{}, nil
	}

	if err := s.rebuildLocked(ctx); err != nil {
		return nil, err
	}

	qvec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results := make([]model.SearchResult, 0, len(s.order))
	for _, id := range s.order {
		sim := cosine(qvec, s.vectors[id])
		if sim < minSimilarity {
			continue
		}
		results = append(results, model.SearchResult{
			Fragment:   s.fragments[id],
			Similarity: sim,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Get returns a copy of the fragment with the given ID
func (s *Store) Get(ctx context.Context, id string) (*model.Fragment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ready {
		return nil, model.ErrStoreNotReady
	}

	f, ok := s.fragments[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrFragmentNotFound, id)
	}
	return &f, nil
}

// Delete removes the fragment with the given ID
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return model.ErrStoreNotReady
	}

	if _, ok := s.fragments[id]; !ok {
		return fmt.Errorf("%w: %s", model.ErrFragmentNotFound, id)
	}
	delete(s.fragments, id)
	delete(s.vectors, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.dirty = true
	return nil
}

// Stats reports totals, score averages and source coverage
func (s *Store) Stats(ctx context.Context) (*model.StoreStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ready {
		return nil, model.ErrStoreNotReady
	}

	stats := &model.StoreStats{
		TotalFragments: len(s.fragments),
		Status:         "healthy",
	}
	if len(s.fragments) == 0 {
		stats.Status = "empty"
		return stats, nil
	}

	sources := make(map[string]struct{})
	var sum float64
	var scored int
	for _, f := range s.fragments {
		if f.AuthenticityVerified {
			stats.VerifiedFragments++
		}
		if f.AuthenticityScore != nil {
			sum += *f.AuthenticityScore
			scored++
		}
		if f.Source != "" {
			sources[f.Source] = struct{}{}
		}
	}
	if scored > 0 {
		stats.AverageScore = sum / float64(scored)
	}
	stats.UniqueSources = len(sources)
	return stats, nil
}

// rebuildLocked re-prepares the embedder over the current corpus and
// re-embeds every fragment. Caller holds the write lock.
func (s *Store) rebuildLocked(ctx context.Context) error {
	if !s.dirty {
		return nil
	}

	corpus := make([]string, len(s.order))
	for i, id := range s.order {
		corpus[i] = s.fragments[id].Content
	}
	if err := s.embedder.Prepare(corpus); err != nil {
		return fmt.Errorf("prepare embedder: %w", err)
	}

	vectors := make(map[string][]float32, len(s.order))
	for _, id := range s.order {
		vec, err := s.embedder.Embed(ctx, s.fragments[id].Content)
		if err != nil {
			return fmt.Errorf("embed fragment %s: %w", id, err)
		}
		vectors[id] = vec
	}
	s.vectors = vectors
	s.dirty = false
	return nil
}

// cosine computes cosine similarity without assuming unit vectors
func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
