package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/http"
	"time"

	"github.com/mkravets/memsieve/internal/embed"
	"github.com/mkravets/memsieve/internal/model"
	"github.com/mkravets/memsieve/internal/util"
)

// Config configures the Qdrant REST adapter
type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// Store is a minimal REST client to Qdrant. It assumes cosine distance
// and creates the collection lazily, once the embedding dimension is
// known. Fragment IDs are strings, so each point gets a derived numeric
// ID and carries the fragment ID in its payload.
type Store struct {
	url        string
	apiKey     string
	collection string
	client     *http.Client
	embedder   embed.Embedder

	ready   bool
	created bool
}

// statsSampleSize bounds the scroll used to estimate score statistics
const statsSampleSize = 200

// New creates a Qdrant-backed store
func New(cfg Config, embedder embed.Embedder) *Store {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Store{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		embedder:   embedder,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
			},
		},
	}
}

// Initialize creates the collection if the embedding dimension is
// already known; otherwise creation is deferred to the first Add.
func (s *Store) Initialize(ctx context.Context) error {
	if dim := s.embedder.Dimension(); dim > 0 {
		if err := s.ensureCollection(ctx, dim); err != nil {
			return err
		}
	}
	s.ready = true
	return nil
}

// Add embeds and upserts fragments. Point IDs derive from fragment IDs,
// so re-adding the same content overwrites instead of duplicating.
func (s *Store) Add(ctx context.Context, fragments []model.Fragment) error {
	if !s.ready {
		return model.ErrStoreNotReady
	}
	if len(fragments) == 0 {
		return nil
	}

	points := make([]map[string]any, 0, len(fragments))
	for _, f := range fragments {
		vec := f.Embedding
		if len(vec) == 0 {
			v, err := s.embedder.Embed(ctx, f.Content)
			if err != nil {
				return fmt.Errorf("embed fragment %s: %w", f.ID, err)
			}
			vec = v
		}

		if !s.created {
			if err := s.ensureCollection(ctx, len(vec)); err != nil {
				return err
			}
		}

		payload := map[string]any{
			"id":                    f.ID,
			"content":               f.Content,
			"source":                f.Source,
			"timestamp":             f.Timestamp,
			"authenticity_verified": f.AuthenticityVerified,
		}
		if f.AuthenticityScore != nil {
			payload["authenticity_score"] = *f.AuthenticityScore
		}
		if len(f.Metadata) > 0 {
			payload["metadata"] = f.Metadata
		}

		points = append(points, map[string]any{
			"id":      pointID(f.ID),
			"vector":  vec,
			"payload": payload,
		})
	}

	body := map[string]any{"points": points}
	return s.putJSON(ctx, fmt.Sprintf("%s/collections/%s/points?wait=true", s.url, s.collection), body, nil)
}

// Search embeds the query and runs a similarity search with the
// threshold pushed down to Qdrant.
func (s *Store) Search(ctx context.Context, query string, limit int, minSimilarity float64) ([]model.SearchResult, error) {
	if !s.ready {
		return nil, model.ErrStoreNotReady
	}
	if limit <= 0 {
		limit = 10
	}

	qvec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	req := map[string]any{
		"vector":       qvec,
		"limit":        limit,
		"with_payload": true,
	}
	if minSimilarity > 0 {
		req["score_threshold"] = minSimilarity
	}

	var resp struct {
		Result []struct {
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := s.postJSON(ctx, fmt.Sprintf("%s/collections/%s/points/search", s.url, s.collection), req, &resp); err != nil {
		return nil, err
	}

	results := make([]model.SearchResult, 0, len(resp.Result))
	for _, r := range resp.Result {
		results = append(results, model.SearchResult{
			Fragment:   fragmentFromPayload(r.Payload),
			Similarity: r.Score,
		})
	}
	return results, nil
}

// Get scrolls for the point whose payload carries the given fragment ID
func (s *Store) Get(ctx context.Context, id string) (*model.Fragment, error) {
	if !s.ready {
		return nil, model.ErrStoreNotReady
	}

	req := map[string]any{
		"filter":       idFilter(id),
		"limit":        1,
		"with_payload": true,
	}
	var resp struct {
		Result struct {
			Points []struct {
				Payload map[string]any `json:"payload"`
			} `json:"points"`
		} `json:"result"`
	}
	if err := s.postJSON(ctx, fmt.Sprintf("%s/collections/%s/points/scroll", s.url, s.collection), req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Result.Points) == 0 {
		return nil, fmt.Errorf("%w: %s", model.ErrFragmentNotFound, id)
	}

	f := fragmentFromPayload(resp.Result.Points[0].Payload)
	return &f, nil
}

// Delete removes the point carrying the given fragment ID
func (s *Store) Delete(ctx context.Context, id string) error {
	if !s.ready {
		return model.ErrStoreNotReady
	}

	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	req := map[string]any{"filter": idFilter(id)}
	return s.postJSON(ctx, fmt.Sprintf("%s/collections/%s/points/delete?wait=true", s.url, s.collection), req, nil)
}

// Stats combines an exact count with a bounded payload sample for the
// score and source aggregates.
func (s *Store) Stats(ctx context.Context) (*model.StoreStats, error) {
	if !s.ready {
		return nil, model.ErrStoreNotReady
	}

	var countResp struct {
		Result struct {
			Count int `json:"count"`
		} `json:"result"`
	}
	if err := s.postJSON(ctx, fmt.Sprintf("%s/collections/%s/points/count", s.url, s.collection),
		map[string]any{"exact": true}, &countResp); err != nil {
		return nil, err
	}

	stats := &model.StoreStats{
		TotalFragments: countResp.Result.Count,
		Status:         "healthy",
	}
	if stats.TotalFragments == 0 {
		stats.Status = "empty"
		return stats, nil
	}

	req := map[string]any{
		"limit":        statsSampleSize,
		"with_payload": true,
	}
	var scrollResp struct {
		Result struct {
			Points []struct {
				Payload map[string]any `json:"payload"`
			} `json:"points"`
		} `json:"result"`
	}
	if err := s.postJSON(ctx, fmt.Sprintf("%s/collections/%s/points/scroll", s.url, s.collection), req, &scrollResp); err != nil {
		return nil, err
	}

	sources := make(map[string]struct{})
	var sum float64
	var scored, verified int
	for _, p := range scrollResp.Result.Points {
		f := fragmentFromPayload(p.Payload)
		if f.AuthenticityVerified {
			verified++
		}
		if f.AuthenticityScore != nil {
			sum += *f.AuthenticityScore
			scored++
		}
		if f.Source != "" {
			sources[f.Source] = struct{}{}
		}
	}

	// Sample ratios scaled up to the exact total
	sample := len(scrollResp.Result.Points)
	if sample > 0 {
		stats.VerifiedFragments = verified * stats.TotalFragments / sample
	}
	if scored > 0 {
		stats.AverageScore = sum / float64(scored)
	}
	stats.UniqueSources = len(sources)
	return stats, nil
}

func (s *Store) ensureCollection(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("invalid embedding dimension: %d", dimension)
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	status, err := s.doJSON(ctx, http.MethodPut, fmt.Sprintf("%s/collections/%s", s.url, s.collection), body, nil)
	if err != nil {
		return err
	}
	// 409 means the collection already exists
	if status >= 300 && status != http.StatusConflict {
		return fmt.Errorf("create collection %s: status %d", s.collection, status)
	}
	s.created = true
	return nil
}

func (s *Store) putJSON(ctx context.Context, url string, body, out any) error {
	status, err := s.doJSON(ctx, http.MethodPut, url, body, out)
	if err != nil {
		return err
	}
	if status >= 300 {
		return fmt.Errorf("qdrant PUT %s: status %d", url, status)
	}
	return nil
}

func (s *Store) postJSON(ctx context.Context, url string, body, out any) error {
	status, err := s.doJSON(ctx, http.MethodPost, url, body, out)
	if err != nil {
		return err
	}
	if status >= 300 {
		return fmt.Errorf("qdrant POST %s: status %d", url, status)
	}
	return nil
}

func (s *Store) doJSON(ctx context.Context, method, url string, body, out any) (int, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(data))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// pointID derives a stable numeric point ID from a fragment ID
func pointID(id string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(id))
	return h.Sum64()
}

func idFilter(id string) map[string]any {
	return map[string]any{
		"must": []map[string]any{
			{"key": "id", "match": map[string]any{"value": id}},
		},
	}
}

func fragmentFromPayload(payload map[string]any) model.Fragment {
	f := model.Fragment{}
	if v, ok := payload["id"].(string); ok {
		f.ID = v
	}
	if v, ok := payload["content"].(string); ok {
		f.Content = v
	}
	if v, ok := payload["source"].(string); ok {
		f.Source = v
	}
	if v, ok := payload["timestamp"].(string); ok {
		f.Timestamp = v
	}
	if v, ok := payload["authenticity_verified"].(bool); ok {
		f.AuthenticityVerified = v
	}
	if v, ok := payload["authenticity_score"].(float64); ok {
		f.AuthenticityScore = &v
	}
	if v, ok := payload["metadata"].(map[string]any); ok {
		f.Metadata = v
	}
	return f
}
