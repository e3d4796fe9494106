package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/mkravets/memsieve/internal/cache"
	"github.com/mkravets/memsieve/internal/util"
)

// Config configures the OpenAI-compatible embeddings provider.
// A custom BaseURL points it at any compatible endpoint (e.g. Ollama).
type Config struct {
	APIKey            string
	BaseURL           string
	Model             string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// Embedder calls a remote embeddings API. Requests are rate limited and
// results are cached by content hash, so re-embedding identical text
// costs nothing.
type Embedder struct {
	client    *openai.Client
	model     string
	limiter   *rate.Limiter
	cache     cache.Cache
	dimension int
}

// NewEmbedder creates a remote embedder. The cache may be nil.
func NewEmbedder(cfg Config, embedCache cache.Cache) (*Embedder, error) {
	if cfg.APIKey == "" && cfg.BaseURL == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
		},
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 5
	}

	model := cfg.Model
	if model == "" {
		model = string(openai.SmallEmbedding3)
	}

	return &Embedder{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   model,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		cache:   embedCache,
	}, nil
}

// Name returns the provider name
func (e *Embedder) Name() string { return "openai" }

// Prepare is a no-op; the dimension is learned on first embed
func (e *Embedder) Prepare(corpus []string) error { return nil }

// Dimension returns the vector length seen so far, or 0
func (e *Embedder) Dimension() int { return e.dimension }

// Embed returns the embedding vector for the given text
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := cache.Key(text)

	if e.cache != nil {
		if data, ok := e.cache.Get(key); ok {
			var vec []float32
			if err := json.Unmarshal(data, &vec); err == nil && len(vec) > 0 {
				if e.dimension == 0 {
					e.dimension = len(vec)
				}
				return vec, nil
			}
		}
	}

	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("create embedding: %w", err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}

	vec := resp.Data[0].Embedding
	if e.dimension == 0 {
		e.dimension = len(vec)
	}

	if e.cache != nil {
		if data, err := json.Marshal(vec); err == nil {
			_ = e.cache.Set(key, data, 0)
		}
	}

	return vec, nil
}
