package embed

import (
	"fmt"
	"os"
	"strings"

	"github.com/mkravets/memsieve/internal/cache"
	"github.com/mkravets/memsieve/internal/embed/openai"
	"github.com/mkravets/memsieve/internal/embed/tfidf"
	"github.com/mkravets/memsieve/internal/model"
)

// NewEmbedder creates an embedding provider based on configuration
func NewEmbedder(cfg model.EmbedderConfig, cacheCfg model.CacheConfig, proxy model.ProxyConfig) (Embedder, error) {
	switch strings.ToLower(cfg.Provider) {
	case "tfidf", "":
		return tfidf.NewEmbedder(), nil

	case "openai", "ollama":
		keyEnv := cfg.APIKeyEnv
		if keyEnv == "" {
			keyEnv = "OPENAI_API_KEY"
		}
		apiKey := os.Getenv(keyEnv)
		if apiKey == "" && cfg.BaseURL == "" {
			return nil, fmt.Errorf("%s environment variable not set", keyEnv)
		}

		var embedCache cache.Cache
		if cacheCfg.Enabled {
			embedCache = cache.NewLayeredCache(cacheCfg.MemoryTTL, cacheCfg.Dir, cacheCfg.DiskTTL)
		}

		return openai.NewEmbedder(openai.Config{
			APIKey:            apiKey,
			BaseURL:           cfg.BaseURL,
			Model:             cfg.Model,
			Timeout:           cfg.Timeout,
			RequestsPerSecond: cfg.RequestsPerSecond,
			Burst:             cfg.Burst,
			HTTPProxy:         proxy.HTTPProxy,
			HTTPSProxy:        proxy.HTTPSProxy,
			NoProxy:           proxy.NoProxy,
		}, embedCache)

	default:
		return nil, fmt.Errorf("unknown embedder provider: %s (supported: tfidf, openai)", cfg.Provider)
	}
}
