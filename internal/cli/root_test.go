package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/mkravets/memsieve/internal/model"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	cfg := loadConfig()
	def := model.DefaultConfig()

	if cfg.Scoring != def.Scoring {
		t.Errorf("expected default scoring config, got %+v", cfg.Scoring)
	}
	if cfg.Retrieval != def.Retrieval {
		t.Errorf("expected default retrieval config, got %+v", cfg.Retrieval)
	}
	if cfg.Store.Provider != "memory" {
		t.Errorf("expected default store provider memory, got %s", cfg.Store.Provider)
	}
}

// Every configured key must land in the effective config, including the
// scoring weights, retrieval knobs and concurrency bounds.
func TestLoadConfig_MergesFullTree(t *testing.T) {
	t.Cleanup(viper.Reset)

	viper.Set("scoring.red_flag_penalty", 0.5)
	viper.Set("retrieval.default_limit", 3)
	viper.Set("retrieval.default_min_similarity", 0.25)
	viper.Set("concurrency.ingest_workers", 8)
	viper.Set("ingest.min_section_chars", 40)
	viper.Set("ingest.max_file_bytes", 1000)
	viper.Set("cache.memory_ttl", "10m")
	viper.Set("embedder.timeout", "45s")
	viper.Set("store.qdrant.collection", "custom_fragments")

	cfg := loadConfig()

	if cfg.Scoring.RedFlagPenalty != 0.5 {
		t.Errorf("scoring.red_flag_penalty: expected 0.5, got %f", cfg.Scoring.RedFlagPenalty)
	}
	if cfg.Retrieval.DefaultLimit != 3 {
		t.Errorf("retrieval.default_limit: expected 3, got %d", cfg.Retrieval.DefaultLimit)
	}
	if cfg.Retrieval.DefaultMinSim != 0.25 {
		t.Errorf("retrieval.default_min_similarity: expected 0.25, got %f", cfg.Retrieval.DefaultMinSim)
	}
	if cfg.Concurrency.IngestWorkers != 8 {
		t.Errorf("concurrency.ingest_workers: expected 8, got %d", cfg.Concurrency.IngestWorkers)
	}
	if cfg.Ingest.MinSectionChars != 40 {
		t.Errorf("ingest.min_section_chars: expected 40, got %d", cfg.Ingest.MinSectionChars)
	}
	if cfg.Ingest.MaxFileBytes != 1000 {
		t.Errorf("ingest.max_file_bytes: expected 1000, got %d", cfg.Ingest.MaxFileBytes)
	}
	if cfg.Cache.MemoryTTL != 10*time.Minute {
		t.Errorf("cache.memory_ttl: expected 10m, got %s", cfg.Cache.MemoryTTL)
	}
	if cfg.Embedder.Timeout != 45*time.Second {
		t.Errorf("embedder.timeout: expected 45s, got %s", cfg.Embedder.Timeout)
	}
	if cfg.Store.Qdrant.Collection != "custom_fragments" {
		t.Errorf("store.qdrant.collection: expected custom_fragments, got %s", cfg.Store.Qdrant.Collection)
	}

	// Untouched keys keep their defaults
	def := model.DefaultConfig()
	if cfg.Scoring.MarkerBonus != def.Scoring.MarkerBonus {
		t.Errorf("scoring.marker_bonus: expected default %f, got %f",
			def.Scoring.MarkerBonus, cfg.Scoring.MarkerBonus)
	}
	if cfg.Store.Provider != def.Store.Provider {
		t.Errorf("store.provider: expected default %s, got %s",
			def.Store.Provider, cfg.Store.Provider)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Cleanup(viper.Reset)

	registerDefaults()
	viper.SetEnvPrefix("MEMSIEVE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	t.Setenv("MEMSIEVE_STORE_PROVIDER", "qdrant")
	t.Setenv("MEMSIEVE_SCORING_MARKER_BONUS", "0.2")

	cfg := loadConfig()

	if cfg.Store.Provider != "qdrant" {
		t.Errorf("expected env store provider qdrant, got %s", cfg.Store.Provider)
	}
	if cfg.Scoring.MarkerBonus != 0.2 {
		t.Errorf("expected env marker bonus 0.2, got %f", cfg.Scoring.MarkerBonus)
	}
}
