package model

import "time"

// Config is the complete memsieve configuration.
// Thresholds and weights are immutable after startup.
type Config struct {
	Store       StoreConfig       `yaml:"store" json:"store"`
	Embedder    EmbedderConfig    `yaml:"embedder" json:"embedder"`
	Cache       CacheConfig       `yaml:"cache" json:"cache"`
	Scoring     ScoringConfig     `yaml:"scoring" json:"scoring"`
	Ingest      IngestConfig      `yaml:"ingest" json:"ingest"`
	Retrieval   RetrievalConfig   `yaml:"retrieval" json:"retrieval"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" json:"concurrency"`
	Proxy       ProxyConfig       `yaml:"proxy" json:"proxy"`
	Output      OutputConfig      `yaml:"output" json:"output"`
}

// StoreConfig selects and configures the vector store provider
type StoreConfig struct {
	Provider string       `yaml:"provider" json:"provider"` // memory, qdrant
	Qdrant   QdrantConfig `yaml:"qdrant" json:"qdrant"`
}

// QdrantConfig configures the Qdrant REST adapter
type QdrantConfig struct {
	URL        string        `yaml:"url" json:"url"`
	APIKey     string        `yaml:"api_key" json:"api_key"`
	Collection string        `yaml:"collection" json:"collection"`
	Timeout    time.Duration `yaml:"timeout" json:"timeout"`
}

// EmbedderConfig selects and configures the embedding provider
type EmbedderConfig struct {
	Provider          string        `yaml:"provider" json:"provider"` // tfidf, openai
	Model             string        `yaml:"model" json:"model"`
	BaseURL           string        `yaml:"base_url" json:"base_url"` // Custom endpoints (e.g. Ollama)
	APIKeyEnv         string        `yaml:"api_key_env" json:"api_key_env"`
	Timeout           time.Duration `yaml:"timeout" json:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second" json:"requests_per_second"`
	Burst             int           `yaml:"burst" json:"burst"`
}

// CacheConfig configures the layered embedding cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" json:"enabled"`
	Dir       string        `yaml:"dir" json:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" json:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" json:"disk_ttl"`
}

// ScoringConfig holds every numeric constant of the authenticity
// heuristic. Defaults preserve the relative ordering the algorithm
// depends on: skeptical prior, saturation and density penalties
// dominating late-stage bonuses.
type ScoringConfig struct {
	SkepticalPrior float64 `yaml:"skeptical_prior" json:"skeptical_prior"`
	RedFlagPenalty float64 `yaml:"red_flag_penalty" json:"red_flag_penalty"`
	MarkerBonus    float64 `yaml:"marker_bonus" json:"marker_bonus"`

	OversaturationLimit   int     `yaml:"oversaturation_limit" json:"oversaturation_limit"`
	OversaturationPenalty float64 `yaml:"oversaturation_penalty" json:"oversaturation_penalty"`

	UniformityMinSentences  int     `yaml:"uniformity_min_sentences" json:"uniformity_min_sentences"`
	UniformityVarianceFloor float64 `yaml:"uniformity_variance_floor" json:"uniformity_variance_floor"`
	UniformityPenalty       float64 `yaml:"uniformity_penalty" json:"uniformity_penalty"`

	ConnectivityWeight float64 `yaml:"connectivity_weight" json:"connectivity_weight"`
	TemporalWeight     float64 `yaml:"temporal_weight" json:"temporal_weight"`

	DensityThreshold float64 `yaml:"density_threshold" json:"density_threshold"`
	DensityPenalty   float64 `yaml:"density_penalty" json:"density_penalty"`

	SpecificityBonus     float64 `yaml:"specificity_bonus" json:"specificity_bonus"`
	AbstractnessPenalty  float64 `yaml:"abstractness_penalty" json:"abstractness_penalty"`
	AbstractnessMinWords int     `yaml:"abstractness_min_words" json:"abstractness_min_words"`

	EchoPenalty           float64 `yaml:"echo_penalty" json:"echo_penalty"`
	MissingEmotionPenalty float64 `yaml:"missing_emotion_penalty" json:"missing_emotion_penalty"`
	CausalChainBonus      float64 `yaml:"causal_chain_bonus" json:"causal_chain_bonus"`

	AuthenticMin    float64 `yaml:"authentic_min" json:"authentic_min"`
	ZombieMax       float64 `yaml:"zombie_max" json:"zombie_max"`
	SuspiciousMax   float64 `yaml:"suspicious_max" json:"suspicious_max"`
	ZombieFlagCount int     `yaml:"zombie_flag_count" json:"zombie_flag_count"`
}

// IngestConfig configures the ingestion orchestrator
type IngestConfig struct {
	VerifyThreshold float64 `yaml:"verify_threshold" json:"verify_threshold"` // Score needed for authenticity_verified
	MinSectionChars int     `yaml:"min_section_chars" json:"min_section_chars"`
	MinFieldChars   int     `yaml:"min_field_chars" json:"min_field_chars"`
	MaxFileBytes    int64   `yaml:"max_file_bytes" json:"max_file_bytes"`
}

// RetrievalConfig configures the retrieval service
type RetrievalConfig struct {
	Oversample      int     `yaml:"oversample" json:"oversample"` // Candidate multiplier before filtering
	MinAuthenticity float64 `yaml:"min_authenticity" json:"min_authenticity"`
	DefaultLimit    int     `yaml:"default_limit" json:"default_limit"`
	DefaultMinSim   float64 `yaml:"default_min_similarity" json:"default_min_similarity"`
}

// ConcurrencyConfig bounds worker pools
type ConcurrencyConfig struct {
	IngestWorkers   int `yaml:"ingest_workers" json:"ingest_workers"`
	ValidateWorkers int `yaml:"validate_workers" json:"validate_workers"`
}

// ProxyConfig configures outbound HTTP proxying
type ProxyConfig struct {
	HTTPProxy  string `yaml:"http_proxy" json:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy" json:"https_proxy"`
	NoProxy    string `yaml:"no_proxy" json:"no_proxy"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" json:"verbose"`
	IncludeFooter bool `yaml:"include_footer" json:"include_footer"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Provider: "memory",
			Qdrant: QdrantConfig{
				URL:        "http://localhost:6333",
				Collection: "memsieve_fragments",
				Timeout:    15 * time.Second,
			},
		},
		Embedder: EmbedderConfig{
			Provider:          "tfidf",
			Model:             "text-embedding-3-small",
			APIKeyEnv:         "OPENAI_API_KEY",
			Timeout:           30 * time.Second,
			RequestsPerSecond: 5,
			Burst:             5,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "",
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Scoring: ScoringConfig{
			SkepticalPrior: 0.4,
			RedFlagPenalty: 0.15,
			MarkerBonus:    0.12,

			OversaturationLimit:   5,
			OversaturationPenalty: 0.1,

			UniformityMinSentences:  3,
			UniformityVarianceFloor: 5.0,
			UniformityPenalty:       0.08,

			ConnectivityWeight: 0.2,
			TemporalWeight:     0.1,

			DensityThreshold: 0.08,
			DensityPenalty:   0.4,

			SpecificityBonus:     0.05,
			AbstractnessPenalty:  0.1,
			AbstractnessMinWords: 50,

			EchoPenalty:           0.1,
			MissingEmotionPenalty: 0.15,
			CausalChainBonus:      0.05,

			AuthenticMin:    0.7,
			ZombieMax:       0.3,
			SuspiciousMax:   0.5,
			ZombieFlagCount: 3,
		},
		Ingest: IngestConfig{
			VerifyThreshold: 0.7,
			MinSectionChars: 100,
			MinFieldChars:   50,
			MaxFileBytes:    2_000_000,
		},
		Retrieval: RetrievalConfig{
			Oversample:      2,
			MinAuthenticity: 0.0,
			DefaultLimit:    10,
			DefaultMinSim:   0.0,
		},
		Concurrency: ConcurrencyConfig{
			IngestWorkers:   4,
			ValidateWorkers: 4,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
