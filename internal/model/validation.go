package model

// Category classifies the outcome of one authenticity evaluation
type Category string

const (
	CategoryAuthentic    Category = "authentic"    // High score, no red flags
	CategoryZombie       Category = "zombie"       // Floor score or saturated red flags
	CategorySuspicious   Category = "suspicious"   // Low score with at least one red flag
	CategoryInconclusive Category = "inconclusive" // Everything in between
)

// ValidationResult is the output of a single authenticity evaluation
type ValidationResult struct {
	AuthenticityScore   float64  `json:"authenticity_score"`   // Clamped to [0,1]
	Confidence          float64  `json:"confidence"`           // In [0,1]; grows with evidence examined
	RedFlags            []string `json:"red_flags"`            // Matched negative-signal labels
	AuthenticityMarkers []string `json:"authenticity_markers"` // Matched positive-signal labels
	Category            Category `json:"category"`
	Reasoning           string   `json:"reasoning"` // Trace of which signal groups fired
}

// IngestReport aggregates one directory ingestion run
type IngestReport struct {
	TotalFiles        int      `json:"total_files"`
	ProcessedFiles    int      `json:"processed_files"`
	TotalFragments    int      `json:"total_fragments"`
	VerifiedFragments int      `json:"verified_fragments"`
	Errors            []string `json:"errors,omitempty"` // Recoverable per-document errors
	Sources           []string `json:"sources,omitempty"`
}

// StoreStats is the aggregate snapshot reported by a vector store
type StoreStats struct {
	TotalFragments    int     `json:"total_fragments"`
	VerifiedFragments int     `json:"verified_fragments"`
	AverageScore      float64 `json:"average_score"`
	UniqueSources     int     `json:"unique_sources"`
	Status            string  `json:"status"` // healthy, empty, not_ready
}
