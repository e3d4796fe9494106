package model

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fragment is a single retrievable unit of memory text
type Fragment struct {
	ID        string         `json:"id"`                  // Content-derived identifier (stable across re-scoring)
	Content   string         `json:"content"`             // The scoring and embedding subject
	Embedding []float32      `json:"embedding,omitempty"` // Optional fixed-length vector
	Metadata  map[string]any `json:"metadata,omitempty"`  // Open metadata: source file, section title, structural flags
	Source    string         `json:"source,omitempty"`    // Originating document name
	Timestamp string         `json:"timestamp,omitempty"` // ISO date string, informational only

	AuthenticityScore    *float64 `json:"authenticity_score,omitempty"` // In [0,1]; nil means not yet evaluated
	AuthenticityVerified bool     `json:"authenticity_verified"`        // Score present and >= the ingest threshold
}

// FragmentID derives a stable identifier from fragment content.
// Identical content always yields the same ID, so re-ingesting an
// unchanged document never duplicates entries.
func FragmentID(content string) string {
	sum := sha256.Sum256([]byte(content))
	return "mem_" + hex.EncodeToString(sum[:])[:16]
}

// SetScore records an authenticity score and updates the verified flag
// against the given threshold. Identity is untouched.
func (f *Fragment) SetScore(score float64, threshold float64) {
	f.AuthenticityScore = &score
	f.AuthenticityVerified = score >= threshold
}

// Scored reports whether the fragment has been evaluated
func (f *Fragment) Scored() bool {
	return f.AuthenticityScore != nil
}

// MetaBool reads a boolean metadata flag, tolerating absent keys
func (f *Fragment) MetaBool(key string) bool {
	if f.Metadata == nil {
		return false
	}
	v, ok := f.Metadata[key].(bool)
	return ok && v
}

// SearchResult pairs a fragment with its similarity to a query
type SearchResult struct {
	Fragment   Fragment `json:"fragment"`
	Similarity float64  `json:"similarity"` // In [0,1], descending order in result lists
}
