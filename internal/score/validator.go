package score

import (
	"fmt"
	"strings"

	"github.com/mkravets/memsieve/internal/model"
)

// Validator scores fragment authenticity with a deliberately adversarial
// heuristic: every positive-signal group has a corresponding saturation
// or density penalty, so mechanically inserting every known marker does
// not buy a high score.
type Validator struct {
	cfg          model.ScoringConfig
	redFlags     []Category
	markers      []Category
	connectivity []Category
	specificity  []Pattern
}

// NewValidator creates a validator with the given weights
func NewValidator(cfg model.ScoringConfig) *Validator {
	return &Validator{
		cfg:          cfg,
		redFlags:     redFlagTaxonomy,
		markers:      markerTaxonomy,
		connectivity: connectivityTaxonomy,
		specificity:  specificityPatterns,
	}
}

// Validate evaluates one fragment, optionally using peer fragments as
// connectivity context. Pure CPU work; never fails.
func (v *Validator) Validate(frag model.Fragment, peers []model.Fragment) model.ValidationResult {
	content := strings.ToLower(frag.Content)
	if strings.TrimSpace(content) == "" {
		// Floor score directly, no pattern passes
		return model.ValidationResult{
			AuthenticityScore:   0.0,
			Confidence:          0.5,
			RedFlags:            []string{},
			AuthenticityMarkers: []string{},
			Category:            model.CategoryZombie,
			Reasoning:           "Score: 0.00. Analysis: empty content",
		}
	}

	words := strings.Fields(content)
	score := v.cfg.SkepticalPrior

	var (
		redFlags     []string
		markers      []string
		reasoning    []string
		emotionCount int
	)

	// Negative signal pass
	for _, cat := range v.redFlags {
		matched := 0
		for _, p := range cat.Patterns {
			if p.Match(content) {
				redFlags = append(redFlags, cat.Name+":"+p.Raw)
				score -= v.cfg.RedFlagPenalty
				matched++
			}
		}
		if matched > 0 {
			reasoning = append(reasoning, fmt.Sprintf("red flags in %s: %d", cat.Name, matched))
		}
	}

	// Positive signal pass
	temporalHits := 0
	for _, cat := range v.markers {
		matched := 0
		for _, p := range cat.Patterns {
			if p.Match(content) {
				markers = append(markers, cat.Name+":"+p.Raw)
				score += v.cfg.MarkerBonus
				matched++
			}
		}
		if matched > 0 {
			reasoning = append(reasoning, fmt.Sprintf("markers in %s: %d", cat.Name, matched))
		}
		switch cat.Name {
		case "genuine_emotion":
			emotionCount = matched
		case "temporal_authenticity":
			temporalHits = matched
		}
	}

	// Over-saturation: authentic text rarely hits every marker at once
	if len(markers) > v.cfg.OversaturationLimit {
		score -= v.cfg.OversaturationPenalty
		redFlags = append(redFlags, FlagMarkerOversaturation)
		reasoning = append(reasoning, "suspicious: too many experience markers")
	}

	// Structural uniformity: clinical prose has even sentence lengths
	if variance, ok := sentenceLengthVariance(content, v.cfg.UniformityMinSentences); ok && variance < v.cfg.UniformityVarianceFloor {
		score -= v.cfg.UniformityPenalty
		redFlags = append(redFlags, FlagStructuralUniformity)
		reasoning = append(reasoning, "suspicious: unnaturally uniform sentence structure")
	}

	// Connectivity bonus, only with peer context
	if len(peers) > 0 {
		connectivity := v.connectivityScore(frag, content, peers)
		score += connectivity * v.cfg.ConnectivityWeight
		reasoning = append(reasoning, fmt.Sprintf("connectivity: %.2f", connectivity))
	}

	// Temporal consistency bonus
	temporal := min(1.0, 0.2*float64(temporalHits))
	score += temporal * v.cfg.TemporalWeight
	reasoning = append(reasoning, fmt.Sprintf("temporal consistency: %.2f", temporal))

	// Density over-optimization: short but marker-dense text is
	// constructed to pass the test, not lived
	if density := float64(len(markers)) / float64(len(words)); density > v.cfg.DensityThreshold {
		score -= v.cfg.DensityPenalty
		redFlags = append(redFlags, FlagMarkerOveroptimization)
		reasoning = append(reasoning, fmt.Sprintf("heavy penalty: marker density %.0f%%", density*100))
	}

	// Specificity: concrete detail up, long abstraction down
	if v.anySpecificity(content) {
		score += v.cfg.SpecificityBonus
	} else if len(words) > v.cfg.AbstractnessMinWords {
		score -= v.cfg.AbstractnessPenalty
		reasoning = append(reasoning, "long abstract content without concrete detail")
	}

	// Echo: content that restates its own provenance verbatim
	if src := strings.ToLower(frag.Source); src != "" && strings.Contains(content, src) {
		score -= v.cfg.EchoPenalty
		reasoning = append(reasoning, "source label echoed in content")
	}

	// Correlation with the segmenter's structural flags
	if frag.MetaBool("emotional_context") && emotionCount == 0 {
		score -= v.cfg.MissingEmotionPenalty
		reasoning = append(reasoning, "emotional flag without emotion markers")
	}
	if frag.MetaBool("causal_chain") {
		score += v.cfg.CausalChainBonus
	}

	score = clamp01(score)

	confidence := min(1.0, 0.5+0.8*abs(score-0.5)+0.05*float64(len(reasoning)))

	category := v.categorize(score, len(redFlags))

	if redFlags == nil {
		redFlags = []string{}
	}
	if markers == nil {
		markers = []string{}
	}

	return model.ValidationResult{
		AuthenticityScore:   score,
		Confidence:          confidence,
		RedFlags:            redFlags,
		AuthenticityMarkers: markers,
		Category:            category,
		Reasoning:           fmt.Sprintf("Score: %.2f. Analysis: %s", score, strings.Join(reasoning, "; ")),
	}
}

// connectivityScore measures how naturally the fragment ties into its
// peers: vocabulary overlap plus cross-reference phrasing.
func (v *Validator) connectivityScore(frag model.Fragment, content string, peers []model.Fragment) float64 {
	fragWords := wordSet(content)

	references := 0
	for _, peer := range peers {
		if peer.ID == frag.ID {
			continue
		}
		overlap := 0
		for word := range wordSet(strings.ToLower(peer.Content)) {
			if _, ok := fragWords[word]; ok {
				overlap++
				if overlap > 3 {
					break
				}
			}
		}
		if overlap > 3 {
			references++
		}
	}

	connectivity := 0.0
	for _, cat := range v.connectivity {
		weight := 0.10
		if cat.Name == "causal_chains" {
			weight = 0.15
		}
		for _, p := range cat.Patterns {
			if p.Match(content) {
				connectivity += weight
			}
		}
	}

	if references > 0 {
		connectivity += min(0.3, 0.1*float64(references))
	}

	return min(1.0, connectivity)
}

func (v *Validator) anySpecificity(content string) bool {
	for _, p := range v.specificity {
		if p.Match(content) {
			return true
		}
	}
	return false
}

func (v *Validator) categorize(score float64, flagCount int) model.Category {
	switch {
	case score >= v.cfg.AuthenticMin && flagCount == 0:
		return model.CategoryAuthentic
	case score <= v.cfg.ZombieMax || flagCount >= v.cfg.ZombieFlagCount:
		return model.CategoryZombie
	case score <= v.cfg.SuspiciousMax && flagCount >= 1:
		return model.CategorySuspicious
	default:
		return model.CategoryInconclusive
	}
}

// sentenceLengthVariance computes the word-count variance over sentences
// longer than 10 characters. The second return value is false when there
// are no more than minSentences sentences to judge.
func sentenceLengthVariance(content string, minSentences int) (float64, bool) {
	var sentences []string
	for _, s := range strings.FieldsFunc(content, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		if s = strings.TrimSpace(s); len(s) > 10 {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) <= minSentences {
		return 0, false
	}

	counts := make([]float64, len(sentences))
	mean := 0.0
	for i, s := range sentences {
		counts[i] = float64(len(strings.Fields(s)))
		mean += counts[i]
	}
	mean /= float64(len(counts))

	variance := 0.0
	for _, c := range counts {
		variance += (c - mean) * (c - mean)
	}
	variance /= float64(len(counts))

	return variance, true
}

func wordSet(content string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(content) {
		set[w] = struct{}{}
	}
	return set
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
