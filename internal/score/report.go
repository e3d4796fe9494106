package score

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mkravets/memsieve/internal/model"
)

// BuildReport renders a batch validation summary: category breakdown,
// averages, and the most common signals on either side.
func BuildReport(results map[string]model.ValidationResult) string {
	if len(results) == 0 {
		return "No fragments analyzed"
	}

	var authentic, zombie, suspicious int
	var sumScore, sumConfidence float64
	flagCounts := make(map[string]int)
	markerCounts := make(map[string]int)

	for _, r := range results {
		switch r.Category {
		case model.CategoryAuthentic:
			authentic++
		case model.CategoryZombie:
			zombie++
		case model.CategorySuspicious:
			suspicious++
		}
		sumScore += r.AuthenticityScore
		sumConfidence += r.Confidence
		for _, f := range r.RedFlags {
			flagCounts[f]++
		}
		for _, m := range r.AuthenticityMarkers {
			markerCounts[m]++
		}
	}

	total := len(results)
	pct := func(n int) float64 { return float64(n) / float64(total) * 100 }

	var b strings.Builder
	fmt.Fprintf(&b, "Fragment Authenticity Report\n\n")
	fmt.Fprintf(&b, "Total fragments analyzed: %d\n", total)
	fmt.Fprintf(&b, "- Authentic:  %d (%.1f%%)\n", authentic, pct(authentic))
	fmt.Fprintf(&b, "- Zombie:     %d (%.1f%%)\n", zombie, pct(zombie))
	fmt.Fprintf(&b, "- Suspicious: %d (%.1f%%)\n", suspicious, pct(suspicious))
	fmt.Fprintf(&b, "\nAverage authenticity score: %.3f\n", sumScore/float64(total))
	fmt.Fprintf(&b, "Average confidence: %.3f\n", sumConfidence/float64(total))

	fmt.Fprintf(&b, "\nMost common red flags:\n%s\n", topSignals(flagCounts, 3))
	fmt.Fprintf(&b, "\nMost common authenticity markers:\n%s\n", topSignals(markerCounts, 3))

	fmt.Fprintf(&b, "\nConclusion: %s\n", conclusion(float64(authentic)/float64(total)))

	return b.String()
}

func topSignals(counts map[string]int, limit int) string {
	if len(counts) == 0 {
		return "- none detected"
	}

	type entry struct {
		label string
		count int
	}
	entries := make([]entry, 0, len(counts))
	for label, count := range counts {
		entries = append(entries, entry{label, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].label < entries[j].label
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, fmt.Sprintf("- %s: %d occurrences", e.label, e.count))
	}
	return strings.Join(lines, "\n")
}

func conclusion(authenticRatio float64) string {
	switch {
	case authenticRatio > 0.7:
		return "high authenticity across the batch"
	case authenticRatio > 0.4:
		return "mixed results, further analysis recommended"
	default:
		return "low authenticity, batch dominated by generated or constructed content"
	}
}
