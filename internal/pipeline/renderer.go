package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mkravets/memsieve/internal/model"
)

// Renderer writes pipeline results to files and prints stdout summaries
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes any result as indented JSON to the given path
func (r *Renderer) RenderJSON(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderIngestSummary prints an ingestion report to stdout
func (r *Renderer) RenderIngestSummary(report *model.IngestReport) {
	fmt.Println()
	fmt.Println("Ingestion Report")
	fmt.Println(strings.Repeat("─", 40))
	fmt.Printf("Files found:        %d\n", report.TotalFiles)
	fmt.Printf("Files processed:    %d\n", report.ProcessedFiles)
	fmt.Printf("Fragments stored:   %d\n", report.TotalFragments)
	fmt.Printf("Verified fragments: %d\n", report.VerifiedFragments)
	if len(report.Sources) > 0 {
		fmt.Printf("Sources:            %s\n", strings.Join(report.Sources, ", "))
	}
	if len(report.Errors) > 0 {
		fmt.Printf("\nErrors (%d):\n", len(report.Errors))
		for _, e := range report.Errors {
			fmt.Printf("  - %s\n", e)
		}
	}
	r.footer()
}

// RenderSearchSummary prints search results to stdout
func (r *Renderer) RenderSearchSummary(query string, results []model.SearchResult) {
	fmt.Println()
	fmt.Printf("Results for %q (%d)\n", query, len(results))
	fmt.Println(strings.Repeat("─", 40))
	if len(results) == 0 {
		fmt.Println("No fragments matched.")
		return
	}

	for i, res := range results {
		score := "unscored"
		if res.Fragment.AuthenticityScore != nil {
			score = fmt.Sprintf("%.2f", *res.Fragment.AuthenticityScore)
		}
		fmt.Printf("%d. [sim %.3f | auth %s] %s\n", i+1, res.Similarity, score, res.Fragment.ID)
		if res.Fragment.Source != "" {
			fmt.Printf("   source: %s\n", res.Fragment.Source)
		}
		fmt.Printf("   %s\n", excerpt(res.Fragment.Content, 160))
	}
	r.footer()
}

// RenderStatsSummary prints store statistics to stdout
func (r *Renderer) RenderStatsSummary(stats *model.StoreStats) {
	fmt.Println()
	fmt.Println("Store Statistics")
	fmt.Println(strings.Repeat("─", 40))
	fmt.Printf("Status:             %s\n", stats.Status)
	fmt.Printf("Total fragments:    %d\n", stats.TotalFragments)
	fmt.Printf("Verified fragments: %d\n", stats.VerifiedFragments)
	fmt.Printf("Average score:      %.3f\n", stats.AverageScore)
	fmt.Printf("Unique sources:     %d\n", stats.UniqueSources)
}

// RenderValidationSummary prints a single fragment's evaluation to stdout
func (r *Renderer) RenderValidationSummary(frag *model.Fragment, result model.ValidationResult) {
	fmt.Println()
	fmt.Printf("Fragment %s\n", frag.ID)
	fmt.Println(strings.Repeat("─", 40))
	if frag.Source != "" {
		fmt.Printf("Source:     %s\n", frag.Source)
	}
	fmt.Printf("Content:    %s\n", excerpt(frag.Content, 160))
	fmt.Printf("Score:      %.2f\n", result.AuthenticityScore)
	fmt.Printf("Confidence: %.2f\n", result.Confidence)
	fmt.Printf("Category:   %s\n", result.Category)
	if len(result.RedFlags) > 0 {
		fmt.Printf("Red flags:\n")
		for _, f := range result.RedFlags {
			fmt.Printf("  - %s\n", f)
		}
	}
	if len(result.AuthenticityMarkers) > 0 {
		fmt.Printf("Markers:\n")
		for _, m := range result.AuthenticityMarkers {
			fmt.Printf("  - %s\n", m)
		}
	}
	fmt.Printf("Reasoning:  %s\n", result.Reasoning)
	r.footer()
}

func (r *Renderer) footer() {
	if !r.includeFooter {
		return
	}
	fmt.Println()
	fmt.Println("memsieve scores textual authenticity signals. It does not determine truth.")
}

// excerpt truncates content to a single display line. Truncation is by
// rune so multi-byte characters are never split.
func excerpt(content string, max int) string {
	content = strings.Join(strings.Fields(content), " ")
	runes := []rune(content)
	if len(runes) <= max {
		return content
	}
	return string(runes[:max]) + "..."
}
