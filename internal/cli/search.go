package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkravets/memsieve/internal/pipeline"
)

var (
	searchLimit    int
	searchMinSim   float64
	searchMinAuth  float64
	searchJSON     string
	searchTimeout  time.Duration
	searchStore    string
	searchEmbedder string
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Retrieve fragments by similarity and authenticity",
	Long: `Search embeds the query, retrieves similar fragments from the vector
store and filters them by authenticity score. Fragments that were never
scored are evaluated on demand and their scores written back.

Example:
  memsieve search "the moment I decided to leave"
  memsieve search "breakthrough" --limit 5 --min-authenticity 0.7
  memsieve search "doubt" --min-similarity 0.2 --json results.json`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "maximum number of results")
	searchCmd.Flags().Float64Var(&searchMinSim, "min-similarity", 0, "minimum cosine similarity")
	searchCmd.Flags().Float64Var(&searchMinAuth, "min-authenticity", 0, "minimum authenticity score")
	searchCmd.Flags().StringVar(&searchJSON, "json", "", "write results as JSON to this path")
	searchCmd.Flags().DurationVar(&searchTimeout, "timeout", 2*time.Minute, "search timeout")
	searchCmd.Flags().StringVar(&searchStore, "store", "", "store provider (memory, qdrant)")
	searchCmd.Flags().StringVar(&searchEmbedder, "embedder", "", "embedding provider (tfidf, openai)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), searchTimeout)
	defer cancel()

	cfg := loadConfig()
	if searchStore != "" {
		cfg.Store.Provider = searchStore
	}
	if searchEmbedder != "" {
		cfg.Embedder.Provider = searchEmbedder
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}
	if err := p.Initialize(ctx); err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Query: %s\n", query)
		fmt.Fprintf(os.Stderr, "Limit: %d, min similarity: %.2f, min authenticity: %.2f\n\n",
			searchLimit, searchMinSim, searchMinAuth)
	}

	results, err := p.Search(ctx, query, pipeline.SearchOptions{
		Limit:           searchLimit,
		MinSimilarity:   searchMinSim,
		MinAuthenticity: searchMinAuth,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	if searchJSON != "" {
		if err := renderer.RenderJSON(results, searchJSON); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", searchJSON)
		}
	}
	renderer.RenderSearchSummary(query, results)

	return nil
}
