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
	ingestJSON      string
	ingestTimeout   time.Duration
	ingestThreshold float64
	ingestNoFooter  bool
	ingestStore     string
	ingestEmbedder  string
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest <directory>",
	Short: "Segment, score and store memory documents",
	Long: `Ingest walks a directory of memory documents (.md, .json, .txt, .html),
splits each into fragments, scores every fragment for authenticity and
upserts the results into the vector store.

Fragment IDs derive from content, so re-ingesting unchanged documents
never creates duplicates.

Example:
  memsieve ingest ./memories
  memsieve ingest ./memories --threshold 0.8 --json report.json
  memsieve ingest ./memories --store qdrant --embedder openai`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVar(&ingestJSON, "json", "", "write ingestion report as JSON to this path")
	ingestCmd.Flags().DurationVar(&ingestTimeout, "timeout", 5*time.Minute, "overall ingestion timeout")
	ingestCmd.Flags().Float64Var(&ingestThreshold, "threshold", 0, "verification threshold override (0 keeps the configured value)")
	ingestCmd.Flags().BoolVar(&ingestNoFooter, "no-footer", false, "disable report footer")
	ingestCmd.Flags().StringVar(&ingestStore, "store", "", "store provider (memory, qdrant)")
	ingestCmd.Flags().StringVar(&ingestEmbedder, "embedder", "", "embedding provider (tfidf, openai)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	dir := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
	defer cancel()

	cfg := loadConfig()
	if ingestThreshold > 0 {
		cfg.Ingest.VerifyThreshold = ingestThreshold
	}
	if ingestNoFooter {
		cfg.Output.IncludeFooter = false
	}
	if ingestStore != "" {
		cfg.Store.Provider = ingestStore
	}
	if ingestEmbedder != "" {
		cfg.Embedder.Provider = ingestEmbedder
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}
	if err := p.Initialize(ctx); err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Ingesting: %s\n", dir)
		fmt.Fprintf(os.Stderr, "Verification threshold: %.2f\n\n", cfg.Ingest.VerifyThreshold)
	}

	report, err := p.IngestDirectory(ctx, dir)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	if ingestJSON != "" {
		if err := renderer.RenderJSON(report, ingestJSON); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", ingestJSON)
		}
	}
	renderer.RenderIngestSummary(report)

	return nil
}
