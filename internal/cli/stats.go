package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkravets/memsieve/internal/pipeline"
)

var (
	statsJSON    string
	statsTimeout time.Duration
	statsStore   string
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show vector store statistics",
	Long: `Stats reports the store's aggregate snapshot: fragment totals,
verification counts, average authenticity score and source coverage.

Example:
  memsieve stats
  memsieve stats --store qdrant --json stats.json`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVar(&statsJSON, "json", "", "write statistics as JSON to this path")
	statsCmd.Flags().DurationVar(&statsTimeout, "timeout", 30*time.Second, "stats timeout")
	statsCmd.Flags().StringVar(&statsStore, "store", "", "store provider (memory, qdrant)")
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), statsTimeout)
	defer cancel()

	cfg := loadConfig()
	if statsStore != "" {
		cfg.Store.Provider = statsStore
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}
	if err := p.Initialize(ctx); err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}

	stats, err := p.Stats(ctx)
	if err != nil {
		return fmt.Errorf("stats failed: %w", err)
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	if statsJSON != "" {
		if err := renderer.RenderJSON(stats, statsJSON); err != nil {
			return err
		}
	}
	renderer.RenderStatsSummary(stats)

	return nil
}
