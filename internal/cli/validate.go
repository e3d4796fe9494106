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
	validateDir     string
	validateJSON    string
	validateTimeout time.Duration
	validateStore   string
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [fragment-id]",
	Short: "Re-evaluate fragment authenticity",
	Long: `Validate re-runs the authenticity heuristic.

With a fragment ID, the stored fragment is fetched and re-evaluated; the
stored score is left untouched. With --dir, every document under the
directory is segmented and scored as a dry run, without touching the
store, and a batch report is printed.

Example:
  memsieve validate mem_1a2b3c4d5e6f7081
  memsieve validate --dir ./memories
  memsieve validate --dir ./memories --json results.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateDir, "dir", "", "validate every document under this directory (dry run)")
	validateCmd.Flags().StringVar(&validateJSON, "json", "", "write validation results as JSON to this path")
	validateCmd.Flags().DurationVar(&validateTimeout, "timeout", 2*time.Minute, "validation timeout")
	validateCmd.Flags().StringVar(&validateStore, "store", "", "store provider (memory, qdrant)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	if validateDir == "" && len(args) == 0 {
		return fmt.Errorf("provide a fragment ID or --dir")
	}

	ctx, cancel := context.WithTimeout(context.Background(), validateTimeout)
	defer cancel()

	cfg := loadConfig()
	if validateStore != "" {
		cfg.Store.Provider = validateStore
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)

	if validateDir != "" {
		results, report, err := p.ValidateDirectory(ctx, validateDir)
		if err != nil {
			return fmt.Errorf("validate failed: %w", err)
		}

		if validateJSON != "" {
			if err := renderer.RenderJSON(results, validateJSON); err != nil {
				return err
			}
			if verbose {
				fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", validateJSON)
			}
		}
		fmt.Println(report)
		return nil
	}

	if err := p.Initialize(ctx); err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}

	frag, result, err := p.ValidateFragment(ctx, args[0])
	if err != nil {
		return fmt.Errorf("validate failed: %w", err)
	}

	if validateJSON != "" {
		if err := renderer.RenderJSON(result, validateJSON); err != nil {
			return err
		}
	}
	renderer.RenderValidationSummary(frag, result)

	return nil
}
