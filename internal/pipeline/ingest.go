package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mkravets/memsieve/internal/model"
	"github.com/mkravets/memsieve/internal/score"
	"github.com/mkravets/memsieve/internal/segment"
	"github.com/mkravets/memsieve/internal/worker"
)

// fileJob segments and scores one document
type fileJob struct {
	path      string
	segmenter *segment.Segmenter
	validator *score.Validator
	threshold float64
	maxBytes  int64
}

// fileResult carries the scored fragments of one document. Per-document
// failures are recoverable: they surface in the ingest report instead of
// aborting the run.
type fileResult struct {
	path      string
	fragments []model.Fragment
	err       error
}

// GetError implements worker.Result
func (r *fileResult) GetError() error { return r.err }

// Execute implements worker.Job
func (j *fileJob) Execute(ctx context.Context) worker.Result {
	info, err := os.Stat(j.path)
	if err != nil {
		return &fileResult{path: j.path, err: err}
	}
	if j.maxBytes > 0 && info.Size() > j.maxBytes {
		return &fileResult{path: j.path, err: fmt.Errorf("file exceeds %d bytes", j.maxBytes)}
	}

	data, err := os.ReadFile(j.path)
	if err != nil {
		return &fileResult{path: j.path, err: err}
	}

	format, ok := segment.FormatForFile(j.path)
	if !ok {
		return &fileResult{path: j.path, err: fmt.Errorf("unsupported file type")}
	}

	fragments, err := j.segmenter.Segment(string(data), format, segment.BaseMetadata(j.path))
	if err != nil {
		return &fileResult{path: j.path, err: err}
	}

	// Score each fragment against its document siblings
	for i := range fragments {
		peers := make([]model.Fragment, 0, len(fragments)-1)
		for k := range fragments {
			if k != i {
				peers = append(peers, fragments[k])
			}
		}
		result := j.validator.Validate(fragments[i], peers)
		fragments[i].SetScore(result.AuthenticityScore, j.threshold)
	}

	return &fileResult{path: j.path, fragments: fragments}
}

// IngestDirectory walks a directory, segments and scores every supported
// document, and upserts the fragments into the store. A single file path
// is accepted too. Documents fan out across a worker pool; per-document
// errors are collected, not fatal.
func (p *Pipeline) IngestDirectory(ctx context.Context, dir string) (*model.IngestReport, error) {
	paths, err := collectDocuments(dir)
	if err != nil {
		return nil, err
	}

	report := &model.IngestReport{TotalFiles: len(paths)}
	if len(paths) == 0 {
		return report, nil
	}

	pool := worker.NewPool(p.cfg.Concurrency.IngestWorkers)
	pool.Start()
	for _, path := range paths {
		pool.Submit(&fileJob{
			path:      path,
			segmenter: p.segmenter,
			validator: p.validator,
			threshold: p.cfg.Ingest.VerifyThreshold,
			maxBytes:  p.cfg.Ingest.MaxFileBytes,
		})
	}

	sources := make(map[string]struct{})
	for _, r := range pool.Wait() {
		fr := r.(*fileResult)
		if fr.err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", fr.path, fr.err))
			continue
		}

		if len(fr.fragments) > 0 {
			if err := p.store.Add(ctx, fr.fragments); err != nil {
				return nil, fmt.Errorf("store fragments from %s: %w", fr.path, err)
			}
		}

		report.ProcessedFiles++
		report.TotalFragments += len(fr.fragments)
		for _, f := range fr.fragments {
			if f.AuthenticityVerified {
				report.VerifiedFragments++
			}
			if f.Source != "" {
				sources[f.Source] = struct{}{}
			}
		}
	}

	for src := range sources {
		report.Sources = append(report.Sources, src)
	}
	sort.Strings(report.Sources)
	sort.Strings(report.Errors)

	return report, nil
}

// ValidateDirectory segments and scores every supported document under
// dir without touching the store. Returns per-fragment results plus a
// rendered batch report; documents that cannot be read or segmented are
// listed in the report instead of disappearing from it.
func (p *Pipeline) ValidateDirectory(ctx context.Context, dir string) (map[string]model.ValidationResult, string, error) {
	paths, err := collectDocuments(dir)
	if err != nil {
		return nil, "", err
	}

	var (
		fragments []model.Fragment
		skipped   []string
	)
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			skipped = append(skipped, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		format, ok := segment.FormatForFile(path)
		if !ok {
			skipped = append(skipped, fmt.Sprintf("%s: unsupported file type", path))
			continue
		}
		frags, err := p.segmenter.Segment(string(data), format, segment.BaseMetadata(path))
		if err != nil {
			skipped = append(skipped, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		fragments = append(fragments, frags...)
	}
	sort.Strings(skipped)

	results := p.validator.BatchValidate(ctx, fragments, p.cfg.Concurrency.ValidateWorkers)

	report := score.BuildReport(results)
	if len(skipped) > 0 {
		var b strings.Builder
		b.WriteString(report)
		fmt.Fprintf(&b, "\n\nSkipped documents (%d):\n", len(skipped))
		for _, s := range skipped {
			fmt.Fprintf(&b, "  - %s\n", s)
		}
		report = b.String()
	}

	return results, report, nil
}

// collectDocuments resolves dir into the list of supported document
// paths. A plain file path yields a single-element list.
func collectDocuments(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if _, ok := segment.FormatForFile(dir); !ok {
			return nil, fmt.Errorf("unsupported file type: %s", dir)
		}
		return []string{dir}, nil
	}

	var paths []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := segment.FormatForFile(path); ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}
