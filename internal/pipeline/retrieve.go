package pipeline

import (
	"context"

	"github.com/mkravets/memsieve/internal/model"
)

// SearchOptions narrows a retrieval query
type SearchOptions struct {
	Limit           int
	MinSimilarity   float64
	MinAuthenticity float64
}

// Search retrieves fragments similar to the query, filtered by
// authenticity. The store is asked for an oversampled candidate set so
// the authenticity filter still has enough to choose from; unscored
// candidates are validated on demand and their scores written back.
func (p *Pipeline) Search(ctx context.Context, query string, opts SearchOptions) ([]model.SearchResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = p.cfg.Retrieval.DefaultLimit
	}
	oversample := p.cfg.Retrieval.Oversample
	if oversample < 1 {
		oversample = 1
	}

	candidates, err := p.store.Search(ctx, query, limit*oversample, opts.MinSimilarity)
	if err != nil {
		return nil, err
	}

	results := make([]model.SearchResult, 0, limit)
	for _, c := range candidates {
		if !c.Fragment.Scored() {
			validation := p.validator.Validate(c.Fragment, nil)
			c.Fragment.SetScore(validation.AuthenticityScore, p.cfg.Ingest.VerifyThreshold)
			// Write-back is best effort; the result still carries the score
			_ = p.store.Add(ctx, []model.Fragment{c.Fragment})
		}

		if opts.MinAuthenticity > 0 {
			if c.Fragment.AuthenticityScore == nil || *c.Fragment.AuthenticityScore < opts.MinAuthenticity {
				continue
			}
		}

		results = append(results, c)
		if len(results) == limit {
			break
		}
	}

	return results, nil
}
