package score

import (
	"context"

	"github.com/mkravets/memsieve/internal/model"
	"github.com/mkravets/memsieve/internal/worker"
)

// validateJob scores one fragment against its peer context
type validateJob struct {
	validator *Validator
	fragment  model.Fragment
	peers     []model.Fragment
}

// validateResult carries one scored fragment out of the pool
type validateResult struct {
	id     string
	result model.ValidationResult
}

// GetError implements worker.Result; validation itself never fails
func (r *validateResult) GetError() error { return nil }

// Execute implements worker.Job
func (j *validateJob) Execute(ctx context.Context) worker.Result {
	return &validateResult{
		id:     j.fragment.ID,
		result: j.validator.Validate(j.fragment, j.peers),
	}
}

// BatchValidate scores a collection where each fragment uses all other
// fragments as connectivity context. The O(n²) comparisons are accepted:
// validation batches are tens to low hundreds of fragments, not a hot
// path. Fragments are independent, so they fan out on a worker pool.
func (v *Validator) BatchValidate(ctx context.Context, fragments []model.Fragment, workers int) map[string]model.ValidationResult {
	results := make(map[string]model.ValidationResult, len(fragments))
	if len(fragments) == 0 {
		return results
	}

	pool := worker.NewPool(workers)
	pool.Start()

	for i := range fragments {
		peers := make([]model.Fragment, 0, len(fragments)-1)
		for j := range fragments {
			if j != i {
				peers = append(peers, fragments[j])
			}
		}
		pool.Submit(&validateJob{
			validator: v,
			fragment:  fragments[i],
			peers:     peers,
		})
	}

	for _, r := range pool.Wait() {
		vr := r.(*validateResult)
		results[vr.id] = vr.result
	}

	return results
}
