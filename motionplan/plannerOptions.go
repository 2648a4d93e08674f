package motionplan

import (
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"
)

// default values for planning options.
const (
	// maximum number of nodes to expand before giving up; 0 means no limit.
	defaultMaxIterations = 0

	// default number of seconds to search before giving up; 0 means no limit.
	defaultTimeout = 0.

	// log search progress every this many expanded nodes.
	defaultLogInterval = 1000
)

// PlannerOptions bounds how much work a search may do. Hitting either bound ends the search with
// OutcomeBudgetExceeded.
type PlannerOptions struct {
	MaxIterations int     `json:"max_iterations"`
	Timeout       float64 `json:"timeout"`
}

// NewPlannerOptions returns unbounded planner options.
func NewPlannerOptions() *PlannerOptions {
	return &PlannerOptions{
		MaxIterations: defaultMaxIterations,
		Timeout:       defaultTimeout,
	}
}

// Validate returns an error if either bound is negative.
func (opts *PlannerOptions) Validate(path string) error {
	if opts.MaxIterations < 0 {
		return goutils.NewConfigValidationError(path, errors.Errorf("max_iterations must be non-negative, got %d", opts.MaxIterations))
	}
	if opts.Timeout < 0 {
		return goutils.NewConfigValidationError(path, errors.Errorf("timeout must be non-negative, got %v", opts.Timeout))
	}
	return nil
}
