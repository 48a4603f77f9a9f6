package mock

import (
	"context"

	"github.com/fwojciec/blogboost"
)

var _ blogboost.RunService = (*RunService)(nil)

// RunService is a mock implementation of blogboost.RunService.
type RunService struct {
	CreateRunFn func(ctx context.Context, report *blogboost.RunReport) error
	FindRunsFn  func(ctx context.Context, filter blogboost.RunFilter) ([]*blogboost.RunReport, error)
}

func (s *RunService) CreateRun(ctx context.Context, report *blogboost.RunReport) error {
	return s.CreateRunFn(ctx, report)
}

func (s *RunService) FindRuns(ctx context.Context, filter blogboost.RunFilter) ([]*blogboost.RunReport, error) {
	return s.FindRunsFn(ctx, filter)
}
