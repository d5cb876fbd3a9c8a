package postgres

import (
	"context"

	"roast-panel-service/internal/domain/model"
	"roast-panel-service/internal/domain/ports/repository"
)

// Compile-time check
var _ repository.RoastRunRepository = (*noopRunRepo)(nil)

type noopRunRepo struct{}

// NewNoopRunRepo is used when no database is configured: history is
// discarded and the admin listing is always empty.
func NewNoopRunRepo() repository.RoastRunRepository { return noopRunRepo{} }

func (noopRunRepo) Save(ctx context.Context, run *model.RoastRun) error { return nil }

func (noopRunRepo) ListRecent(ctx context.Context, limit int) ([]*model.RoastRun, error) {
	return []*model.RoastRun{}, nil
}
