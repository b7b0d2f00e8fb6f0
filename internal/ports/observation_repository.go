package ports

import (
	"context"

	"github.com/tomitschek/crptrial/internal/domain"
)

type ObservationRepository interface {
	CreateBatch(ctx context.Context, runID string, observations []domain.Observation) error
	ListByRunID(ctx context.Context, runID string) (*domain.Dataset, error)
}
