package ports

import (
	"context"

	"github.com/tomitschek/crptrial/internal/domain"
)

type AnalysisRepository interface {
	Save(ctx context.Context, runID string, result *domain.AnalysisResult) error
	GetByRunID(ctx context.Context, runID string) (*domain.AnalysisResult, error)
}
