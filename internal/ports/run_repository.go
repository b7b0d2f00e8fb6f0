// Package ports declares the persistence interfaces the application depends
// on. Adapters implement them; the CLI and web layers consume them.
package ports

import (
	"context"

	"github.com/tomitschek/crptrial/internal/domain"
)

type RunRepository interface {
	Create(ctx context.Context, run *domain.Run) error
	GetByID(ctx context.Context, id string) (*domain.Run, error)
	List(ctx context.Context, limit int) ([]*domain.Run, error)
	Delete(ctx context.Context, id string) error
}
