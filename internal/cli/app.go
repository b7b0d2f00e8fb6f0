package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tomitschek/crptrial/internal/adapters/sqlite"
	"github.com/tomitschek/crptrial/internal/app"
	"github.com/tomitschek/crptrial/internal/migrate"
	"github.com/tomitschek/crptrial/internal/ports"
)

// AppContext holds the shared dependencies for CLI commands.
type AppContext struct {
	Config          *app.Config
	DB              *sql.DB
	RunRepo         ports.RunRepository
	ObservationRepo ports.ObservationRepository
	AnalysisRepo    ports.AnalysisRepository
}

// NewAppContext loads configuration, opens the database, and applies any
// pending migrations.
func NewAppContext(ctx context.Context) (*AppContext, error) {
	cfg, err := app.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := migrate.RunAll(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &AppContext{
		Config:          cfg,
		DB:              db,
		RunRepo:         sqlite.NewRunRepository(db),
		ObservationRepo: sqlite.NewObservationRepository(db),
		AnalysisRepo:    sqlite.NewAnalysisRepository(db),
	}, nil
}

// Close releases all resources held by the AppContext.
func (a *AppContext) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
