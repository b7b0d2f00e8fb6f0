package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tomitschek/crptrial/internal/domain"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Save stores the analysis result for a run, replacing any previous one.
func (r *AnalysisRepository) Save(ctx context.Context, runID string, result *domain.AnalysisResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode analysis result: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO analyses (run_id, created_at, result) VALUES (?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET created_at = excluded.created_at, result = excluded.result
	`, runID, time.Now().UTC().Format(time.RFC3339), string(payload))
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

func (r *AnalysisRepository) GetByRunID(ctx context.Context, runID string) (*domain.AnalysisResult, error) {
	var payload string
	err := r.db.QueryRowContext(ctx, `SELECT result FROM analyses WHERE run_id = ?`, runID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	var result domain.AnalysisResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("failed to decode analysis result: %w", err)
	}
	return &result, nil
}
