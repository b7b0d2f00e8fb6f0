package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tomitschek/crptrial/internal/domain"
)

type RunRepository struct {
	db *sql.DB
}

func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

func (r *RunRepository) Create(ctx context.Context, run *domain.Run) error {
	effects, err := json.Marshal(run.Effects)
	if err != nil {
		return fmt.Errorf("failed to encode day effects: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, seed, n_per_group, day_effects)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.CreatedAt.Format(time.RFC3339), run.Seed, run.NPerGroup, string(effects))
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

func (r *RunRepository) GetByID(ctx context.Context, id string) (*domain.Run, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, created_at, seed, n_per_group, day_effects FROM runs WHERE id = ?
	`, id)

	run, err := runFromRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

func (r *RunRepository) List(ctx context.Context, limit int) ([]*domain.Run, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, created_at, seed, n_per_group, day_effects
		FROM runs ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*domain.Run
	for rows.Next() {
		run, err := runFromRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *RunRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func runFromRow(row scanner) (*domain.Run, error) {
	var run domain.Run
	var createdAt, effects string
	if err := row.Scan(&run.ID, &createdAt, &run.Seed, &run.NPerGroup, &effects); err != nil {
		return nil, err
	}

	run.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if err := json.Unmarshal([]byte(effects), &run.Effects); err != nil {
		return nil, fmt.Errorf("failed to decode day effects: %w", err)
	}
	return &run, nil
}
