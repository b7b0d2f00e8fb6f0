package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tomitschek/crptrial/internal/domain"
	"github.com/tomitschek/crptrial/internal/util"
)

type ObservationRepository struct {
	db *sql.DB
}

func NewObservationRepository(db *sql.DB) *ObservationRepository {
	return &ObservationRepository{db: db}
}

// CreateBatch inserts all observations of a run in one transaction. Missing
// CRP values are stored as null.
func (r *ObservationRepository) CreateBatch(ctx context.Context, runID string, observations []domain.Observation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO observations (run_id, patient_id, grp, day, crp)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range observations {
		if _, err := stmt.ExecContext(ctx, runID, o.PatientID, string(o.Group), o.Day, util.NullCRP(o.CRP)); err != nil {
			return fmt.Errorf("failed to insert observation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit observations: %w", err)
	}
	return nil
}

// ListByRunID loads a run's dataset ordered by (patient_id, day).
func (r *ObservationRepository) ListByRunID(ctx context.Context, runID string) (*domain.Dataset, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT patient_id, grp, day, crp
		FROM observations WHERE run_id = ?
		ORDER BY patient_id, day
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list observations: %w", err)
	}
	defer rows.Close()

	var observations []domain.Observation
	for rows.Next() {
		var o domain.Observation
		var group string
		var crp sql.NullFloat64
		if err := rows.Scan(&o.PatientID, &group, &o.Day, &crp); err != nil {
			return nil, fmt.Errorf("failed to scan observation: %w", err)
		}
		o.Group = domain.Group(group)
		o.CRP = util.CRPFromNull(crp)
		observations = append(observations, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &domain.Dataset{Observations: observations}, nil
}
