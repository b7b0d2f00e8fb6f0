package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tomitschek/crptrial/internal/adapters/sqlite"
	"github.com/tomitschek/crptrial/internal/domain"
)

func sampleRun() *domain.Run {
	return &domain.Run{
		ID:        uuid.New().String(),
		CreatedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		Seed:      42,
		NPerGroup: 20,
		Effects:   domain.DayEffects{3: 15, 5: 35},
	}
}

func TestRunRepositoryCreateGet(t *testing.T) {
	db := testDB(t)
	repo := sqlite.NewRunRepository(db)
	ctx := context.Background()

	run := sampleRun()
	if err := repo.Create(ctx, run); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil {
		t.Fatal("GetByID returned nil for existing run")
	}
	if got.Seed != run.Seed || got.NPerGroup != run.NPerGroup {
		t.Errorf("got %+v, want %+v", got, run)
	}
	if !got.CreatedAt.Equal(run.CreatedAt) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, run.CreatedAt)
	}
	if len(got.Effects) != 2 || got.Effects[3] != 15 || got.Effects[5] != 35 {
		t.Errorf("effects = %v", got.Effects)
	}
}

func TestRunRepositoryGetMissing(t *testing.T) {
	db := testDB(t)
	repo := sqlite.NewRunRepository(db)

	got, err := repo.GetByID(context.Background(), "no-such-run")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != nil {
		t.Errorf("got %+v, want nil", got)
	}
}

func TestRunRepositoryListOrdering(t *testing.T) {
	db := testDB(t)
	repo := sqlite.NewRunRepository(db)
	ctx := context.Background()

	older := sampleRun()
	older.CreatedAt = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	newer := sampleRun()
	newer.CreatedAt = time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	for _, run := range []*domain.Run{older, newer} {
		if err := repo.Create(ctx, run); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	runs, err := repo.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(runs))
	}
	if runs[0].ID != newer.ID {
		t.Errorf("newest run should come first, got %s", runs[0].ID)
	}

	limited, err := repo.List(ctx, 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limited list = %d runs, want 1", len(limited))
	}
}

func TestRunRepositoryDeleteCascades(t *testing.T) {
	db := testDB(t)
	runs := sqlite.NewRunRepository(db)
	observations := sqlite.NewObservationRepository(db)
	ctx := context.Background()

	run := sampleRun()
	if err := runs.Create(ctx, run); err != nil {
		t.Fatalf("Create: %v", err)
	}
	obs := []domain.Observation{
		{PatientID: 64000001, Group: domain.GroupTreated, Day: 0, CRP: 5.25},
	}
	if err := observations.CreateBatch(ctx, run.ID, obs); err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}

	if err := runs.Delete(ctx, run.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	ds, err := observations.ListByRunID(ctx, run.ID)
	if err != nil {
		t.Fatalf("ListByRunID: %v", err)
	}
	if ds.Len() != 0 {
		t.Errorf("observations survived run deletion: %d rows", ds.Len())
	}
}
