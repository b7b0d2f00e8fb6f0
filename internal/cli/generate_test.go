package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tomitschek/crptrial/internal/dataio"
	"github.com/tomitschek/crptrial/internal/domain"
)

func setupTestEnv(t *testing.T) string {
	t.Helper()
	outDir := t.TempDir()
	t.Setenv("CRPTRIAL_OUTPUT_DIR", outDir)
	t.Setenv("CRPTRIAL_DB_PATH", filepath.Join(t.TempDir(), "crptrial.db"))
	return outDir
}

func TestGenerateCommandWritesCSV(t *testing.T) {
	outDir := setupTestEnv(t)

	generateNPerGroup = 3
	generateSeed = 7
	generateEffects = "5:35"
	generateNoEffects = false
	generateBaselineMean = 5
	generateBaselineSD = 2
	generatePeakTreated = 150
	generatePeakControl = 180
	generateDecayTreated = 0.5
	generateDecayControl = 0.3
	generateOutput = "crp_data.csv"
	generateSave = true

	if err := runGenerate(generateCmd, nil); err != nil {
		t.Fatalf("runGenerate: %v", err)
	}

	path := filepath.Join(outDir, "crp_data.csv")
	ds, err := dataio.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ds.Len() != 2*3*domain.DaysPerPatient {
		t.Errorf("rows = %d, want %d", ds.Len(), 2*3*domain.DaysPerPatient)
	}

	// --save persisted the run.
	ctx := context.Background()
	appCtx, err := NewAppContext(ctx)
	if err != nil {
		t.Fatalf("NewAppContext: %v", err)
	}
	defer appCtx.Close()

	runs, err := appCtx.RunRepo.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("stored runs = %d, want 1", len(runs))
	}
	if runs[0].Seed != 7 || runs[0].NPerGroup != 3 {
		t.Errorf("stored run = %+v", runs[0])
	}

	stored, err := appCtx.ObservationRepo.ListByRunID(ctx, runs[0].ID)
	if err != nil {
		t.Fatalf("ListByRunID: %v", err)
	}
	if stored.Len() != ds.Len() {
		t.Errorf("stored rows = %d, want %d", stored.Len(), ds.Len())
	}
}

func TestGenerateCommandRejectsBadEffects(t *testing.T) {
	setupTestEnv(t)

	generateNPerGroup = 3
	generateEffects = "five:ten"
	generateNoEffects = false
	generateSave = false

	err := runGenerate(generateCmd, nil)
	if err == nil {
		t.Fatal("malformed effects should fail")
	}
	var confErr *domain.ConfigurationError
	if !errors.As(err, &confErr) {
		t.Errorf("error = %v, want *ConfigurationError", err)
	}
	if _, statErr := os.Stat(filepath.Join(os.Getenv("CRPTRIAL_OUTPUT_DIR"), "crp_data.csv")); statErr == nil {
		t.Error("no output should be written on configuration error")
	}
}
