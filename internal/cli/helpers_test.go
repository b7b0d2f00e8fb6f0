package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/tomitschek/crptrial/internal/dataio"
	"github.com/tomitschek/crptrial/internal/domain"
)

func TestResolveOutputPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CRPTRIAL_OUTPUT_DIR", dir)

	got, err := resolveOutputPath("crp_data.csv")
	if err != nil {
		t.Fatalf("resolveOutputPath: %v", err)
	}
	if got != filepath.Join(dir, "crp_data.csv") {
		t.Errorf("path = %q", got)
	}

	abs := filepath.Join(dir, "elsewhere.csv")
	got, err = resolveOutputPath(abs)
	if err != nil {
		t.Fatalf("resolveOutputPath: %v", err)
	}
	if got != abs {
		t.Errorf("absolute path = %q, want unchanged", got)
	}
}

func TestLoadDatasetFromCSV(t *testing.T) {
	ds := &domain.Dataset{Observations: []domain.Observation{
		{PatientID: 64000001, Group: domain.GroupTreated, Day: 0, CRP: 5.25},
	}}
	path := filepath.Join(t.TempDir(), "crp.csv")
	if err := dataio.Save(ds, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, run, err := loadDataset(context.Background(), "", path)
	if err != nil {
		t.Fatalf("loadDataset: %v", err)
	}
	if run != nil {
		t.Error("CSV input should carry no run metadata")
	}
	if got.Len() != 1 {
		t.Errorf("rows = %d, want 1", got.Len())
	}
}

func TestLoadDatasetArgValidation(t *testing.T) {
	ctx := context.Background()
	if _, _, err := loadDataset(ctx, "", ""); err == nil {
		t.Error("missing source should fail")
	}
	if _, _, err := loadDataset(ctx, "some-run", "some.csv"); err == nil {
		t.Error("both sources should fail")
	}
}
