package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tomitschek/crptrial/internal/app"
	"github.com/tomitschek/crptrial/internal/dataio"
	"github.com/tomitschek/crptrial/internal/domain"
)

// resolveOutputPath places relative paths under the configured output
// directory, creating it if needed. Absolute paths are used as-is.
func resolveOutputPath(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}

	cfg, err := app.Load()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return filepath.Join(cfg.OutputDir, path), nil
}

// loadDataset reads a dataset either from a stored run or from a CSV file.
// Exactly one of runID and inputPath must be set.
func loadDataset(ctx context.Context, runID, inputPath string) (*domain.Dataset, *domain.Run, error) {
	switch {
	case runID != "" && inputPath != "":
		return nil, nil, fmt.Errorf("--run and --input are mutually exclusive")
	case runID != "":
		appCtx, err := NewAppContext(ctx)
		if err != nil {
			return nil, nil, err
		}
		defer appCtx.Close()

		run, err := appCtx.RunRepo.GetByID(ctx, runID)
		if err != nil {
			return nil, nil, err
		}
		if run == nil {
			return nil, nil, fmt.Errorf("run %s not found", runID)
		}
		ds, err := appCtx.ObservationRepo.ListByRunID(ctx, runID)
		if err != nil {
			return nil, nil, err
		}
		return ds, run, nil
	case inputPath != "":
		ds, err := dataio.Load(inputPath)
		if err != nil {
			return nil, nil, err
		}
		return ds, nil, nil
	default:
		return nil, nil, fmt.Errorf("either --run or --input is required")
	}
}
