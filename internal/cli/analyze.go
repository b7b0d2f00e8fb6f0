package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomitschek/crptrial/internal/report"
	"github.com/tomitschek/crptrial/internal/stats"
)

var (
	analyzeRunID       string
	analyzeInput       string
	analyzeInteraction bool
	analyzeReport      string
	analyzePlot        string
	analyzeJSON        string
	analyzeSave        bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a CRP dataset",
	Long: `Analyze a dataset from a stored run or a tidy CSV file: descriptive
statistics, a random-intercept mixed model, per-day group comparisons, and
the maximum-CRP and time-to-normalization endpoints.

Examples:
  crptrial analyze --input crp_data.csv
  crptrial analyze --run 6e9a8f50-... --interaction --report report.md
  crptrial analyze --run 6e9a8f50-... --save --plot trajectory.png`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeRunID, "run", "", "analyze a stored run by id")
	analyzeCmd.Flags().StringVarP(&analyzeInput, "input", "i", "", "analyze a tidy CSV file")
	analyzeCmd.Flags().BoolVar(&analyzeInteraction, "interaction", false, "include a group-by-day interaction term")
	analyzeCmd.Flags().StringVar(&analyzeReport, "report", "", "write a markdown report to this path")
	analyzeCmd.Flags().StringVar(&analyzePlot, "plot", "", "write a trajectory plot (PNG) to this path")
	analyzeCmd.Flags().StringVar(&analyzeJSON, "json", "", "write the full result as JSON to this path")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "store the result with the run (requires --run)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analyzeSave && analyzeRunID == "" {
		return fmt.Errorf("--save requires --run")
	}

	ctx := context.Background()
	ds, run, err := loadDataset(ctx, analyzeRunID, analyzeInput)
	if err != nil {
		return err
	}

	result, err := stats.NewAnalyzer().Analyze(ds, stats.ModelOptions{Interaction: analyzeInteraction})
	if err != nil {
		return err
	}

	fmt.Print(report.RenderTerminal(result))

	if analyzeReport != "" {
		path, err := resolveOutputPath(analyzeReport)
		if err != nil {
			return err
		}
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create report: %w", err)
		}
		if err := report.WriteMarkdown(f, run, result); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Printf("Wrote report to %s\n", path)
	}

	if analyzePlot != "" {
		path, err := resolveOutputPath(analyzePlot)
		if err != nil {
			return err
		}
		if err := report.SaveTrajectoryPlot(ds, path); err != nil {
			return err
		}
		fmt.Printf("Wrote plot to %s\n", path)
	}

	if analyzeJSON != "" {
		path, err := resolveOutputPath(analyzeJSON)
		if err != nil {
			return err
		}
		payload, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		if err := os.WriteFile(path, payload, 0o644); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
		fmt.Printf("Wrote result to %s\n", path)
	}

	if analyzeSave {
		appCtx, err := NewAppContext(ctx)
		if err != nil {
			return err
		}
		defer appCtx.Close()
		if err := appCtx.AnalysisRepo.Save(ctx, analyzeRunID, result); err != nil {
			return err
		}
		fmt.Printf("Saved analysis for run %s\n", analyzeRunID)
	}

	return nil
}
