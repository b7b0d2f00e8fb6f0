package stats

import (
	"fmt"

	"github.com/tomitschek/crptrial/internal/domain"
)

// Analyzer runs the complete pipeline over one dataset: descriptive tables,
// the mixed model, and the three group comparisons.
type Analyzer struct {
	Fitter *Fitter
}

// NewAnalyzer creates an analyzer with the default fitter.
func NewAnalyzer() *Analyzer {
	return &Analyzer{Fitter: NewFitter()}
}

// Analyze produces the full result bundle. Recoverable failures (optimizer
// fallback, skipped comparisons) are recorded as warnings or NaN entries;
// schema-level and model-level failures abort with a typed error.
func (a *Analyzer) Analyze(ds *domain.Dataset, opts ModelOptions) (*domain.AnalysisResult, error) {
	if ds == nil || ds.Len() == 0 {
		return nil, &domain.InsufficientDataError{Reason: "dataset is empty"}
	}

	result := &domain.AnalysisResult{
		Summary:     Summarize(ds),
		Descriptive: Describe(ds),
		Missing:     MissingCounts(ds),
	}

	model, err := a.Fitter.Fit(ds, opts)
	if err != nil {
		return nil, err
	}
	result.MixedModel = *model
	if model.FellBack {
		result.Warnings = append(result.Warnings, fmt.Sprintf("mixed model converged via the %s fallback", model.Optimizer))
	}

	result.DayTests = PerDayTests(ds)
	for _, dt := range result.DayTests {
		if dt.Err != "" {
			result.Warnings = append(result.Warnings, fmt.Sprintf("day %d comparison skipped: %s", dt.Day, dt.Err))
		}
	}

	result.MaxCRP, err = MaxCRPTest(ds)
	if err != nil {
		return nil, fmt.Errorf("maximum CRP comparison: %w", err)
	}

	result.TimeToNormalize = TimeToNormalizeTest(ds)
	if result.TimeToNormalize.Skipped() {
		result.Warnings = append(result.Warnings, "time-to-normalization comparison skipped: too few normalized patients per group")
	}

	return result, nil
}
