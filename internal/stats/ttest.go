package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/tomitschek/crptrial/internal/domain"
)

// TwoSampleT runs a classic pooled-variance two-sample Student's t-test and
// returns the statistic with its two-sided p-value. Each sample needs at
// least two observations; otherwise the pooled variance is not defined and
// an InsufficientDataError is returned.
func TwoSampleT(x, y []float64) (domain.TestResult, error) {
	skipped := domain.TestResult{T: domain.NaN(), P: domain.NaN()}
	if len(x) < 2 || len(y) < 2 {
		return skipped, &domain.InsufficientDataError{
			Reason: fmt.Sprintf("need at least 2 observations per group, got %d and %d", len(x), len(y)),
		}
	}

	nx, ny := float64(len(x)), float64(len(y))
	meanX, meanY := stat.Mean(x, nil), stat.Mean(y, nil)
	varX, varY := stat.Variance(x, nil), stat.Variance(y, nil)

	df := nx + ny - 2
	pooled := ((nx-1)*varX + (ny-1)*varY) / df
	se := math.Sqrt(pooled * (1/nx + 1/ny))
	if se == 0 {
		// Two constant samples. Identical means give no evidence either
		// way; distinct means are infinitely separated.
		if meanX == meanY {
			return skipped, nil
		}
		return domain.TestResult{T: domain.Float(math.Inf(sign(meanX - meanY))), P: 0}, nil
	}

	t := (meanX - meanY) / se
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * dist.CDF(-math.Abs(t))
	return domain.TestResult{T: domain.Float(t), P: domain.Float(p)}, nil
}

// PerDayTests compares the arms at every day present in the dataset, sorted
// ascending. A day with too little data records its error and NaN p-value;
// the remaining days still run.
func PerDayTests(ds *domain.Dataset) []domain.DayTestResult {
	days := ds.Days()
	results := make([]domain.DayTestResult, 0, len(days))
	for _, day := range days {
		treated, control := ds.CRPByGroup(day)
		r := domain.DayTestResult{
			Day:         day,
			P:           domain.NaN(),
			TreatedMean: meanOrNaN(treated),
			ControlMean: meanOrNaN(control),
		}
		test, err := TwoSampleT(treated, control)
		if err != nil {
			r.Err = err.Error()
		} else {
			r.P = test.P
		}
		results = append(results, r)
	}
	return results
}

// MaxCRPTest collapses every patient to the maximum CRP in their trajectory
// and compares the arms. Unlike the per-day tests this has no graceful
// degradation path, so an insufficient group aborts the analysis.
func MaxCRPTest(ds *domain.Dataset) (domain.TestResult, error) {
	var treated, control []float64
	for id, trajectory := range ds.ByPatient() {
		maxCRP := math.Inf(-1)
		for _, o := range trajectory {
			if !o.Missing() && o.CRP > maxCRP {
				maxCRP = o.CRP
			}
		}
		if math.IsInf(maxCRP, -1) {
			continue // all values missing for this patient
		}
		group, _ := ds.GroupOf(id)
		switch group {
		case domain.GroupTreated:
			treated = append(treated, maxCRP)
		case domain.GroupControl:
			control = append(control, maxCRP)
		}
	}
	return TwoSampleT(treated, control)
}

// TimeToNormalizeTest compares days-to-normalization between the arms,
// restricted to patients that did normalize. With one or fewer normalized
// patients in either arm the comparison is skipped and reported as NaN
// rather than failing, deliberately looser than the per-day policy.
func TimeToNormalizeTest(ds *domain.Dataset) domain.TestResult {
	var treated, control []float64
	for id, trajectory := range ds.ByPatient() {
		day, ok := domain.DaysToNormalize(trajectory)
		if !ok {
			continue
		}
		group, _ := ds.GroupOf(id)
		switch group {
		case domain.GroupTreated:
			treated = append(treated, float64(day))
		case domain.GroupControl:
			control = append(control, float64(day))
		}
	}
	if len(treated) <= 1 || len(control) <= 1 {
		return domain.TestResult{T: domain.NaN(), P: domain.NaN()}
	}
	test, err := TwoSampleT(treated, control)
	if err != nil {
		return domain.TestResult{T: domain.NaN(), P: domain.NaN()}
	}
	return test
}

func meanOrNaN(xs []float64) domain.Float {
	if len(xs) == 0 {
		return domain.NaN()
	}
	return domain.Float(stat.Mean(xs, nil))
}

func sign(v float64) int {
	if v < 0 {
		return -1
	}
	return 1
}
