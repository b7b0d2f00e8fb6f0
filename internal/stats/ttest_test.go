package stats

import (
	"errors"
	"math"
	"testing"

	"github.com/tomitschek/crptrial/internal/domain"
)

func assertFloatNear(t *testing.T, name string, want, got, tol float64) {
	t.Helper()
	if math.IsNaN(want) {
		if !math.IsNaN(got) {
			t.Errorf("%s = %g, want NaN", name, got)
		}
		return
	}
	if math.Abs(want-got) > tol {
		t.Errorf("%s = %g, want %g (±%g)", name, got, want, tol)
	}
}

func TestTwoSampleT(t *testing.T) {
	tests := []struct {
		name  string
		x, y  []float64
		wantT float64
		wantP float64
	}{
		{
			name:  "unit shift",
			x:     []float64{1, 2, 3, 4, 5},
			y:     []float64{2, 3, 4, 5, 6},
			wantT: -1.0,
			wantP: 0.3466, // t=1, df=8
		},
		{
			name:  "strong separation",
			x:     []float64{1, 2, 3},
			y:     []float64{10, 11, 12},
			wantT: -11.0227,
			wantP: 0.00039,
		},
		{
			name:  "identical samples",
			x:     []float64{5, 6, 7},
			y:     []float64{5, 6, 7},
			wantT: 0,
			wantP: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := TwoSampleT(tt.x, tt.y)
			if err != nil {
				t.Fatalf("TwoSampleT: %v", err)
			}
			assertFloatNear(t, "t", tt.wantT, float64(result.T), 0.01)
			assertFloatNear(t, "p", tt.wantP, float64(result.P), 0.001)
		})
	}
}

func TestTwoSampleTInsufficientData(t *testing.T) {
	_, err := TwoSampleT([]float64{1}, []float64{2, 3})
	var insufficient *domain.InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("error = %v, want *InsufficientDataError", err)
	}

	_, err = TwoSampleT([]float64{1, 2}, nil)
	if !errors.As(err, &insufficient) {
		t.Fatalf("error = %v, want *InsufficientDataError", err)
	}
}

func TestTwoSampleTConstantSamples(t *testing.T) {
	// Identical constants carry no evidence; distinct constants are
	// infinitely separated.
	same, err := TwoSampleT([]float64{3, 3, 3}, []float64{3, 3})
	if err != nil {
		t.Fatalf("TwoSampleT: %v", err)
	}
	if !same.Skipped() {
		t.Errorf("identical constants: got %+v, want NaN result", same)
	}

	apart, err := TwoSampleT([]float64{1, 1}, []float64{9, 9})
	if err != nil {
		t.Fatalf("TwoSampleT: %v", err)
	}
	if float64(apart.P) != 0 {
		t.Errorf("distinct constants: p = %v, want 0", apart.P)
	}
}

func obsRow(id int64, group domain.Group, day int, crp float64) domain.Observation {
	return domain.Observation{PatientID: id, Group: group, Day: day, CRP: crp}
}

func TestPerDayTestsEmptyGroupSurfacedPerDay(t *testing.T) {
	ds := &domain.Dataset{Observations: []domain.Observation{
		// Day 0 has both arms, day 1 has only treated.
		obsRow(64000001, domain.GroupTreated, 0, 10),
		obsRow(64000002, domain.GroupTreated, 0, 12),
		obsRow(64000003, domain.GroupControl, 0, 20),
		obsRow(64000004, domain.GroupControl, 0, 22),
		obsRow(64000001, domain.GroupTreated, 1, 11),
		obsRow(64000002, domain.GroupTreated, 1, 13),
	}}

	results := PerDayTests(ds)
	if len(results) != 2 {
		t.Fatalf("got %d day results, want 2", len(results))
	}

	if results[0].Err != "" {
		t.Errorf("day 0 should succeed, got error %q", results[0].Err)
	}
	if results[0].P.IsNaN() {
		t.Error("day 0 p-value should be defined")
	}

	if results[1].Err == "" {
		t.Error("day 1 should record an insufficient-data error")
	}
	if !results[1].P.IsNaN() {
		t.Errorf("day 1 p = %v, want NaN", results[1].P)
	}
	if !results[1].ControlMean.IsNaN() {
		t.Errorf("day 1 control mean = %v, want NaN", results[1].ControlMean)
	}
	assertFloatNear(t, "day 1 treated mean", 12, float64(results[1].TreatedMean), 1e-9)
}

func TestMaxCRPTest(t *testing.T) {
	ds := &domain.Dataset{Observations: []domain.Observation{
		obsRow(64000001, domain.GroupTreated, 0, 50),
		obsRow(64000001, domain.GroupTreated, 1, 120),
		obsRow(64000002, domain.GroupTreated, 0, 110),
		obsRow(64000002, domain.GroupTreated, 1, 90),
		obsRow(64000003, domain.GroupControl, 0, 160),
		obsRow(64000003, domain.GroupControl, 1, 140),
		obsRow(64000004, domain.GroupControl, 0, 150),
		obsRow(64000004, domain.GroupControl, 1, 170),
	}}

	// Per-patient maxima: treated 120, 110; control 160, 170.
	result, err := MaxCRPTest(ds)
	if err != nil {
		t.Fatalf("MaxCRPTest: %v", err)
	}
	if float64(result.T) >= 0 {
		t.Errorf("t = %v, want negative (treated maxima are lower)", result.T)
	}
	if result.P.IsNaN() {
		t.Error("p-value should be defined")
	}
}

func TestMaxCRPTestAbortsOnSingleton(t *testing.T) {
	ds := &domain.Dataset{Observations: []domain.Observation{
		obsRow(64000001, domain.GroupTreated, 0, 50),
		obsRow(64000003, domain.GroupControl, 0, 160),
		obsRow(64000004, domain.GroupControl, 0, 150),
	}}

	_, err := MaxCRPTest(ds)
	var insufficient *domain.InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("error = %v, want *InsufficientDataError", err)
	}
}

func TestTimeToNormalizeTest(t *testing.T) {
	// Treated normalize on days 2 and 3, control on days 4 and 5.
	ds := &domain.Dataset{Observations: []domain.Observation{
		obsRow(64000001, domain.GroupTreated, 2, 90),
		obsRow(64000002, domain.GroupTreated, 3, 80),
		obsRow(64000003, domain.GroupControl, 4, 95),
		obsRow(64000004, domain.GroupControl, 5, 85),
	}}

	result := TimeToNormalizeTest(ds)
	assertFloatNear(t, "t", -2.828, float64(result.T), 0.01)
	assertFloatNear(t, "p", 0.1056, float64(result.P), 0.005)
}

func TestTimeToNormalizeTestSkipPolicy(t *testing.T) {
	// One normalized patient per arm: skipped, not an error.
	ds := &domain.Dataset{Observations: []domain.Observation{
		obsRow(64000001, domain.GroupTreated, 2, 90),
		obsRow(64000002, domain.GroupTreated, 3, 150),
		obsRow(64000003, domain.GroupControl, 4, 95),
		obsRow(64000004, domain.GroupControl, 5, 180),
	}}

	result := TimeToNormalizeTest(ds)
	if !result.Skipped() {
		t.Fatalf("got %+v, want skipped (NaN, NaN)", result)
	}
}
