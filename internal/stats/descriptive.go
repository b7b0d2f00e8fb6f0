// Package stats implements the statistical analysis pipeline: descriptive
// tables, the mixed-effects fitter with its optimizer fallback chain, and the
// hypothesis-test battery.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/tomitschek/crptrial/internal/domain"
)

// Describe computes per-(group, day) mean, median, standard deviation, and
// count over non-missing CRP values. Cells with no observations are not
// fabricated; cells with a single observation surface NaN deviation. The
// input dataset is never mutated, so repeated calls yield identical tables.
func Describe(ds *domain.Dataset) []domain.GroupDayStats {
	type cell struct {
		group domain.Group
		day   int
	}
	values := make(map[cell][]float64)
	for _, o := range ds.Observations {
		if o.Missing() {
			continue
		}
		key := cell{group: o.Group, day: o.Day}
		values[key] = append(values[key], o.CRP)
	}

	cells := make([]cell, 0, len(values))
	for key := range values {
		cells = append(cells, key)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].group != cells[j].group {
			return cells[i].group < cells[j].group
		}
		return cells[i].day < cells[j].day
	})

	table := make([]domain.GroupDayStats, 0, len(cells))
	for _, key := range cells {
		xs := append([]float64(nil), values[key]...)
		sort.Float64s(xs)
		table = append(table, domain.GroupDayStats{
			Group:  key.group,
			Day:    key.day,
			Mean:   domain.Float(stat.Mean(xs, nil)),
			Median: domain.Float(quantile(xs, 0.5)),
			Std:    domain.Float(stat.StdDev(xs, nil)),
			Count:  len(xs),
		})
	}
	return table
}

// Summarize computes column-wide summary statistics for the numeric columns.
func Summarize(ds *domain.Dataset) []domain.SummaryStats {
	days := make([]float64, 0, ds.Len())
	crps := make([]float64, 0, ds.Len())
	for _, o := range ds.Observations {
		days = append(days, float64(o.Day))
		if !o.Missing() {
			crps = append(crps, o.CRP)
		}
	}
	return []domain.SummaryStats{
		summarizeColumn("day", days),
		summarizeColumn("crp", crps),
	}
}

// MissingCounts counts null entries per column. Only crp can be missing;
// the other columns are reported for completeness.
func MissingCounts(ds *domain.Dataset) map[string]int {
	missing := 0
	for _, o := range ds.Observations {
		if o.Missing() {
			missing++
		}
	}
	return map[string]int{
		"patient_id": 0,
		"group":      0,
		"day":        0,
		"crp":        missing,
	}
}

func summarizeColumn(name string, xs []float64) domain.SummaryStats {
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	s := domain.SummaryStats{
		Column: name,
		Count:  len(sorted),
		Mean:   domain.NaN(),
		Std:    domain.NaN(),
		Min:    domain.NaN(),
		Q25:    domain.NaN(),
		Median: domain.NaN(),
		Q75:    domain.NaN(),
		Max:    domain.NaN(),
	}
	if len(sorted) == 0 {
		return s
	}
	s.Mean = domain.Float(stat.Mean(sorted, nil))
	s.Std = domain.Float(stat.StdDev(sorted, nil))
	s.Min = domain.Float(sorted[0])
	s.Q25 = domain.Float(quantile(sorted, 0.25))
	s.Median = domain.Float(quantile(sorted, 0.5))
	s.Q75 = domain.Float(quantile(sorted, 0.75))
	s.Max = domain.Float(sorted[len(sorted)-1])
	return s
}

// quantile linearly interpolates between order statistics on sorted input.
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
