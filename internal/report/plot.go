package report

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/tomitschek/crptrial/internal/domain"
	"github.com/tomitschek/crptrial/internal/stats"
)

// SaveTrajectoryPlot writes a PNG of the mean CRP trajectory per group with
// standard-error bars.
func SaveTrajectoryPlot(ds *domain.Dataset, path string) error {
	p := plot.New()
	p.Title.Text = "Mean CRP by day"
	p.X.Label.Text = "day"
	p.Y.Label.Text = "CRP (mg/L)"
	p.Legend.Top = true

	colors := map[domain.Group]color.RGBA{
		domain.GroupTreated: {R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
		domain.GroupControl: {R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	}

	cells := stats.Describe(ds)
	for _, group := range []domain.Group{domain.GroupTreated, domain.GroupControl} {
		var xys plotter.XYs
		var yerrs plotter.YErrors
		for _, cell := range cells {
			if cell.Group != group || cell.Mean.IsNaN() {
				continue
			}
			xys = append(xys, plotter.XY{X: float64(cell.Day), Y: float64(cell.Mean)})
			sem := 0.0
			if !cell.Std.IsNaN() && cell.Count > 0 {
				sem = float64(cell.Std) / math.Sqrt(float64(cell.Count))
			}
			yerrs = append(yerrs, struct{ Low, High float64 }{Low: sem, High: sem})
		}
		if len(xys) == 0 {
			continue
		}

		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return fmt.Errorf("failed to build %s series: %w", group, err)
		}
		line.Color = colors[group]
		points.Color = colors[group]

		bars, err := plotter.NewYErrorBars(struct {
			plotter.XYs
			plotter.YErrors
		}{xys, yerrs})
		if err != nil {
			return fmt.Errorf("failed to build %s error bars: %w", group, err)
		}
		bars.LineStyle.Color = colors[group]

		p.Add(line, points, bars)
		p.Legend.Add(string(group), line, points)
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}
