// Package report renders analysis results as markdown, styled terminal
// output, and trajectory plots.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/tomitschek/crptrial/internal/domain"
)

// WriteMarkdown renders the full analysis result as a markdown report.
func WriteMarkdown(w io.Writer, run *domain.Run, result *domain.AnalysisResult) error {
	fmt.Fprintln(w, "# CRP Trial Analysis")
	fmt.Fprintln(w)
	if run != nil {
		fmt.Fprintf(w, "Run `%s` generated %s (seed %d, %d patients per group", run.ID, run.CreatedAt.Format("2006-01-02 15:04"), run.Seed, run.NPerGroup)
		if len(run.Effects) > 0 {
			fmt.Fprintf(w, ", day effects %s", run.Effects.String())
		}
		fmt.Fprintln(w, ").")
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "## Dataset summary")
	fmt.Fprintln(w)
	summary := markdownTable(w, []string{"column", "count", "mean", "std", "min", "q25", "median", "q75", "max"})
	for _, s := range result.Summary {
		summary.Append([]string{
			s.Column, strconv.Itoa(s.Count),
			formatFloat(s.Mean), formatFloat(s.Std), formatFloat(s.Min),
			formatFloat(s.Q25), formatFloat(s.Median), formatFloat(s.Q75), formatFloat(s.Max),
		})
	}
	summary.Render()
	fmt.Fprintln(w)

	if countMissing(result.Missing) > 0 {
		fmt.Fprintln(w, "## Missing values")
		fmt.Fprintln(w)
		missing := markdownTable(w, []string{"column", "missing"})
		for _, column := range []string{"patient_id", "group", "day", "crp"} {
			missing.Append([]string{column, strconv.Itoa(result.Missing[column])})
		}
		missing.Render()
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "## CRP by group and day")
	fmt.Fprintln(w)
	descriptive := markdownTable(w, []string{"group", "day", "mean", "median", "std", "n"})
	for _, cell := range result.Descriptive {
		descriptive.Append([]string{
			string(cell.Group), strconv.Itoa(cell.Day),
			formatFloat(cell.Mean), formatFloat(cell.Median), formatFloat(cell.Std),
			strconv.Itoa(cell.Count),
		})
	}
	descriptive.Render()
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Mixed-effects model")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Random intercept per patient, fitted with %s", result.MixedModel.Optimizer)
	if result.MixedModel.FellBack {
		fmt.Fprint(w, " (after optimizer fallback)")
	}
	fmt.Fprintln(w, ".")
	fmt.Fprintln(w)
	model := markdownTable(w, []string{"term", "estimate", "std err", "z", "p"})
	for _, c := range result.MixedModel.Coefficients {
		model.Append([]string{
			c.Term, formatFloat(c.Estimate), formatFloat(c.StdErr),
			formatFloat(c.Z), formatP(c.P),
		})
	}
	model.Render()
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Random intercept variance %s, residual variance %s, log-likelihood %s.\n",
		formatFloat(result.MixedModel.RandomInterceptVar),
		formatFloat(result.MixedModel.ResidualVar),
		formatFloat(result.MixedModel.LogLikelihood))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Group comparison per day")
	fmt.Fprintln(w)
	days := markdownTable(w, []string{"day", "treated mean", "control mean", "p", "note"})
	for _, dt := range result.DayTests {
		days.Append([]string{
			strconv.Itoa(dt.Day),
			formatFloat(dt.TreatedMean), formatFloat(dt.ControlMean),
			formatP(dt.P), dt.Err,
		})
	}
	days.Render()
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Secondary endpoints")
	fmt.Fprintln(w)
	secondary := markdownTable(w, []string{"endpoint", "t", "p"})
	secondary.Append([]string{"maximum CRP", formatFloat(result.MaxCRP.T), formatP(result.MaxCRP.P)})
	secondary.Append([]string{"days to normalize", formatFloat(result.TimeToNormalize.T), formatP(result.TimeToNormalize.P)})
	secondary.Render()
	fmt.Fprintln(w)

	if len(result.Warnings) > 0 {
		fmt.Fprintln(w, "## Warnings")
		fmt.Fprintln(w)
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "- %s\n", warning)
		}
		fmt.Fprintln(w)
	}

	return nil
}

func markdownTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	return table
}

func formatFloat(f domain.Float) string {
	if f.IsNaN() {
		return "NA"
	}
	return strconv.FormatFloat(float64(f), 'f', 4, 64)
}

func formatP(p domain.Float) string {
	if p.IsNaN() {
		return "NA"
	}
	if float64(p) < 0.0001 {
		return "<0.0001"
	}
	return strconv.FormatFloat(float64(p), 'f', 4, 64)
}

func countMissing(missing map[string]int) int {
	total := 0
	for _, n := range missing {
		total += n
	}
	return total
}
