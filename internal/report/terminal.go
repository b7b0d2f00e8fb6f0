package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tomitschek/crptrial/internal/domain"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	sectionStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	signifStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// RenderTerminal renders a compact, styled summary of the analysis for
// interactive use.
func RenderTerminal(result *domain.AnalysisResult) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("CRP Trial Analysis"))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("Mixed-effects model"))
	fmt.Fprintf(&b, " %s\n", mutedStyle.Render("(optimizer: "+result.MixedModel.Optimizer+")"))
	for _, c := range result.MixedModel.Coefficients {
		line := fmt.Sprintf("  %-22s %10s  (p=%s)", c.Term, formatFloat(c.Estimate), formatP(c.P))
		if !c.P.IsNaN() && float64(c.P) < 0.05 {
			line = signifStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Group comparison per day"))
	b.WriteString("\n")
	for _, dt := range result.DayTests {
		if dt.Err != "" {
			fmt.Fprintf(&b, "  day %d: %s\n", dt.Day, warningStyle.Render(dt.Err))
			continue
		}
		line := fmt.Sprintf("  day %d: treated %s vs control %s  (p=%s)",
			dt.Day, formatFloat(dt.TreatedMean), formatFloat(dt.ControlMean), formatP(dt.P))
		if !dt.P.IsNaN() && float64(dt.P) < 0.05 {
			line = signifStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Secondary endpoints"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  maximum CRP:        t=%s p=%s\n", formatFloat(result.MaxCRP.T), formatP(result.MaxCRP.P))
	if result.TimeToNormalize.Skipped() {
		fmt.Fprintf(&b, "  days to normalize:  %s\n", mutedStyle.Render("skipped"))
	} else {
		fmt.Fprintf(&b, "  days to normalize:  t=%s p=%s\n", formatFloat(result.TimeToNormalize.T), formatP(result.TimeToNormalize.P))
	}

	if len(result.Warnings) > 0 {
		b.WriteString("\n")
		b.WriteString(warningStyle.Render("Warnings"))
		b.WriteString("\n")
		for _, warning := range result.Warnings {
			fmt.Fprintf(&b, "  %s\n", warningStyle.Render(warning))
		}
	}

	return b.String()
}
