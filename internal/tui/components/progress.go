package components

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/blossom/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders a block bar followed by its percentage. pct is 0..1.
func ProgressBar(pct float64, width int) string {
	t := theme.Active
	pct = clamp01(pct)
	filled := min(int(pct*float64(width)), width)
	barColor := lipgloss.Color(ColorForPct(pct))

	filledStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(barColor).Background(t.Surface).Bold(true)

	var b strings.Builder
	b.WriteString(filledStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(emptyStyle.Render(strings.Repeat("░", width-filled)))
	b.WriteString(emptyStyle.Render(" "))
	b.WriteString(pctStyle.Render(fmt.Sprintf("%.0f%%", pct*100)))
	return b.String()
}

// ColorForPct colors goal progress: accent until halfway, then orange,
// green from 90%.
func ColorForPct(pct float64) string {
	t := theme.Active
	switch {
	case pct >= 0.9:
		return string(t.Green)
	case pct >= 0.5:
		return string(t.Accent)
	default:
		return string(t.Orange)
	}
}

// GoalBar renders a labelled campaign progress bar. pct is 0..1.
func GoalBar(label string, pct float64, labelW, barWidth int) string {
	t := theme.Active
	pct = clamp01(pct)

	bar := progress.New(
		progress.WithSolidFill(ColorForPct(pct)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorForPct(pct))).Background(t.Surface).Bold(true)
	space := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	out := bar.ViewAs(pct) + space + pctStyle.Render(fmt.Sprintf("%3.0f%%", pct*100))
	if labelW > 0 {
		out = labelStyle.Render(padRight(truncateWidth(label, labelW), labelW)) + space + out
	}
	return out
}

func clamp01(f float64) float64 {
	return min(max(f, 0), 1)
}
