package tui

import (
	"strings"

	"github.com/theirongolddev/blossom/internal/cli"
	"github.com/theirongolddev/blossom/internal/model"
	"github.com/theirongolddev/blossom/internal/tui/components"
	"github.com/theirongolddev/blossom/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderOverviewTab(cw int) string {
	var b strings.Builder

	// Row 1: ledger tiles
	tiles := cli.MetricTiles(a.metrics)
	metrics := make([]components.Metric, len(tiles))
	for i, tile := range tiles {
		metrics[i] = components.Metric{Label: tile.Label, Value: tile.Value, Helper: tile.Helper}
	}
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	// Row 2: alliance-wide headline numbers
	if len(a.content.Summary) > 0 {
		hero := make([]components.Metric, len(a.content.Summary))
		for i, s := range a.content.Summary {
			trend := cli.FormatTrend(s.Trend)
			helper := s.Sublabel
			if trend != "" && s.TrendLabel != "" {
				helper = s.TrendLabel + " · " + s.Sublabel
			}
			hero[i] = components.Metric{Label: s.Title, Value: s.Value, Helper: helper, Trend: trend}
		}
		if a.isCompactLayout() && len(hero) > 2 {
			b.WriteString(components.MetricCardRow(hero[:2], cw))
			b.WriteString("\n")
			b.WriteString(components.MetricCardRow(hero[2:], cw))
		} else {
			b.WriteString(components.MetricCardRow(hero, cw))
		}
		b.WriteString("\n")
	}

	// Row 3: monthly giving and focus split
	if a.isCompactLayout() {
		b.WriteString(a.renderMonthlyCard(cw))
		b.WriteString("\n")
		b.WriteString(a.renderFocusCard(cw))
		return b.String()
	}
	widths := components.LayoutRow(cw, 2)
	b.WriteString(components.CardRow([]string{
		a.renderMonthlyCard(widths[0]),
		a.renderFocusCard(widths[1]),
	}))
	return b.String()
}

func (a App) renderMonthlyCard(w int) string {
	values := make([]float64, len(a.months))
	labels := make([]string, len(a.months))
	for i, m := range a.months {
		values[i] = m.Total.InexactFloat64()
		labels[i] = m.Month.Format("Jan")
	}
	chart := components.BarChart(values, labels, components.CardInnerWidth(w), 8)
	return components.ContentCard("Monthly giving", chart, w)
}

func (a App) renderFocusCard(w int) string {
	t := theme.Active
	inner := components.CardInnerWidth(w)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	if a.metrics.GiftCount == 0 {
		return components.ContentCard("By focus area", muted.Render(cli.EmptyLedger), w)
	}

	peak := 0.0
	for _, area := range model.FocusAreas() {
		peak = max(peak, a.metrics.ByFocusArea[area].InexactFloat64())
	}

	labelW := 22
	suffixW := 10
	barW := max(inner-labelW-suffixW-2, 6)

	var b strings.Builder
	for i, area := range model.FocusAreas() {
		total := a.metrics.ByFocusArea[area]
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(components.HBar(string(area), total.InexactFloat64(), peak, labelW, barW,
			focusColor(area), cli.FormatMoney(total)))
	}

	b.WriteString("\n\n")
	for i, fs := range a.freqs {
		if i > 0 {
			b.WriteString(muted.Render("  "))
		}
		b.WriteString(muted.Render(string(fs.Frequency) + " " + cli.FormatNumber(int64(fs.Gifts))))
	}
	return components.ContentCard("By focus area", b.String(), w)
}

// focusColor maps a focus area onto the active theme.
func focusColor(a model.FocusArea) lipgloss.Color {
	t := theme.Active
	switch a {
	case model.CommunityNourishment:
		return t.Accent
	case model.HealingArts:
		return t.Orange
	case model.SafeHarborHousing:
		return t.Green
	}
	return t.TextMuted
}
