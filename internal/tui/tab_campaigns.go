package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/blossom/internal/cli"
	"github.com/theirongolddev/blossom/internal/pipeline"
	"github.com/theirongolddev/blossom/internal/tui/components"
	"github.com/theirongolddev/blossom/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderCampaignsTab(cw int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	text := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	money := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	tick := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)

	var b strings.Builder

	campaigns := a.content.Campaigns
	if len(campaigns) > 0 {
		perRow := 3
		if a.isCompactLayout() {
			perRow = 1
		}
		for start := 0; start < len(campaigns); start += perRow {
			row := campaigns[start:min(start+perRow, len(campaigns))]
			widths := components.LayoutRow(cw, perRow)
			cards := make([]string, len(row))
			for i, c := range row {
				inner := components.CardInnerWidth(widths[i])
				pct := float64(pipeline.CampaignProgress(c)) / 100

				var body strings.Builder
				body.WriteString(dim.Render(c.Focus + " · " + c.DeadlineLabel))
				body.WriteString("\n")
				body.WriteString(muted.Render(lipgloss.NewStyle().Width(inner).Render(c.Description)))
				body.WriteString("\n\n")
				body.WriteString(components.GoalBar("", pct, 0, max(inner-5, 8)))
				body.WriteString("\n")
				body.WriteString(money.Render(cli.FormatDollars(c.Raised)))
				body.WriteString(muted.Render(" of " + cli.FormatDollars(c.Goal)))
				body.WriteString(dim.Render(fmt.Sprintf(" · %d supporters", c.Supporters)))
				for _, h := range c.Highlights {
					body.WriteString("\n")
					body.WriteString(tick.Render("✓ "))
					body.WriteString(text.Render(cli.Truncate(h, inner-2)))
				}
				cards[i] = components.ContentCard(c.Name, body.String(), widths[i])
			}
			b.WriteString(components.CardRow(cards))
			b.WriteString("\n")
		}
	}

	if len(a.shares) > 0 {
		inner := components.CardInnerWidth(cw)
		labelW := 24
		suffixW := 18
		barW := max(inner-labelW-suffixW-2, 8)
		peak := 0.0
		for _, s := range a.shares {
			peak = max(peak, s.Value)
		}

		var body strings.Builder
		for i, s := range a.shares {
			if i > 0 {
				body.WriteString("\n")
			}
			color := theme.Hex(s.Color, t.Accent)
			suffix := fmt.Sprintf("%s  %s", cli.FormatDollars(s.Value), cli.FormatPercent(s.Percent))
			body.WriteString(components.HBar(s.Label, s.Value, peak, labelW, barW, color, suffix))
			body.WriteString("\n")
			body.WriteString(dim.Render(strings.Repeat(" ", labelW+1) + cli.Truncate(s.Descriptor, max(inner-labelW-1, 10))))
		}
		b.WriteString(components.ContentCard("Where funding goes", body.String(), cw))
	}

	return strings.TrimSuffix(b.String(), "\n")
}
