package tui

import (
	"strings"

	"github.com/theirongolddev/blossom/internal/tui/components"
	"github.com/theirongolddev/blossom/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderStoriesTab(cw int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	tag := lipgloss.NewStyle().Foreground(t.Background).Background(t.AccentBright).Padding(0, 1)
	space := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	if len(a.content.Highlights) == 0 {
		return components.ContentCard("Field stories", muted.Render("No stories yet."), cw)
	}

	inner := components.CardInnerWidth(cw)
	cards := make([]string, 0, len(a.content.Highlights))
	for _, h := range a.content.Highlights {
		var body strings.Builder
		body.WriteString(dim.Render(h.Location + " · " + h.Timeframe))
		body.WriteString("\n")
		body.WriteString(muted.Render(lipgloss.NewStyle().Width(inner).Render(h.Summary)))
		if len(h.Categories) > 0 {
			body.WriteString("\n")
			for i, c := range h.Categories {
				if i > 0 {
					body.WriteString(space)
				}
				body.WriteString(tag.Render(c))
			}
		}
		cards = append(cards, components.ContentCard(h.Title, body.String(), cw))
	}
	return strings.Join(cards, "\n")
}
