package components

import (
	"strconv"
	"strings"

	"github.com/theirongolddev/blossom/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Status is what the bottom bar shows besides the key hints.
type Status struct {
	Gifts  int
	Flash  string // transient message, e.g. after recording a gift
	Error  bool   // flash is a failure
	Synced string // e.g. "synced 3:04PM"
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, s Status) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	left := base.Render(" ") +
		keyStyle.Render("n") + base.Render(" new gift  ") +
		keyStyle.Render("r") + base.Render(" refresh  ") +
		keyStyle.Render("?") + base.Render(" help  ") +
		keyStyle.Render("q") + base.Render(" quit")

	var right string
	switch {
	case s.Flash != "" && s.Error:
		right = lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Render(s.Flash + " ")
	case s.Flash != "":
		right = lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface).Render(s.Flash + " ")
	default:
		info := FormatGiftCount(s.Gifts)
		if s.Synced != "" {
			info += " · " + s.Synced
		}
		right = base.Render(info + " ")
	}

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return left + base.Render(strings.Repeat(" ", gap)) + right
}

// FormatGiftCount renders "1 gift" or "N gifts".
func FormatGiftCount(n int) string {
	if n == 1 {
		return "1 gift"
	}
	return strconv.Itoa(n) + " gifts"
}
