package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/blossom/internal/cli"
	"github.com/theirongolddev/blossom/internal/tui/components"
	"github.com/theirongolddev/blossom/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// giftsState tracks the ledger list cursor. offset is the first visible row.
type giftsState struct {
	cursor int
	offset int
}

func (g *giftsState) move(delta, n int) {
	g.cursor += delta
	g.clamp(n)
}

func (g *giftsState) clamp(n int) {
	g.cursor = min(max(g.cursor, 0), max(n-1, 0))
	g.offset = min(g.offset, g.cursor)
}

// scroll keeps the cursor inside a window of visible rows.
func (g *giftsState) scroll(visible int) {
	if g.cursor < g.offset {
		g.offset = g.cursor
	}
	if g.cursor >= g.offset+visible {
		g.offset = g.cursor - visible + 1
	}
}

// updateGiftsKey handles list navigation; it reports whether key was used.
func (a *App) updateGiftsKey(key string) bool {
	n := a.snap.Len()
	switch key {
	case "j", "down":
		a.gifts.move(1, n)
	case "k", "up":
		a.gifts.move(-1, n)
	case "home":
		a.gifts.cursor = 0
		a.gifts.offset = 0
	case "end", "G":
		a.gifts.cursor = max(n-1, 0)
	case "ctrl+d", "pgdown":
		a.gifts.move(10, n)
	case "ctrl+u", "pgup":
		a.gifts.move(-10, n)
	default:
		return false
	}
	a.gifts.scroll(a.giftRows())
	return true
}

// giftRows is how many ledger rows fit: the window minus the tab bar,
// status bar, detail card and table chrome.
func (a App) giftRows() int {
	return max(a.height-14, 3)
}

// giftColumns are the ledger column widths; the last one absorbs slack.
var giftColumns = []int{22, 22, 11, 11, 13}

func (a App) renderGiftsTab(cw, h int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	if a.snap.Len() == 0 {
		return components.ContentCard("Gift ledger", muted.Render(cli.EmptyLedger), cw)
	}

	detail := a.renderGiftDetail(cw)
	// card border + title + header + rule
	visible := min(max(h-lipgloss.Height(detail)-5, 3), a.giftRows())
	a.gifts.scroll(visible)

	inner := components.CardInnerWidth(cw)
	widths := append([]int(nil), giftColumns...)
	used := 0
	for _, w := range widths {
		used += w + 1
	}
	widths = append(widths, max(inner-used, 8))

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	ruleStyle := lipgloss.NewStyle().Foreground(t.Border).Background(t.Surface)

	var b strings.Builder
	b.WriteString(headerStyle.Render(giftLine(cli.GiftHeaders, widths)))
	b.WriteString("\n")
	b.WriteString(ruleStyle.Render(strings.Repeat("─", inner)))

	end := min(a.gifts.offset+visible, a.snap.Len())
	for i := a.gifts.offset; i < end; i++ {
		line := giftLine(cli.GiftRow(a.snap.At(i)), widths)
		b.WriteString("\n")
		if i == a.gifts.cursor {
			b.WriteString(selStyle.Render(line))
		} else {
			b.WriteString(rowStyle.Render(line))
		}
	}

	title := fmt.Sprintf("Gift ledger · %d of %d", a.gifts.cursor+1, a.snap.Len())
	return components.ContentCard(title, b.String(), cw) + "\n" + detail
}

// giftLine lays cells out in fixed columns; Amount is right-aligned.
func giftLine(cells []string, widths []int) string {
	var b strings.Builder
	for i, c := range cells {
		if i >= len(widths) {
			break
		}
		if i > 0 {
			b.WriteString(" ")
		}
		w := widths[i]
		if ansi.StringWidth(c) > w {
			c = ansi.Truncate(c, w, "…")
		}
		gap := strings.Repeat(" ", max(w-ansi.StringWidth(c), 0))
		if i == 2 {
			b.WriteString(gap + c)
		} else {
			b.WriteString(c + gap)
		}
	}
	return b.String()
}

func (a App) renderGiftDetail(cw int) string {
	t := theme.Active
	if a.snap.Len() == 0 {
		return ""
	}
	r := a.snap.At(a.gifts.cursor)

	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	money := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	area := lipgloss.NewStyle().Foreground(focusColor(r.FocusArea)).Background(t.Surface)

	kind := "one-time gift"
	if r.Frequency.Recurring() {
		kind = strings.ToLower(string(r.Frequency)) + " recurring gift"
	}

	body := money.Render(cli.FormatMoney(r.Amount)) +
		label.Render(" "+kind+" to ") + area.Render(string(r.FocusArea)) +
		label.Render(" on ") + value.Render(cli.FormatDate(r.Date)) + "\n" +
		label.Render("Notes  ") + value.Render(cli.Truncate(cli.FormatNote(r.Note), components.CardInnerWidth(cw)-7)) + "\n" +
		label.Render("ID     ") + label.Render(r.ID)
	return components.ContentCard(r.Donor, body, cw)
}
