package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/blossom/internal/cli"
	"github.com/theirongolddev/blossom/internal/impact"
	"github.com/theirongolddev/blossom/internal/tui/components"
	"github.com/theirongolddev/blossom/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// calcState is the impact calculator's inputs.
type calcState struct {
	program int
	amount  int
	cadence impact.Cadence
}

func (c *calcState) nudge(steps int) {
	c.amount = impact.Clamp(c.amount + steps*impact.AmountStep)
}

func (c *calcState) selectProgram(i int) {
	n := len(impact.Programs())
	c.program = ((i % n) + n) % n
}

func (c *calcState) toggleCadence() {
	if c.cadence == impact.CadenceMonthly {
		c.cadence = impact.CadenceOneTime
	} else {
		c.cadence = impact.CadenceMonthly
	}
}

func (c calcState) projection() impact.Projection {
	return impact.Project(impact.Programs()[c.program], c.amount, c.cadence)
}

// updateCalcKey adjusts the calculator; it reports whether key was used.
func (a *App) updateCalcKey(key string) bool {
	switch key {
	case "up", "k", "+", "=":
		a.calc.nudge(1)
	case "down", "j", "-":
		a.calc.nudge(-1)
	case "pgup":
		a.calc.nudge(10)
	case "pgdown":
		a.calc.nudge(-10)
	case "]":
		a.calc.selectProgram(a.calc.program + 1)
	case "[":
		a.calc.selectProgram(a.calc.program - 1)
	case "1", "2", "3":
		a.calc.selectProgram(int(key[0] - '1'))
	case "m":
		a.calc.toggleCadence()
	default:
		return false
	}
	return true
}

func (a App) renderCalculatorTab(cw int) string {
	t := theme.Active
	p := a.calc.projection()

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	text := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	sel := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	big := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)

	var left, right int
	if a.isCompactLayout() {
		left, right = cw, cw
	} else {
		widths := components.LayoutRow(cw, 2)
		left, right = widths[0], widths[1]
	}
	inner := components.CardInnerWidth(left)

	// Inputs
	var in strings.Builder
	for i, prog := range impact.Programs() {
		marker, style := "  ", text
		if i == a.calc.program {
			marker, style = "▸ ", sel
		}
		in.WriteString(sel.Render(marker))
		in.WriteString(dim.Render(fmt.Sprintf("%d ", i+1)))
		in.WriteString(style.Render(prog.Name))
		in.WriteString("\n")
		if i == a.calc.program {
			in.WriteString(muted.Render("    " + cli.Truncate(prog.Description, inner-4)))
			in.WriteString("\n")
		}
	}
	in.WriteString("\n")
	in.WriteString(muted.Render("Gift amount  "))
	in.WriteString(big.Render(cli.FormatDollars(float64(p.Amount))))
	in.WriteString("\n")
	pct := float64(p.Amount-impact.MinAmount) / float64(impact.MaxAmount-impact.MinAmount)
	in.WriteString(components.ProgressBar(pct, max(inner-6, 10)))
	in.WriteString("\n")
	in.WriteString(dim.Render(fmt.Sprintf("$%d", impact.MinAmount)))
	in.WriteString(dim.Render(strings.Repeat(" ", max(inner-12, 1))))
	in.WriteString(dim.Render(cli.FormatDollars(impact.MaxAmount)))
	in.WriteString("\n\n")
	in.WriteString(muted.Render("Cadence  "))
	for _, c := range []impact.Cadence{impact.CadenceMonthly, impact.CadenceOneTime} {
		if c == p.Cadence {
			in.WriteString(sel.Render("[" + string(c) + "]"))
		} else {
			in.WriteString(dim.Render(" " + string(c) + " "))
		}
		in.WriteString(dim.Render(" "))
	}
	inputs := components.FocusedCard("Plan a gift", in.String(), left)

	// Projection
	var out strings.Builder
	out.WriteString(muted.Render("Over a year you fund"))
	out.WriteString("\n")
	out.WriteString(big.Render(cli.FormatDollars(float64(p.AnnualAmount))))
	out.WriteString(muted.Render(" for " + p.Program.Name))
	out.WriteString("\n\n")
	for i, o := range []impact.Outcome{p.Headline, p.Secondary, p.Tertiary} {
		style := text
		if i == 0 {
			style = sel
		}
		out.WriteString(style.Render(cli.FormatNumber(int64(o.Count))))
		out.WriteString(muted.Render(" " + o.Unit))
		out.WriteString("\n")
	}
	out.WriteString("\n")
	out.WriteString(dim.Render("↑↓ amount  1-3 program  m cadence"))
	projection := components.ContentCard("Projected impact", out.String(), right)

	if a.isCompactLayout() {
		return inputs + "\n" + projection
	}
	return components.CardRow([]string{inputs, projection})
}
