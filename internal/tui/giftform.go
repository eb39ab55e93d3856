package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/theirongolddev/blossom/internal/cli"
	"github.com/theirongolddev/blossom/internal/intake"
	"github.com/theirongolddev/blossom/internal/model"
	"github.com/theirongolddev/blossom/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// NewGiftForm builds the add-gift form bound to v. The cmd package reuses
// it for `blossom give` on a terminal.
func NewGiftForm(v *intake.Fields) *huh.Form {
	freqs := make([]huh.Option[string], 0, len(model.Frequencies()))
	for _, f := range model.Frequencies() {
		freqs = append(freqs, huh.NewOption(string(f), string(f)))
	}
	areas := make([]huh.Option[string], 0, len(model.FocusAreas()))
	for _, a := range model.FocusAreas() {
		areas = append(areas, huh.NewOption(string(a), string(a)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Donor").
				Placeholder("Name or organization").
				Value(&v.Donor).
				Validate(validateDonor),
			huh.NewInput().
				Title("Amount").
				Placeholder("250").
				Value(&v.Amount).
				Validate(validateAmount),
			huh.NewSelect[string]().
				Title("Frequency").
				Options(freqs...).
				Value(&v.Frequency),
			huh.NewSelect[string]().
				Title("Focus area").
				Options(areas...).
				Value(&v.FocusArea),
			huh.NewInput().
				Title("Date").
				Description("YYYY-MM-DD").
				Value(&v.Date).
				Validate(validateDate),
			huh.NewInput().
				Title("Notes").
				Placeholder("Optional").
				Value(&v.Note),
		),
	).WithTheme(huh.ThemeCharm()).WithShowHelp(true)
}

func validateDonor(s string) error {
	if strings.TrimSpace(s) == "" {
		return intake.ErrDonorRequired
	}
	return nil
}

func validateAmount(s string) error {
	_, err := intake.ParseAmount(s)
	return err
}

func validateDate(s string) error {
	if _, err := model.ParseDate(s); err != nil {
		return intake.ErrDateInvalid
	}
	return nil
}

func formWidth(termWidth int) int {
	return min(max(termWidth-8, 40), 72)
}

// openGiftForm shows the add-gift form prefilled from the intake draft.
func (a App) openGiftForm() (tea.Model, tea.Cmd) {
	draft := a.intake.Draft()
	a.giftVals = &draft
	a.giftForm = NewGiftForm(a.giftVals)
	if a.width > 0 {
		a.giftForm = a.giftForm.WithWidth(formWidth(a.width))
	}
	return a, a.giftForm.Init()
}

func (a App) updateGiftForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		a.giftForm = nil
		a.giftVals = nil
		a.setFlash("Gift discarded", false)
		return a, nil
	}

	form, cmd := a.giftForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.giftForm = f
	}

	switch a.giftForm.State {
	case huh.StateCompleted:
		fields := *a.giftVals
		a.giftForm = nil
		a.giftVals = nil
		return a, submitGiftCmd(a.intake, fields)
	case huh.StateAborted:
		a.giftForm = nil
		a.giftVals = nil
		a.setFlash("Gift discarded", false)
		return a, nil
	}
	return a, cmd
}

// submitGiftCmd records the gift off the UI goroutine.
func submitGiftCmd(h *intake.Handler, in intake.Fields) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		rec, ok, err := h.Submit(ctx, in)
		return giftRecordedMsg{rec: rec, ok: ok, err: err}
	}
}

func (a App) handleGiftRecorded(msg giftRecordedMsg) App {
	if !msg.ok {
		a.setFlash("Gift not recorded: check the form values", true)
		return a
	}

	a.snap = a.ledger.Current()
	a.recompute()
	a.gifts.cursor, a.gifts.offset = 0, 0

	text := "Recorded " + cli.FormatMoney(msg.rec.Amount) + " from " + msg.rec.Donor
	if msg.err != nil {
		a.logger.Error("gift not saved", "id", msg.rec.ID, "err", msg.err)
		if errors.Is(msg.err, context.DeadlineExceeded) {
			text += " (save timed out)"
		} else {
			text += " (not saved: " + msg.err.Error() + ")"
		}
		a.setFlash(text, true)
		return a
	}
	a.setFlash(text, false)
	return a
}

func (a App) viewGiftForm() string {
	t := theme.Active
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 2)
	title := lipgloss.NewStyle().Foreground(t.AccentBright).Bold(true)
	hint := lipgloss.NewStyle().Foreground(t.TextDim)

	body := title.Render("✿ Record a gift") + "\n\n" +
		a.giftForm.View() + "\n" +
		hint.Render("esc to discard")

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card.Render(body),
		lipgloss.WithWhitespaceBackground(t.Background))
}
