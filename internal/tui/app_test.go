package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/blossom/internal/config"
	"github.com/theirongolddev/blossom/internal/content"
	"github.com/theirongolddev/blossom/internal/impact"
	"github.com/theirongolddev/blossom/internal/intake"
	"github.com/theirongolddev/blossom/internal/ledger"
	"github.com/theirongolddev/blossom/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

var fixedNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T) (App, *ledger.Store) {
	t.Helper()
	st := ledger.NewStore(store.NewMemory(), nil)
	h := intake.NewHandler(st, intake.WithDefaults("Monthly", "Healing Arts", fixedNow))
	a := NewApp(Options{
		Ledger:  st,
		Intake:  h,
		Content: content.Default(),
		Config:  config.DefaultConfig(),
		Now:     func() time.Time { return fixedNow },
	})
	return a, st
}

// loadedApp returns an app that has read the seed ledger and knows its size.
func loadedApp(t *testing.T) App {
	t.Helper()
	a, st := newTestApp(t)
	m, _ := a.Update(LedgerLoadedMsg{Snapshot: st.Load(context.Background())})
	m, _ = m.(App).Update(tea.WindowSizeMsg{Width: 140, Height: 45})
	return m.(App)
}

func press(t *testing.T, a App, keys ...string) App {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "pgup":
			msg = tea.KeyMsg{Type: tea.KeyPgUp}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ := a.Update(msg)
		a = m.(App)
	}
	return a
}

func TestLoadedAppComputesMetrics(t *testing.T) {
	a := loadedApp(t)
	if !a.loaded {
		t.Fatal("app not loaded")
	}
	if a.metrics.GiftCount != 4 {
		t.Fatalf("GiftCount = %d, want 4", a.metrics.GiftCount)
	}
	if got := len(a.months); got != monthsShown {
		t.Fatalf("months = %d, want %d", got, monthsShown)
	}
	if got := len(a.shares); got != 3 {
		t.Fatalf("shares = %d, want 3", got)
	}
}

func TestTabKeys(t *testing.T) {
	a := loadedApp(t)
	tests := []struct {
		key  string
		want int
	}{
		{"g", tabGifts},
		{"c", tabCalculator},
		{"p", tabCampaigns},
		{"s", tabStories},
		{"o", tabOverview},
		{"left", tabStories},
		{"right", tabOverview},
	}
	for _, tt := range tests {
		a = press(t, a, tt.key)
		if a.activeTab != tt.want {
			t.Fatalf("after %q activeTab = %d, want %d", tt.key, a.activeTab, tt.want)
		}
	}
}

func TestCalculatorKeys(t *testing.T) {
	a := press(t, loadedApp(t), "c")

	a = press(t, a, "up", "up")
	if a.calc.amount != impact.DefaultAmount+2*impact.AmountStep {
		t.Fatalf("amount = %d, want %d", a.calc.amount, impact.DefaultAmount+50)
	}
	a = press(t, a, "pgup", "pgup", "pgup", "pgup", "pgup", "pgup", "pgup", "pgup", "pgup", "pgup")
	if a.calc.amount != impact.MaxAmount {
		t.Fatalf("amount = %d, want clamp to %d", a.calc.amount, impact.MaxAmount)
	}

	a = press(t, a, "3")
	if a.calc.program != 2 {
		t.Fatalf("program = %d, want 2", a.calc.program)
	}
	a = press(t, a, "]")
	if a.calc.program != 0 {
		t.Fatalf("program = %d, want wrap to 0", a.calc.program)
	}

	a = press(t, a, "m")
	if a.calc.cadence != impact.CadenceOneTime {
		t.Fatalf("cadence = %q, want one-time", a.calc.cadence)
	}
	p := a.calc.projection()
	if p.AnnualAmount != impact.MaxAmount {
		t.Fatalf("AnnualAmount = %d, want %d", p.AnnualAmount, impact.MaxAmount)
	}
}

func TestGiftsCursorStaysInRange(t *testing.T) {
	a := press(t, loadedApp(t), "g")
	a = press(t, a, "k")
	if a.gifts.cursor != 0 {
		t.Fatalf("cursor = %d, want 0", a.gifts.cursor)
	}
	a = press(t, a, "j", "j", "j", "j", "j")
	if a.gifts.cursor != 3 {
		t.Fatalf("cursor = %d, want 3", a.gifts.cursor)
	}
}

func TestNewGiftFormOpensWithDraft(t *testing.T) {
	a := press(t, loadedApp(t), "n")
	if a.giftForm == nil {
		t.Fatal("gift form not open")
	}
	if a.giftVals.FocusArea != "Healing Arts" || a.giftVals.Frequency != "Monthly" {
		t.Fatalf("draft = %+v, want Monthly / Healing Arts", *a.giftVals)
	}

	a = press(t, a, "esc")
	if a.giftForm != nil {
		t.Fatal("esc should close the gift form")
	}
	if a.flash != "Gift discarded" {
		t.Fatalf("flash = %q", a.flash)
	}
}

func TestSubmitGiftUpdatesDashboard(t *testing.T) {
	a := loadedApp(t)
	in := intake.Fields{
		Donor:     "Rosa Park Collective",
		Amount:    "75",
		Frequency: "One-time",
		FocusArea: "Safe Harbor Housing",
		Date:      "2024-03-14",
	}
	msg := submitGiftCmd(a.intake, in)()

	m, _ := a.Update(msg)
	a = m.(App)
	if a.metrics.GiftCount != 5 {
		t.Fatalf("GiftCount = %d, want 5", a.metrics.GiftCount)
	}
	if a.snap.At(0).Donor != "Rosa Park Collective" {
		t.Fatalf("newest gift = %q", a.snap.At(0).Donor)
	}
	if !strings.HasPrefix(a.flash, "Recorded $75 from Rosa Park Collective") || a.flashErr {
		t.Fatalf("flash = %q (err=%v)", a.flash, a.flashErr)
	}
}

func TestSubmitInvalidGiftLeavesLedger(t *testing.T) {
	a := loadedApp(t)
	msg := submitGiftCmd(a.intake, intake.Fields{Donor: "", Amount: "10"})()

	m, _ := a.Update(msg)
	a = m.(App)
	if a.metrics.GiftCount != 4 {
		t.Fatalf("GiftCount = %d, want 4", a.metrics.GiftCount)
	}
	if !a.flashErr {
		t.Fatal("invalid gift should flash an error")
	}
}

func TestSyncPicksUpExternalGift(t *testing.T) {
	a, st := newTestApp(t)
	m, _ := a.Update(LedgerLoadedMsg{Snapshot: st.Load(context.Background())})
	a = m.(App)

	other := intake.NewHandler(st)
	if _, ok, err := other.Submit(context.Background(), intake.Fields{
		Donor: "Juniper", Amount: "20", Frequency: "Monthly", FocusArea: "Healing Arts", Date: "2024-03-01",
	}); !ok || err != nil {
		t.Fatalf("Submit ok=%v err=%v", ok, err)
	}

	m, _ = a.Update(ledgerSyncedMsg{snap: st.Current(), changed: true})
	a = m.(App)
	if a.metrics.GiftCount != 5 {
		t.Fatalf("GiftCount = %d, want 5", a.metrics.GiftCount)
	}
}

func TestViewRendersEveryTab(t *testing.T) {
	a := loadedApp(t)
	wants := []string{"Lifetime impact", "Gift ledger", "Projected impact", "Where funding goes", "Field stories"}
	for i, want := range wants {
		a.activeTab = i
		view := a.View()
		if i == tabStories {
			want = "Citrus Grove"
		}
		if !strings.Contains(view, want) {
			t.Errorf("tab %d view missing %q", i, want)
		}
	}
}

func TestViewTooNarrow(t *testing.T) {
	a := loadedApp(t)
	m, _ := a.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	if !strings.Contains(m.(App).View(), "Terminal too narrow") {
		t.Fatal("expected narrow-terminal message")
	}
}
