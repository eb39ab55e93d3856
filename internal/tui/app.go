// Package tui provides the interactive Bubble Tea dashboard for blossom.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/theirongolddev/blossom/internal/cli"
	"github.com/theirongolddev/blossom/internal/config"
	"github.com/theirongolddev/blossom/internal/content"
	"github.com/theirongolddev/blossom/internal/impact"
	"github.com/theirongolddev/blossom/internal/intake"
	"github.com/theirongolddev/blossom/internal/ledger"
	"github.com/theirongolddev/blossom/internal/model"
	"github.com/theirongolddev/blossom/internal/pipeline"
	"github.com/theirongolddev/blossom/internal/tui/components"
	"github.com/theirongolddev/blossom/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// LedgerLoadedMsg is sent when the initial ledger read finishes.
type LedgerLoadedMsg struct {
	Snapshot *ledger.Snapshot
	LoadTime time.Duration
}

// ledgerSyncedMsg carries the result of re-reading the persisted ledger.
type ledgerSyncedMsg struct {
	snap    *ledger.Snapshot
	changed bool
	err     error
}

// giftRecordedMsg carries the result of submitting the gift form.
type giftRecordedMsg struct {
	rec model.DonationRecord
	ok  bool
	err error
}

type tickMsg time.Time

// Tab indexes, matching components.Tabs.
const (
	tabOverview = iota
	tabGifts
	tabCalculator
	tabCampaigns
	tabStories
)

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 160

	minContentHeight = 5
	flashDuration    = 4 * time.Second
	defaultRefresh   = 30 * time.Second
	monthsShown      = 12
)

// Options wires the dashboard to a ledger.
type Options struct {
	Ledger    *ledger.Store
	Intake    *intake.Handler
	Content   content.Content
	Config    config.Config
	NeedSetup bool
	Logger    *slog.Logger
	Now       func() time.Time
	Refresh   time.Duration // ledger re-read interval, defaults to 30s
}

// App is the root Bubble Tea model.
type App struct {
	ledger  *ledger.Store
	intake  *intake.Handler
	content content.Content
	cfg     config.Config
	logger  *slog.Logger
	now     func() time.Time
	memo    *pipeline.Memo

	// Data
	snap     *ledger.Snapshot
	metrics  model.Metrics
	months   []model.MonthlyTotal
	freqs    []model.FrequencyStats
	shares   []model.AllocationShare
	loaded   bool
	loadTime time.Duration

	// Ledger re-read state
	refreshInterval time.Duration
	lastSync        time.Time
	syncing         bool

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Per-tab state
	gifts giftsState
	calc  calcState

	// Add-gift form
	giftForm *huh.Form
	giftVals *intake.Fields

	// First-run setup
	setupForm *huh.Form
	setupVals *setupValues
	needSetup bool

	flash      string
	flashErr   bool
	flashUntil time.Time

	spinner spinner.Model
}

// NewApp creates the dashboard model. The ledger is read in Init.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	refresh := opts.Refresh
	if refresh <= 0 {
		refresh = defaultRefresh
	}
	h := opts.Intake
	if h == nil {
		h = intake.NewHandler(opts.Ledger, intake.WithLogger(logger))
	}

	return App{
		ledger:          opts.Ledger,
		intake:          h,
		content:         opts.Content,
		cfg:             opts.Config,
		logger:          logger.With("component", "tui"),
		now:             now,
		memo:            &pipeline.Memo{},
		refreshInterval: refresh,
		needSetup:       opts.NeedSetup,
		calc:            newCalcState(),
		spinner:         sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadLedgerCmd(a.ledger),
		a.spinner.Tick,
		tickCmd(),
	)
}

func (a *App) recompute() {
	now := a.now()
	a.metrics = a.memo.Metrics(a.snap, now)
	a.months = pipeline.AggregateMonths(a.snap, now, monthsShown)
	a.freqs = pipeline.AggregateFrequencies(a.snap)
	a.shares = pipeline.AllocationShares(a.content.Allocation)
	a.gifts.clamp(a.snap.Len())
}

func (a *App) setFlash(msg string, isErr bool) {
	a.flash = msg
	a.flashErr = isErr
	a.flashUntil = a.now().Add(flashDuration)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		if a.giftForm != nil {
			a.giftForm = a.giftForm.WithWidth(formWidth(msg.Width))
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.setupForm != nil || a.giftForm != nil {
			return a, nil
		}
		return a.updateMouse(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if !a.loaded {
			return a, nil
		}
		if a.setupForm != nil {
			return a.updateSetupForm(msg)
		}
		if a.giftForm != nil {
			return a.updateGiftForm(msg)
		}
		return a.updateKey(msg)

	case LedgerLoadedMsg:
		a.snap = msg.Snapshot
		a.loaded = true
		a.loadTime = msg.LoadTime
		a.lastSync = a.now()
		a.recompute()
		a.logger.Debug("ledger loaded", "gifts", a.snap.Len(), "took", msg.LoadTime)

		if a.needSetup {
			a.setupVals = newSetupValues(a.cfg)
			a.setupForm = newSetupForm(a.snap.Len(), a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case ledgerSyncedMsg:
		a.syncing = false
		a.lastSync = a.now()
		if msg.err != nil {
			a.logger.Warn("ledger refresh failed", "err", msg.err)
			a.setFlash("Refresh failed: "+msg.err.Error(), true)
			return a, nil
		}
		if msg.changed {
			a.snap = msg.snap
			a.recompute()
			a.setFlash("Ledger updated", false)
		}
		return a, nil

	case giftRecordedMsg:
		return a.handleGiftRecorded(msg), nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		now := time.Time(msg)
		cmds := []tea.Cmd{tickCmd()}
		if a.flash != "" && now.After(a.flashUntil) {
			a.flash = ""
		}
		if a.loaded && !a.syncing && a.giftForm == nil && now.Sub(a.lastSync) >= a.refreshInterval {
			a.syncing = true
			cmds = append(cmds, syncLedgerCmd(a.ledger))
		}
		return a, tea.Batch(cmds...)
	}

	// Forward everything else (cursor blinks etc.) to an open form.
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	if a.giftForm != nil {
		return a.updateGiftForm(msg)
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch a.activeTab {
	case tabGifts:
		if a.updateGiftsKey(key) {
			return a, nil
		}
	case tabCalculator:
		if a.updateCalcKey(key) {
			return a, nil
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "n":
		return a.openGiftForm()
	case "r":
		if !a.syncing {
			a.syncing = true
			return a, syncLedgerCmd(a.ledger)
		}
		return a, nil
	case "T":
		a.cycleTheme()
		return a, nil
	case "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	case "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	}

	if r := []rune(key); len(r) == 1 {
		if idx := components.TabIdxByKey(r[0]); idx >= 0 {
			a.activeTab = idx
		}
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if a.activeTab == tabGifts {
			a.gifts.move(-1, a.snap.Len())
			a.gifts.scroll(a.giftRows())
		}
	case tea.MouseButtonWheelDown:
		if a.activeTab == tabGifts {
			a.gifts.move(1, a.snap.Len())
			a.gifts.scroll(a.giftRows())
		}
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

// cycleTheme switches to the next theme and saves the choice.
func (a *App) cycleTheme() {
	names := theme.Names()
	next := names[0]
	for i, n := range names {
		if n == theme.Active.Name {
			next = names[(i+1)%len(names)]
			break
		}
	}
	theme.SetActive(next)
	a.spinner.Style = a.spinner.Style.Foreground(theme.Active.Accent)

	a.cfg.Appearance.Theme = next
	if config.Exists() {
		if err := config.Save(a.cfg); err != nil {
			a.logger.Warn("unable to save theme", "err", err)
		}
	}
	a.setFlash("Theme: "+next, false)
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		cfg, err := a.setupVals.apply(a.cfg)
		if err == nil {
			err = config.Save(cfg)
		}
		if err != nil {
			a.logger.Error("unable to save setup", "err", err)
			a.setFlash("Setup not saved: "+err.Error(), true)
		} else {
			a.cfg = cfg
			a.setFlash("Saved "+config.Path(), false)
		}
		theme.SetActive(a.cfg.Appearance.Theme)
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}
	return a, cmd
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	if a.giftForm != nil {
		return a.viewGiftForm()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  blossom needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("✿ blossom"))
	b.WriteString(subtitleStyle.Render(" · Orange Blossom Alliance"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	b.WriteString(subtitleStyle.Render(" Reading the gift ledger..."))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

type binding struct{ key, desc string }

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Yellow).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings []binding
	}{
		{"Navigation", []binding{
			{"o g c p s", "Jump to tab"},
			{"← → tab", "Previous / next tab"},
			{"j k", "Move through gifts"},
		}},
		{"Calculator", []binding{
			{"↑ ↓", "Amount ± $25"},
			{"pgup pgdn", "Amount ± $250"},
			{"1 2 3 [ ]", "Choose program"},
			{"m", "Monthly / one-time"},
		}},
		{"Actions", []binding{
			{"n", "Record a gift"},
			{"r", "Re-read the ledger"},
			{"T", "Next theme"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("✿ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(s.title))
		b.WriteString("\n")
		for _, bind := range s.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w) + "\n" + a.renderPillRow(w)

	status := components.Status{Gifts: a.snap.Len()}
	if a.flash != "" {
		status.Flash, status.Error = a.flash, a.flashErr
	}
	if !a.lastSync.IsZero() {
		status.Synced = "read " + a.lastSync.Format(time.Kitchen)
	}
	statusBar := components.RenderStatusBar(w, status)

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var body string
	switch a.activeTab {
	case tabOverview:
		body = a.renderOverviewTab(cw)
	case tabGifts:
		body = a.renderGiftsTab(cw, contentH)
	case tabCalculator:
		body = a.renderCalculatorTab(cw)
	case tabCampaigns:
		body = a.renderCampaignsTab(cw)
	case tabStories:
		body = a.renderStoriesTab(cw)
	}

	body = padHeight(truncateHeight(body, contentH), contentH)
	body = fillLinesWithBackground(body, cw, t.Background)
	body = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, body,
		lipgloss.WithWhitespaceBackground(t.Background))

	out := lipgloss.JoinVertical(lipgloss.Left, header, body, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, out,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// renderPillRow shows this month's total and the recurring donor count.
func (a App) renderPillRow(w int) string {
	t := theme.Active
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pill := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	row := dim.Render(" ")
	for i, p := range cli.HeaderPills(a.metrics) {
		if i > 0 {
			row += dim.Render(" │ ")
		}
		row += pill.Render(p)
	}
	return lipgloss.NewStyle().Background(t.Surface).Width(w).Render(row)
}

// ─── Commands ───────────────────────────────────────────────────

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// loadLedgerCmd reads the persisted ledger in the background.
func loadLedgerCmd(st *ledger.Store) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		snap := st.Load(context.Background())
		return LedgerLoadedMsg{Snapshot: snap, LoadTime: time.Since(start)}
	}
}

// syncLedgerCmd picks up gifts written by another blossom process.
func syncLedgerCmd(st *ledger.Store) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		snap, changed, err := st.Sync(ctx)
		return ledgerSyncedMsg{snap: snap, changed: changed, err: err}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with the background
// color so gaps between cards are not left unstyled.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

// tabAtX returns the tab index at column x of the tab bar, or -1.
func (a App) tabAtX(x int) int {
	return components.TabAtX(x, a.activeTab)
}

func newCalcState() calcState {
	return calcState{amount: impact.DefaultAmount, cadence: impact.CadenceMonthly}
}
