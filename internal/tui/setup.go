package tui

import (
	"fmt"

	"github.com/theirongolddev/blossom/internal/config"
	"github.com/theirongolddev/blossom/internal/model"
	"github.com/theirongolddev/blossom/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// setupValues holds the first-run choices bound to the huh form.
type setupValues struct {
	storage   string
	frequency string
	focusArea string
	theme     string
	logLevel  string
}

func newSetupValues(cfg config.Config) *setupValues {
	return &setupValues{
		storage:   cfg.General.Storage,
		frequency: cfg.Intake.DefaultFrequency,
		focusArea: cfg.Intake.DefaultFocusArea,
		theme:     cfg.Appearance.Theme,
		logLevel:  cfg.Log.Level,
	}
}

// apply copies the choices onto cfg and validates the result.
func (v *setupValues) apply(cfg config.Config) (config.Config, error) {
	cfg.General.Storage = v.storage
	cfg.Intake.DefaultFrequency = v.frequency
	cfg.Intake.DefaultFocusArea = v.focusArea
	cfg.Appearance.Theme = v.theme
	cfg.Log.Level = v.logLevel
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating setup: %w", err)
	}
	return cfg, nil
}

// NewSetupForm builds the first-run wizard. giftCount is shown in the
// welcome note. The cmd package reuses it for `blossom setup`.
func NewSetupForm(giftCount int, cfg config.Config) (*huh.Form, func() (config.Config, error)) {
	v := newSetupValues(cfg)
	return newSetupForm(giftCount, v), func() (config.Config, error) { return v.apply(cfg) }
}

func newSetupForm(giftCount int, v *setupValues) *huh.Form {
	welcome := "Let's set a few defaults. You can change them later in " + config.Path() + "."
	if giftCount > 0 {
		welcome = fmt.Sprintf("Your ledger has %d gifts. %s", giftCount, welcome)
	}

	freqs := make([]huh.Option[string], 0, len(model.Frequencies()))
	for _, f := range model.Frequencies() {
		freqs = append(freqs, huh.NewOption(string(f), string(f)))
	}
	areas := make([]huh.Option[string], 0, len(model.FocusAreas()))
	for _, a := range model.FocusAreas() {
		areas = append(areas, huh.NewOption(string(a), string(a)))
	}
	themes := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themes = append(themes, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to blossom").
				Description(welcome),
			huh.NewSelect[string]().
				Title("Where should gifts be saved?").
				Options(
					huh.NewOption("SQLite database (recommended)", "sqlite"),
					huh.NewOption("JSON file", "file"),
					huh.NewOption("Memory only (nothing saved)", "memory"),
				).
				Value(&v.storage),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Default frequency for new gifts").
				Options(freqs...).
				Value(&v.frequency),
			huh.NewSelect[string]().
				Title("Default focus area").
				Options(areas...).
				Value(&v.focusArea),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Dashboard theme").
				Options(themes...).
				Value(&v.theme),
			huh.NewSelect[string]().
				Title("Log level").
				Options(huh.NewOptions("warn", "info", "debug", "error")...).
				Value(&v.logLevel),
		),
	).WithTheme(huh.ThemeCharm()).WithShowHelp(true)
}
