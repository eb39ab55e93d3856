package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/theirongolddev/blossom/internal/config"
	"github.com/theirongolddev/blossom/internal/tui"
	"github.com/theirongolddev/blossom/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	lipgloss.SetColorProfile(termenv.TrueColor)

	// The alt screen owns stdout; only a configured log file gets output.
	e, err := openEnvWith(cfg, io.Discard)
	if err != nil {
		return err
	}
	defer e.Close()

	app := tui.NewApp(tui.Options{
		Ledger:    e.ledger,
		Intake:    e.newIntake(),
		Content:   e.loadContent(),
		Config:    cfg,
		NeedSetup: !config.Exists(),
		Logger:    e.logger,
		Refresh:   time.Duration(cfg.Daemon.PollIntervalSec) * time.Second,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
