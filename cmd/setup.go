package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/blossom/internal/config"
	"github.com/theirongolddev/blossom/internal/tui"
	"github.com/theirongolddev/blossom/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		// A broken file is replaced by whatever the wizard saves.
		cfg = config.DefaultConfig()
	}
	theme.SetActive(cfg.Appearance.Theme)

	giftCount := 0
	if e, err := openEnv(cmd.Context()); err == nil {
		giftCount = e.ledger.Current().Len()
		e.Close()
	}

	form, apply := tui.NewSetupForm(giftCount, cfg)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing saved.")
			return nil
		}
		return fmt.Errorf("setup form: %w", err)
	}

	updated, err := apply()
	if err != nil {
		return err
	}
	if err := config.Save(updated); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `blossom setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
