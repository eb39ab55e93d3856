// Package cmd implements the blossom CLI commands.
package cmd

import (
	"fmt"
	"net/url"

	"github.com/theirongolddev/blossom/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Storage:     %s\n", cfg.General.Storage)
	fmt.Printf("    Data dir:    %s\n", cfg.DataDir())
	fmt.Printf("    Content:     %s\n", cfg.ContentPath())
	fmt.Println()

	fmt.Println("  [Intake]")
	fmt.Printf("    Default frequency:  %s\n", cfg.Intake.DefaultFrequency)
	fmt.Printf("    Default focus area: %s\n", cfg.Intake.DefaultFocusArea)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level:  %s\n", cfg.Log.Level)
	fmt.Printf("    Format: %s\n", cfg.Log.Format)
	if cfg.Log.File != "" {
		fmt.Printf("    File:   %s\n", cfg.Log.File)
	}
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:       %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Poll interval: %ds\n", cfg.Daemon.PollIntervalSec)
	fmt.Printf("    Events buffer: %d\n", cfg.Daemon.EventsBuffer)
	fmt.Println()

	fmt.Println("  [Notify]")
	if cfg.Notify.AMQPURL != "" {
		fmt.Printf("    AMQP URL:    %s\n", maskURL(cfg.Notify.AMQPURL))
		fmt.Printf("    Exchange:    %s\n", cfg.Notify.Exchange)
		fmt.Printf("    Routing key: %s\n", cfg.Notify.RoutingKey)
	} else {
		fmt.Println("    AMQP URL: not configured")
	}
	fmt.Println()

	fmt.Println("  Run `blossom setup` to reconfigure.")
	return nil
}

// maskURL hides the password in a broker URL.
func maskURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return u.Redacted()
}
