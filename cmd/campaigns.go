package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/blossom/internal/cli"
	"github.com/theirongolddev/blossom/internal/pipeline"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var flagCampaignsStories bool

var campaignsCmd = &cobra.Command{
	Use:   "campaigns",
	Short: "Campaign goals, funding allocation and field stories",
	RunE:  runCampaigns,
}

func init() {
	campaignsCmd.Flags().BoolVar(&flagCampaignsStories, "stories", true, "Include field stories")
	rootCmd.AddCommand(campaignsCmd)
}

func runCampaigns(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closer, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	e := &env{cfg: cfg, logger: logger, logCloser: closer}
	defer e.Close()
	c := e.loadContent()

	fmt.Println()
	fmt.Println(cli.RenderTitle("Campaign goals"))
	fmt.Println()

	for _, g := range c.Campaigns {
		fmt.Printf("  %s\n", cli.RenderHeader(g.Name))
		fmt.Printf("  %s\n", cli.RenderMuted(g.Focus+" · "+g.DeadlineLabel))
		fmt.Printf("  %s\n", g.Description)
		fmt.Printf("  %s  %s of %s  %s\n",
			cli.RenderProgressBar(pipeline.CampaignProgress(g), 24),
			cli.RenderMoney(cli.FormatDollars(g.Raised)),
			cli.FormatDollars(g.Goal),
			cli.RenderMuted(fmt.Sprintf("%d supporters", g.Supporters)))
		for _, h := range g.Highlights {
			fmt.Printf("    ✓ %s\n", h)
		}
		fmt.Println()
	}

	shares := pipeline.AllocationShares(c.Allocation)
	if len(shares) > 0 {
		peak := 0.0
		for _, s := range shares {
			peak = max(peak, s.Value)
		}
		fmt.Println("  " + cli.RenderHeader("Where funding goes"))
		for _, s := range shares {
			fmt.Println("  " + cli.RenderHorizontalBar(s.Label, s.Value, peak, 30, lipgloss.Color(s.Color)) +
				"  " + cli.FormatDollars(s.Value) + "  " + cli.RenderMuted(cli.FormatPercent(s.Percent)))
			fmt.Println("    " + cli.RenderMuted(s.Descriptor))
		}
		fmt.Println()
	}

	if flagCampaignsStories && len(c.Highlights) > 0 {
		fmt.Println("  " + cli.RenderHeader("From the field"))
		for _, h := range c.Highlights {
			fmt.Printf("  %s\n", h.Title)
			fmt.Printf("    %s\n", cli.RenderMuted(h.Location+" · "+h.Timeframe))
			fmt.Printf("    %s\n", h.Summary)
		}
		fmt.Println()
	}
	return nil
}
