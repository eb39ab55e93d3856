package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/theirongolddev/blossom/internal/cli"
	"github.com/theirongolddev/blossom/internal/daemon"
	"github.com/theirongolddev/blossom/internal/intake"
	"github.com/theirongolddev/blossom/internal/pipeline"
	"github.com/theirongolddev/blossom/internal/tui"
	"github.com/theirongolddev/blossom/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/x/term"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	flagGiveDonor     string
	flagGiveAmount    string
	flagGiveFrequency string
	flagGiveFocus     string
	flagGiveDate      string
	flagGiveNote      string
	flagGiveViaDaemon bool
)

var giveCmd = &cobra.Command{
	Use:   "give",
	Short: "Record a gift",
	Long: "Record a gift in the ledger. Without --donor and --amount on a terminal,\n" +
		"an interactive form is shown.",
	Example: "  blossom give --donor \"Azalea Cooperative\" --amount 250 --focus healing-arts",
	RunE:    runGive,
}

func init() {
	giveCmd.Flags().StringVar(&flagGiveDonor, "donor", "", "Donor name")
	giveCmd.Flags().StringVar(&flagGiveAmount, "amount", "", "Gift amount, e.g. 250 or $1,250.50")
	giveCmd.Flags().StringVar(&flagGiveFrequency, "frequency", "", "one-time, monthly or quarterly (default from config)")
	giveCmd.Flags().StringVar(&flagGiveFocus, "focus", "", "Focus area label or slug (default from config)")
	giveCmd.Flags().StringVar(&flagGiveDate, "date", "", "Gift date YYYY-MM-DD (default today)")
	giveCmd.Flags().StringVar(&flagGiveNote, "note", "", "Optional note")
	giveCmd.Flags().BoolVar(&flagGiveViaDaemon, "via-daemon", false, "Record through the running daemon")
	rootCmd.AddCommand(giveCmd)
}

func runGive(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	h := e.newIntake()
	fields := h.Draft()
	fields.Donor = flagGiveDonor
	fields.Amount = flagGiveAmount
	fields.Note = flagGiveNote
	if flagGiveFrequency != "" {
		fields.Frequency = flagGiveFrequency
	}
	if flagGiveFocus != "" {
		fields.FocusArea = flagGiveFocus
	}
	if flagGiveDate != "" {
		fields.Date = flagGiveDate
	}

	if (fields.Donor == "" || fields.Amount == "") && term.IsTerminal(os.Stdin.Fd()) {
		theme.SetActive(e.cfg.Appearance.Theme)
		if err := tui.NewGiftForm(&fields).Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				fmt.Println("  Gift discarded.")
				return nil
			}
			return fmt.Errorf("gift form: %w", err)
		}
	}

	// Report the reason; Submit only says whether the gift was accepted.
	if err := intake.Validate(fields); err != nil {
		return fmt.Errorf("gift not recorded: %w", err)
	}

	if flagGiveViaDaemon {
		return giveViaDaemon(cmd.Context(), e.cfg.Daemon.Addr, fields)
	}

	rec, ok, saveErr := h.Submit(cmd.Context(), fields)
	if !ok {
		return errors.New("gift not recorded")
	}
	if saveErr != nil {
		return fmt.Errorf("gift from %s could not be saved: %w", rec.Donor, saveErr)
	}

	m := pipeline.Aggregate(e.ledger.Current(), time.Now())
	fmt.Println()
	fmt.Printf("  Recorded %s from %s\n", cli.RenderMoney(cli.FormatMoney(rec.Amount)), rec.Donor)
	fmt.Printf("  %s\n", cli.RenderMuted(fmt.Sprintf("%s · %s · %s", rec.FocusArea, rec.Frequency, cli.FormatDate(rec.Date))))
	fmt.Println()
	fmt.Println("  " + cli.RenderPills(cli.HeaderPills(m)...))
	fmt.Println()
	return nil
}

// giveViaDaemon posts the gift so the daemon's observers and event
// stream see it immediately.
func giveViaDaemon(ctx context.Context, addr string, fields intake.Fields) error {
	g, persisted, err := daemon.NewClient(addr).AddGift(ctx, fields)
	if err != nil {
		return fmt.Errorf("gift not recorded: %w", err)
	}
	amount, err := decimal.NewFromString(g.Amount)
	if err != nil {
		return fmt.Errorf("parsing daemon amount %q: %w", g.Amount, err)
	}

	fmt.Println()
	fmt.Printf("  Recorded %s from %s via %s\n", cli.RenderMoney(cli.FormatMoney(amount)), g.Donor, addr)
	fmt.Printf("  %s\n", cli.RenderMuted(fmt.Sprintf("%s · %s · %s", g.FocusArea, g.Frequency, g.Date)))
	fmt.Println()
	if !persisted {
		return fmt.Errorf("daemon accepted the gift from %s but could not save it", g.Donor)
	}
	return nil
}
