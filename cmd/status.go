package cmd

import (
	"cmp"
	"errors"
	"fmt"

	"github.com/theirongolddev/blossom/internal/cli"
	"github.com/theirongolddev/blossom/internal/config"
	"github.com/theirongolddev/blossom/internal/daemon"
	"github.com/theirongolddev/blossom/internal/ledger"
	"github.com/theirongolddev/blossom/internal/model"
	"github.com/theirongolddev/blossom/internal/store"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show storage, ledger and daemon health",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	e, err := openEnvWith(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer e.Close()
	ctx := cmd.Context()

	fmt.Println()
	fmt.Println(cli.RenderTitle("blossom status"))
	fmt.Println()

	configState := "defaults (no config file)"
	if config.Exists() {
		configState = config.Path()
	}
	fmt.Printf("  Config:   %s\n", configState)
	fmt.Printf("  Storage:  %s\n", cfg.General.Storage)
	fmt.Printf("  Data dir: %s\n", cfg.DataDir())

	slot := "present"
	_, getErr := e.kv.Get(ctx, ledger.StorageKey)
	switch {
	case errors.Is(getErr, store.ErrNotFound):
		slot = "empty (showing seed ledger)"
	case getErr != nil:
		slot = "unreadable: " + getErr.Error()
	}
	fmt.Printf("  Ledger:   %s\n", slot)

	snap := e.ledger.Load(ctx)
	fmt.Printf("  Gifts:    %s\n", cli.FormatNumber(int64(snap.Len())))
	if r, ok := newestGift(snap.Records()); ok {
		fmt.Printf("  Newest:   %s from %s on %s\n",
			cli.FormatMoney(r.Amount), r.Donor, cli.FormatDate(r.Date))
	}

	if cfg.Notify.AMQPURL != "" {
		fmt.Printf("  Notify:   %s → %s\n", maskURL(cfg.Notify.AMQPURL), cfg.Notify.Exchange)
	} else {
		fmt.Println("  Notify:   off")
	}

	daemonState := "not running"
	if rec, ok, err := pidFile(defaultPIDFile()).running(); err != nil {
		daemonState = err.Error()
	} else if ok {
		daemonState = fmt.Sprintf("running (pid %d)", rec.PID)
		if err := daemon.NewClient(cmp.Or(rec.Addr, cfg.Daemon.Addr)).Health(ctx); err != nil {
			daemonState += ", API unreachable"
		}
	}
	fmt.Printf("  Daemon:   %s\n", daemonState)
	fmt.Println()
	return nil
}

// newestGift returns the gift with the latest date; ties go to the later entry.
func newestGift(records []model.DonationRecord) (model.DonationRecord, bool) {
	var newest model.DonationRecord
	found := false
	for _, r := range records {
		if !found || !r.Date.Before(newest.Date) {
			newest = r
			found = true
		}
	}
	return newest, found
}
