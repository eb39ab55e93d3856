package cmd

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/theirongolddev/blossom/internal/cli"
	"github.com/theirongolddev/blossom/internal/config"
	"github.com/theirongolddev/blossom/internal/daemon"

	"github.com/spf13/cobra"
)

const (
	daemonStartWait = 3 * time.Second
	daemonStopWait  = 8 * time.Second
)

var (
	flagDaemonAddr         string
	flagDaemonInterval     time.Duration
	flagDaemonDetach       bool
	flagDaemonPIDFile      string
	flagDaemonLogFile      string
	flagDaemonEventsBuffer int
	flagDaemonChild        bool
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the gift ledger daemon with HTTP/SSE endpoints",
	Long: "Serve the ledger over HTTP: status, gift intake, an event log, a live\n" +
		"SSE stream and Prometheus metrics. Gifts written by other processes are\n" +
		"picked up on every poll.",
	RunE: runDaemon,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon process and API status",
	RunE:  runDaemonStatus,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running daemon",
	RunE:  runDaemonStop,
}

func init() {
	defaults := config.DefaultConfig().Daemon
	defaultLog := filepath.Join(config.StateDir(), "blossomd.log")

	daemonCmd.PersistentFlags().StringVar(&flagDaemonAddr, "addr", "", "HTTP listen address (default "+defaults.Addr+")")
	daemonCmd.PersistentFlags().DurationVar(&flagDaemonInterval, "interval", 0, "Ledger polling interval (default from config)")
	daemonCmd.PersistentFlags().StringVar(&flagDaemonPIDFile, "pid-file", defaultPIDFile(), "PID file path")
	daemonCmd.PersistentFlags().StringVar(&flagDaemonLogFile, "log-file", defaultLog, "Log file path for detached mode")
	daemonCmd.PersistentFlags().IntVar(&flagDaemonEventsBuffer, "events-buffer", 0, "Max in-memory events retained (default from config)")

	daemonCmd.Flags().BoolVar(&flagDaemonDetach, "detach", false, "Run daemon as a background process")
	daemonCmd.Flags().BoolVar(&flagDaemonChild, "child", false, "Internal: mark detached child process")
	_ = daemonCmd.Flags().MarkHidden("child")

	daemonCmd.AddCommand(daemonStatusCmd)
	daemonCmd.AddCommand(daemonStopCmd)
	rootCmd.AddCommand(daemonCmd)
}

// daemonSettings fills unset daemon flags from the config file.
func daemonSettings(cfg config.Config) (addr string, interval time.Duration, events int) {
	addr = cmp.Or(flagDaemonAddr, cfg.Daemon.Addr)
	interval = cmp.Or(flagDaemonInterval, time.Duration(cfg.Daemon.PollIntervalSec)*time.Second)
	events = cmp.Or(flagDaemonEventsBuffer, cfg.Daemon.EventsBuffer)
	return addr, interval, events
}

func runDaemon(_ *cobra.Command, _ []string) error {
	switch {
	case flagDaemonDetach && flagDaemonChild:
		return errors.New("invalid daemon launch mode")
	case flagDaemonDetach:
		return startDaemonDetached()
	default:
		return runDaemonForeground()
	}
}

// startDaemonDetached re-executes blossom in the background and waits for
// the child to claim the pid file.
func startDaemonDetached() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	addr, _, _ := daemonSettings(cfg)

	pf := pidFile(flagDaemonPIDFile)
	if rec, ok, err := pf.running(); err != nil {
		return err
	} else if ok {
		return fmt.Errorf("daemon already running (pid %d)", rec.PID)
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	args := append(withoutDetach(os.Args[1:]), "--child")

	if err := os.MkdirAll(filepath.Dir(flagDaemonLogFile), 0o750); err != nil {
		return fmt.Errorf("create daemon log directory: %w", err)
	}
	//nolint:gosec // daemon log path is configured by the local user
	logf, err := os.OpenFile(flagDaemonLogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open daemon log file: %w", err)
	}
	defer func() { _ = logf.Close() }()

	child := exec.Command(exe, args...) //nolint:gosec // exe/args come from current process invocation
	child.Stdout = logf
	child.Stderr = logf
	child.Env = os.Environ()
	if err := child.Start(); err != nil {
		return fmt.Errorf("start detached daemon: %w", err)
	}
	pid := child.Process.Pid
	_ = child.Process.Release()

	if !waitClaimed(pf, pid, daemonStartWait) {
		return fmt.Errorf("daemon (pid %d) did not start, see %s", pid, flagDaemonLogFile)
	}

	fmt.Printf("  Started daemon (pid %d)\n", pid)
	fmt.Printf("  PID file: %s\n", pf)
	fmt.Printf("  API: http://%s/v1/status\n", addr)
	fmt.Printf("  Log: %s\n", flagDaemonLogFile)
	return nil
}

// waitClaimed reports whether pid wrote pf before timeout.
func waitClaimed(pf pidFile, pid int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if rec, err := pf.read(); err == nil && rec.PID == pid {
			return true
		}
		if !processAlive(pid) {
			return false
		}
		time.Sleep(100 * time.Millisecond)
	}
	return false
}

func runDaemonForeground() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	e, err := openEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()
	addr, interval, events := daemonSettings(e.cfg)

	pf := pidFile(flagDaemonPIDFile)
	err = pf.claim(daemonRecord{
		PID:       os.Getpid(),
		Addr:      addr,
		StartedAt: time.Now(),
		DataDir:   e.cfg.DataDir(),
		Storage:   e.cfg.General.Storage,
	})
	if err != nil {
		return err
	}
	defer pf.remove()

	svc := daemon.New(daemon.Config{
		Addr:         addr,
		Interval:     interval,
		EventsBuffer: events,
		DataDir:      e.cfg.DataDir(),
		Storage:      e.cfg.General.Storage,
	}, e.ledger,
		daemon.WithLogger(e.logger),
		daemon.WithObserver(e.notifyObserver()),
		daemon.WithIntakeDefaults(e.defaults()),
	)

	fmt.Printf("  blossom daemon listening on http://%s\n", addr)
	fmt.Printf("  Polling %s ledger every %s from %s\n", e.cfg.General.Storage, interval, e.cfg.DataDir())
	fmt.Printf("  Stop with: blossom daemon stop --pid-file %s\n", pf)

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runDaemonStatus(cmd *cobra.Command, _ []string) error {
	rec, ok, err := pidFile(flagDaemonPIDFile).running()
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("  Daemon: not running")
		return nil
	}

	addr := cmp.Or(rec.Addr, flagDaemonAddr, config.DefaultConfig().Daemon.Addr)
	fmt.Printf("  Daemon PID: %d\n", rec.PID)
	fmt.Printf("  Address: http://%s\n", addr)
	if !rec.StartedAt.IsZero() {
		fmt.Printf("  Started: %s\n", rec.StartedAt.Local().Format(time.RFC3339))
	}

	st, err := daemon.NewClient(addr).Status(cmd.Context())
	if err != nil {
		fmt.Printf("  API status: %v\n", err)
		return nil
	}

	if st.LastPollAt.IsZero() {
		fmt.Println("  Last poll: pending")
	} else {
		fmt.Printf("  Last poll: %s (%d polls)\n", st.LastPollAt.Local().Format(time.RFC3339), st.PollCount)
	}
	fmt.Printf("  Storage: %s (%s)\n", st.Storage, st.DataDir)
	fmt.Printf("  Gifts: %d (%d recurring)\n", st.Summary.Gifts, st.Summary.RecurringGifts)
	fmt.Printf("  Total raised: %s\n", cli.FormatMoney(st.Summary.TotalRaised))
	fmt.Printf("  This month: %s\n", cli.FormatMoney(st.Summary.ThisMonth))
	if st.Summary.TopFocusArea != "" {
		fmt.Printf("  Top focus: %s\n", st.Summary.TopFocusArea)
	}
	fmt.Printf("  Events: %d buffered, %d subscribers\n", st.EventCount, st.SubscriberCount)
	if st.LastError != "" {
		fmt.Printf("  Last error: %s\n", st.LastError)
	}
	return nil
}

func runDaemonStop(_ *cobra.Command, _ []string) error {
	pf := pidFile(flagDaemonPIDFile)
	rec, ok, err := pf.running()
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("daemon is not running")
	}

	proc, err := os.FindProcess(rec.PID)
	if err != nil {
		return fmt.Errorf("find daemon process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal daemon process: %w", err)
	}
	if !waitExit(rec.PID, daemonStopWait) {
		return fmt.Errorf("daemon (pid %d) did not exit in time", rec.PID)
	}
	pf.remove()
	fmt.Printf("  Stopped daemon (pid %d)\n", rec.PID)
	return nil
}

// withoutDetach drops --detach so the child runs in the foreground.
func withoutDetach(args []string) []string {
	return slices.DeleteFunc(slices.Clone(args), func(a string) bool {
		return a == "--detach" || strings.HasPrefix(a, "--detach=")
	})
}
