package cmd

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/theirongolddev/blossom/internal/config"
	"github.com/theirongolddev/blossom/internal/intake"
	"github.com/theirongolddev/blossom/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewestGift(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }

	_, ok := newestGift(nil)
	assert.False(t, ok)

	r, ok := newestGift([]model.DonationRecord{
		{Donor: "A", Date: day(2)},
		{Donor: "B", Date: day(9)},
		{Donor: "C", Date: day(9)},
		{Donor: "D", Date: day(4)},
	})
	assert.True(t, ok)
	assert.Equal(t, "C", r.Donor)
}

func TestDaemonSettingsFallsBackToConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	flagDaemonAddr, flagDaemonInterval, flagDaemonEventsBuffer = "", 0, 0

	addr, interval, events := daemonSettings(cfg)
	assert.Equal(t, cfg.Daemon.Addr, addr)
	assert.Equal(t, 15*time.Second, interval)
	assert.Equal(t, 200, events)

	flagDaemonAddr = "127.0.0.1:9999"
	defer func() { flagDaemonAddr = "" }()
	addr, _, _ = daemonSettings(cfg)
	assert.Equal(t, "127.0.0.1:9999", addr)
}

func TestWithDraftDefaults(t *testing.T) {
	draft := intake.Fields{Frequency: "Monthly", FocusArea: "Healing Arts", Date: "2024-03-15"}

	got := withDraftDefaults(intake.Fields{Donor: "A", Amount: "5"}, draft)
	assert.Equal(t, "Monthly", got.Frequency)
	assert.Equal(t, "Healing Arts", got.FocusArea)
	assert.Equal(t, "2024-03-15", got.Date)

	got = withDraftDefaults(intake.Fields{Donor: "A", Amount: "5", Frequency: "One-time", Date: "2024-01-02"}, draft)
	assert.Equal(t, "One-time", got.Frequency)
	assert.Equal(t, "2024-01-02", got.Date)
	assert.Equal(t, "A", got.Donor)
}

func TestPIDFile(t *testing.T) {
	pf := pidFile(filepath.Join(t.TempDir(), "state", "blossomd.pid"))

	_, ok, err := pf.running()
	require.NoError(t, err)
	assert.False(t, ok, "missing pid file is not running")

	self := daemonRecord{PID: os.Getpid(), Addr: "127.0.0.1:8788", Storage: "memory"}
	require.NoError(t, pf.claim(self))

	rec, ok, err := pf.running()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, self.Addr, rec.Addr)

	err = pf.claim(self)
	assert.ErrorContains(t, err, "already running")

	pf.remove()
	_, err = os.Stat(pf.String())
	assert.True(t, os.IsNotExist(err))
}

func TestPIDFileBareAndStale(t *testing.T) {
	dir := t.TempDir()

	bare := pidFile(filepath.Join(dir, "bare.pid"))
	require.NoError(t, os.WriteFile(bare.String(), []byte(strconv.Itoa(os.Getpid())+"\n"), 0o600))
	rec, err := bare.read()
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), rec.PID)

	stale := pidFile(filepath.Join(dir, "stale.pid"))
	require.NoError(t, stale.write(daemonRecord{PID: 99999999}))
	_, ok, err := stale.running()
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = os.Stat(stale.String())
	assert.True(t, os.IsNotExist(err), "stale pid file is removed")

	junk := pidFile(filepath.Join(dir, "junk.pid"))
	require.NoError(t, os.WriteFile(junk.String(), []byte("not a pid"), 0o600))
	_, _, err = junk.running()
	assert.Error(t, err)
}

func TestWithoutDetach(t *testing.T) {
	args := []string{"daemon", "--detach", "--addr", ":9000", "--detach=true"}
	assert.Equal(t, []string{"daemon", "--addr", ":9000"}, withoutDetach(args))
	assert.Len(t, args, 5, "input is not modified")
}
