package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/theirongolddev/blossom/internal/config"
)

// daemonRecord is what a running daemon leaves in its pid file.
type daemonRecord struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	StartedAt time.Time `json:"started_at"`
	DataDir   string    `json:"data_dir"`
	Storage   string    `json:"storage"`
}

// pidFile is a daemon pid file. It holds a JSON daemonRecord; a bare
// pid number is also accepted.
type pidFile string

func defaultPIDFile() string {
	return filepath.Join(config.StateDir(), "blossomd.pid")
}

func (p pidFile) String() string { return string(p) }

func (p pidFile) read() (daemonRecord, error) {
	var rec daemonRecord
	//nolint:gosec // daemon pid path is configured by the local user
	data, err := os.ReadFile(string(p))
	if err != nil {
		return rec, err
	}
	data = []byte(strings.TrimSpace(string(data)))
	if pid, err := strconv.Atoi(string(data)); err == nil {
		rec.PID = pid
	} else if err := json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("invalid pid file %s: %w", p, err)
	}
	if rec.PID <= 0 {
		return rec, fmt.Errorf("invalid pid in %s", p)
	}
	return rec, nil
}

func (p pidFile) write(rec daemonRecord) error {
	if err := os.MkdirAll(filepath.Dir(string(p)), 0o750); err != nil {
		return fmt.Errorf("create daemon directory: %w", err)
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding pid file: %w", err)
	}
	if err := os.WriteFile(string(p), append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("writing pid file: %w", err)
	}
	return nil
}

func (p pidFile) remove() {
	_ = os.Remove(string(p))
}

// running returns the live daemon's record. A pid file left by a dead
// process is removed and reported as not running.
func (p pidFile) running() (daemonRecord, bool, error) {
	rec, err := p.read()
	switch {
	case errors.Is(err, os.ErrNotExist):
		return rec, false, nil
	case err != nil:
		return rec, false, err
	case !processAlive(rec.PID):
		p.remove()
		return rec, false, nil
	}
	return rec, true, nil
}

// claim fails when another daemon holds the pid file.
func (p pidFile) claim(rec daemonRecord) error {
	if other, ok, err := p.running(); err != nil {
		return err
	} else if ok {
		return fmt.Errorf("daemon already running (pid %d)", other.PID)
	}
	return p.write(rec)
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}

// waitExit polls until pid is gone or timeout passes.
func waitExit(pid int, timeout time.Duration) bool {
	ticker := time.NewTicker(150 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.After(timeout)
	for {
		if !processAlive(pid) {
			return true
		}
		select {
		case <-deadline:
			return false
		case <-ticker.C:
		}
	}
}
