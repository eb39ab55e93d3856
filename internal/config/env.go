package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvDataDir  = "BLOSSOM_DATA_DIR"
	EnvStorage  = "BLOSSOM_STORAGE"
	EnvLogLevel = "BLOSSOM_LOG_LEVEL"
	EnvAMQPURL  = "BLOSSOM_AMQP_URL"
)

// LoadEnv reads .env from the working directory and then from the config
// directory. Variables already set in the environment win. Missing files
// are skipped.
func LoadEnv() error {
	for _, p := range []string{".env", filepath.Join(Dir(), ".env")} {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// ApplyEnv overlays BLOSSOM_* variables onto cfg.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv(EnvDataDir); v != "" {
		cfg.General.DataDir = v
	}
	if v := os.Getenv(EnvStorage); v != "" {
		cfg.General.Storage = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(EnvAMQPURL); v != "" {
		cfg.Notify.AMQPURL = v
	}
}
