// Package app holds application-level configuration loaded from the
// environment.
package app

import (
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/tomitschek/crptrial/internal/util"
)

// Config holds the runtime configuration shared by the CLI and the server.
type Config struct {
	DBPath          string        `envconfig:"CRPTRIAL_DB_PATH"`
	OutputDir       string        `envconfig:"CRPTRIAL_OUTPUT_DIR" default:"."`
	Addr            string        `envconfig:"CRPTRIAL_ADDR" default:":8080"`
	ShutdownTimeout time.Duration `envconfig:"CRPTRIAL_SHUTDOWN_TIMEOUT" default:"10s"`
}

// Load reads configuration from environment variables. When CRPTRIAL_DB_PATH
// is unset the database lives in the XDG data directory.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if cfg.DBPath == "" {
		dataDir, err := util.GetXDGDataDir()
		if err != nil {
			return nil, err
		}
		cfg.DBPath = filepath.Join(dataDir, "crptrial.db")
	}

	return &cfg, nil
}
