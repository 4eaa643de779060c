package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Environment variables read before the command line. Flags win.
const (
	EnvIdle     = "IDLENUDGE_IDLE"
	EnvPoll     = "IDLENUDGE_POLL"
	EnvBackend  = "IDLENUDGE_BACKEND"
	EnvLogFile  = "IDLENUDGE_LOG_FILE"
	EnvLogLevel = "IDLENUDGE_LOG_LEVEL"
)

// applyEnv overlays environment values onto cfg.
func applyEnv(cfg *Config, getenv func(string) string) error {
	if getenv == nil {
		return nil
	}

	if v := strings.TrimSpace(getenv(EnvIdle)); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrapf(err, "%s", EnvIdle)
		}
		cfg.IdleThreshold = d
	}
	if v := strings.TrimSpace(getenv(EnvPoll)); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrapf(err, "%s", EnvPoll)
		}
		cfg.PollInterval = d
	}
	if v := strings.TrimSpace(getenv(EnvBackend)); v != "" {
		cfg.Backend = v
	}
	if v := strings.TrimSpace(getenv(EnvLogFile)); v != "" {
		cfg.LogFile = v
	}
	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		cfg.LogLevel = v
	}
	return nil
}
