package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"gopkg.in/yaml.v3"
)

func Validate(cfg Config) error {
	var errs []string

	if cfg.App.Port <= 0 || cfg.App.Port > 65535 {
		errs = append(errs, "app.port must be 1..65535")
	}
	if strings.TrimSpace(cfg.App.Host) == "" {
		errs = append(errs, "app.host is required")
	}
	if cfg.Calendar.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Calendar.Timezone); err != nil {
			errs = append(errs, fmt.Sprintf("calendar.timezone %q is not a known zone", cfg.Calendar.Timezone))
		}
	}
	if cfg.HTTP.RequestsPerMinute < 0 {
		errs = append(errs, "http.requests_per_minute must be >= 0")
	}
	if cfg.HTTP.MutationsPerSecond < 0 {
		errs = append(errs, "http.mutations_per_second must be >= 0")
	}
	if cfg.HTTP.MutationsPerSecond > 0 && cfg.HTTP.MutationBurst < 1 {
		errs = append(errs, "http.mutation_burst must be >= 1 when mutations_per_second is set")
	}
	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, "metrics.path must start with /")
	}
	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
		errs = append(errs, fmt.Sprintf("log.level %q is not a level", cfg.Log.Level))
	}
	if cfg.Events.HeartbeatSeconds <= 0 {
		errs = append(errs, "events.heartbeat_seconds must be > 0")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n- " + strings.Join(errs, "\n- "))
	}
	return nil
}

func SaveAtomic(path string, cfg Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	b, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	bak := path + ".bak"

	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}

	_ = os.Remove(bak)
	_ = os.Rename(path, bak)

	return os.Rename(tmp, path)
}
