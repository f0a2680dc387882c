package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Host string `yaml:"host" json:"host"`
		Port int    `yaml:"port" json:"port"`
	} `yaml:"app" json:"app"`

	Calendar struct {
		// Timezone decides which calendar day is "today".
		Timezone string `yaml:"timezone" json:"timezone"`
		SeedPath string `yaml:"seed_path" json:"seed_path"`
	} `yaml:"calendar" json:"calendar"`

	HTTP struct {
		CORSOrigins        []string `yaml:"cors_origins" json:"cors_origins"`
		RequestsPerMinute  int      `yaml:"requests_per_minute" json:"requests_per_minute"`
		MutationsPerSecond float64  `yaml:"mutations_per_second" json:"mutations_per_second"`
		MutationBurst      int      `yaml:"mutation_burst" json:"mutation_burst"`
	} `yaml:"http" json:"http"`

	Metrics struct {
		Enabled bool   `yaml:"enabled" json:"enabled"`
		Path    string `yaml:"path" json:"path"`
	} `yaml:"metrics" json:"metrics"`

	Log struct {
		Level  string `yaml:"level" json:"level"`
		Pretty bool   `yaml:"pretty" json:"pretty"`
	} `yaml:"log" json:"log"`

	Events struct {
		HeartbeatSeconds int `yaml:"heartbeat_seconds" json:"heartbeat_seconds"`
	} `yaml:"events" json:"events"`
}

// Default is the configuration used for any key the file leaves out.
func Default() Config {
	var c Config
	c.App.Host = "127.0.0.1"
	c.App.Port = 38471
	c.Calendar.Timezone = "America/New_York"
	c.HTTP.CORSOrigins = []string{"tauri://localhost", "http://localhost:5173"}
	c.HTTP.RequestsPerMinute = 600
	c.HTTP.MutationsPerSecond = 20
	c.HTTP.MutationBurst = 40
	c.Metrics.Enabled = true
	c.Metrics.Path = "/metrics"
	c.Log.Level = "info"
	c.Events.HeartbeatSeconds = 25
	return c
}

// Load reads path over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides file values with JOBCAL_* variables.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	if v := getenv("JOBCAL_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("JOBCAL_PORT: %w", err)
		}
		cfg.App.Port = p
	}
	return nil
}

// DataDir is where config.yml, the instance lock and relative seed paths
// live. It cannot come from config.yml itself, so only the environment sets it.
func DataDir(getenv func(string) string) string {
	if v := getenv("JOBCAL_DATA_DIR"); v != "" {
		return v
	}
	return "."
}

func (c Config) Addr() string {
	return net.JoinHostPort(c.App.Host, strconv.Itoa(c.App.Port))
}

// Location falls back to the local zone when no timezone is set.
func (c Config) Location() (*time.Location, error) {
	if c.Calendar.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Calendar.Timezone)
}

func (c Config) Heartbeat() time.Duration {
	return time.Duration(c.Events.HeartbeatSeconds) * time.Second
}
