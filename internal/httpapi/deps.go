package httpapi

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"jobcal-engine/internal/config"
	"jobcal-engine/internal/events"
	"jobcal-engine/internal/metrics"
	"jobcal-engine/internal/store"
)

type Deps struct {
	Store *store.Store
	Hub   *events.Hub
	Log   zerolog.Logger

	// Atomic stores
	CfgVal *atomic.Value // stores config.Config

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// OnConfigChange runs after PUT /api/config swaps in a new config.
	OnConfigChange func(config.Config)

	Metrics  metrics.Sink
	Gatherer prometheus.Gatherer // served on metrics.path when set

	// Now is the wall clock used for export timestamps. Nil means time.Now.
	Now func() time.Time
}

func (d Deps) config() config.Config {
	return d.CfgVal.Load().(config.Config)
}

// location is the configured calendar zone, UTC if it cannot be loaded.
func (d Deps) location() *time.Location {
	loc, err := d.config().Location()
	if err != nil {
		return time.UTC
	}
	return loc
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}
