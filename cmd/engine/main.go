package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"jobcal-engine/internal/config"
	"jobcal-engine/internal/domain"
	"jobcal-engine/internal/events"
	"jobcal-engine/internal/httpapi"
	"jobcal-engine/internal/instance"
	"jobcal-engine/internal/logger"
	"jobcal-engine/internal/metrics"
	"jobcal-engine/internal/scheduler"
	"jobcal-engine/internal/store"
)

func main() {
	boot := logger.New("info", false)
	if err := run(boot); err != nil {
		boot.Fatal().Err(err).Msg("engine stopped")
	}
}

func run(boot zerolog.Logger) error {
	// Engine data dir: the desktop shell can pass one, else the local folder.
	dataDir := config.DataDir(os.Getenv)
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	userCfgPath, err := config.EnsureUserConfig(dataDir)
	if err != nil {
		return fmt.Errorf("config bootstrap failed: %w", err)
	}

	// Load config and keep it reloadable
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		cfg, err := config.Load(userCfgPath)
		if err != nil {
			return cfg, err
		}
		if err := config.ApplyEnv(&cfg, os.Getenv); err != nil {
			return cfg, err
		}
		return cfg, config.Validate(cfg)
	}
	cfg, err := loadCfg()
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", userCfgPath, err)
	}
	cfgVal.Store(cfg)

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	lock, err := instance.Acquire(dataDir)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	seedPath := cfg.Calendar.SeedPath
	if seedPath != "" && !filepath.IsAbs(seedPath) {
		seedPath = filepath.Join(dataDir, seedPath)
	}
	seed, err := config.LoadSeed(seedPath)
	if err != nil {
		return fmt.Errorf("seed load failed: %w", err)
	}
	leaders, employees, jobs, err := seed.Resolve()
	if err != nil {
		return fmt.Errorf("seed %s: %w", seedPath, err)
	}

	var (
		sink     metrics.Sink = metrics.NewNoopSink()
		gatherer prometheus.Gatherer
	)
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		sink = metrics.NewPrometheusSink(reg)
		gatherer = reg
	}

	// "today" follows the configured zone, so a timezone change via PUT /api/config is live.
	location := func() *time.Location {
		loc, err := cfgVal.Load().(config.Config).Location()
		if err != nil {
			return time.UTC
		}
		return loc
	}
	st, err := store.New(leaders, employees, jobs,
		store.WithToday(func() domain.Date { return domain.Today(time.Now(), location()) }),
		store.WithMetrics(sink),
	)
	if err != nil {
		return fmt.Errorf("seed %s: %w", seedPath, err)
	}

	hub := events.NewHub(sink)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Midnight in the configured zone, re-armed whenever the zone changes.
	daily := scheduler.NewCron(ctx, time.UTC, log)
	rollover := func() error {
		return daily.Set(scheduler.MidnightIn(location()), "day-rollover", func(context.Context) error {
			today := st.Today()
			log.Info().Stringer("today", today).Msg("day changed")
			hub.Emit("", events.TypeDayChanged, map[string]any{"today": today})
			return nil
		})
	}
	if err := rollover(); err != nil {
		return err
	}

	mux := httpapi.NewRouter(httpapi.Deps{
		Store:       st,
		Hub:         hub,
		Log:         log,
		CfgVal:      &cfgVal,
		UserCfgPath: userCfgPath,
		LoadCfg:     loadCfg,
		OnConfigChange: func(config.Config) {
			if err := rollover(); err != nil {
				log.Error().Err(err).Msg("day rollover not rescheduled")
			}
		},
		Metrics:  sink,
		Gatherer: gatherer,
	})

	token := os.Getenv("JOBCAL_SHUTDOWN_TOKEN")
	if token == "" {
		if token, err = randomToken(32); err != nil {
			return err
		}
		// The desktop shell reads this line to learn the token.
		fmt.Printf("JOBCAL_SHUTDOWN_TOKEN=%s\n", token)
	}

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		// SSE streams end when the engine stops.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	mux.Post("/shutdown", shutdownHandler(&token, srv, log))

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		return err
	}
	log.Info().
		Str("addr", "http://"+ln.Addr().String()).
		Str("config", userCfgPath).
		Str("timezone", location().String()).
		Int("jobs", st.Len()).
		Msg("engine listening")

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		return srv.Shutdown(shutdownCtx)
	})

	// Keeps idle SSE connections open through proxies and lets the UI notice a dead engine.
	g.Go(func() error {
		scheduler.Every(gctx, log, cfg.Heartbeat(), "heartbeat", func(context.Context) error {
			hub.Emit("", events.TypePing, nil)
			return nil
		})
		return nil
	})

	g.Go(func() error {
		daily.Run()
		return nil
	})

	err = g.Wait()
	log.Info().Err(err).Msg("engine stopped")
	return err
}
