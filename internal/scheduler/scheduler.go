package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

type Task func(ctx context.Context) error

// Every runs task once immediately, then on each tick until ctx is done.
func Every(ctx context.Context, log zerolog.Logger, interval time.Duration, name string, task Task) {
	t := time.NewTicker(interval)
	defer t.Stop()

	// run immediately
	go run(ctx, log, name, task)

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			run(ctx, log, name, task)
		}
	}
}

func run(ctx context.Context, log zerolog.Logger, name string, task Task) {
	if err := task(ctx); err != nil {
		log.Error().Err(err).Str("task", name).Msg("scheduled task failed")
	}
}
