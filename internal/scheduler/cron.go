package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Midnight fires at 00:00 in the cron location.
const Midnight = "0 0 * * *"

// MidnightIn fires at 00:00 in loc whatever the cron location is.
func MidnightIn(loc *time.Location) string {
	if loc == nil {
		return Midnight
	}
	return "CRON_TZ=" + loc.String() + " " + Midnight
}

// Cron runs tasks on five-field cron specs evaluated in one location.
type Cron struct {
	c   *cron.Cron
	log zerolog.Logger
	ctx context.Context

	mu    sync.Mutex
	named map[string]cron.EntryID
}

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// NewCron binds tasks to ctx; they stop being scheduled once Run returns.
func NewCron(ctx context.Context, loc *time.Location, log zerolog.Logger) *Cron {
	if loc == nil {
		loc = time.Local
	}
	return &Cron{
		c:     cron.New(cron.WithParser(parser), cron.WithLocation(loc)),
		log:   log,
		ctx:   ctx,
		named: map[string]cron.EntryID{},
	}
}

func (c *Cron) Add(spec, name string, task Task) error {
	_, err := c.c.AddFunc(spec, func() { run(c.ctx, c.log, name, task) })
	if err != nil {
		return fmt.Errorf("schedule %s (%q): %w", name, spec, err)
	}
	return nil
}

// Set schedules task under name, replacing the entry an earlier Set made
// for the same name. Safe while running.
func (c *Cron) Set(spec, name string, task Task) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	id, err := c.c.AddFunc(spec, func() { run(c.ctx, c.log, name, task) })
	if err != nil {
		return fmt.Errorf("schedule %s (%q): %w", name, spec, err)
	}
	if old, ok := c.named[name]; ok {
		c.c.Remove(old)
	}
	c.named[name] = id
	c.log.Debug().Str("task", name).Str("spec", spec).Msg("scheduled")
	return nil
}

// NextRun reports when the task Set under name fires next.
func (c *Cron) NextRun(name string, now time.Time) (time.Time, bool) {
	c.mu.Lock()
	id, ok := c.named[name]
	c.mu.Unlock()
	if !ok {
		return time.Time{}, false
	}
	e := c.c.Entry(id)
	if !e.Valid() {
		return time.Time{}, false
	}
	return e.Schedule.Next(now), true
}

// Next reports when spec fires after now.
func (c *Cron) Next(spec string, now time.Time) (time.Time, error) {
	s, err := parser.Parse(spec)
	if err != nil {
		return time.Time{}, err
	}
	return s.Next(now.In(c.c.Location())), nil
}

// Run starts the scheduler and blocks until ctx is done, then waits for
// running tasks to finish.
func (c *Cron) Run() {
	c.c.Start()
	<-c.ctx.Done()
	<-c.c.Stop().Done()
}
