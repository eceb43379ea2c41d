package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// JobFunc is a schedulable unit of work.
type JobFunc func(ctx context.Context) (Result, error)

// Result summarises one job execution.
type Result struct {
	Processed int
	Succeeded int
	Failed    int
}

// Options tune scheduler behaviour.
type Options struct {
	// PollInterval is how often the loop checks the wall clock.
	PollInterval time.Duration
	// TriggerHour/TriggerMinute name the wall-clock minute at which
	// TriggerJob fires, at most once per matching minute.
	TriggerHour   int
	TriggerMinute int
	// TriggerJob is the registered job the loop fires.
	TriggerJob string
}

// Status is a snapshot of the scheduler lifecycle.
type Status struct {
	Running   bool
	LastRunAt time.Time
}

// Scheduler drives the nightly winner job on a dedicated background
// goroutine. It is an explicit, constructor-injected instance owned by
// the composition root; Start and Stop bound its lifetime.
type Scheduler struct {
	opts   Options
	logger zerolog.Logger
	now    func() time.Time

	mu        sync.Mutex
	jobs      map[string]JobFunc
	running   bool
	cancel    context.CancelFunc
	done      chan struct{}
	lastRunAt time.Time

	// lastFired is the trigger minute already executed; touched only
	// by the loop goroutine.
	lastFired time.Time
}

// New constructs a stopped Scheduler.
func New(opts Options, logger zerolog.Logger) *Scheduler {
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Minute
	}
	return &Scheduler{
		opts:   opts,
		logger: logger.With().Str("component", "scheduler").Logger(),
		now:    time.Now,
		jobs:   make(map[string]JobFunc),
	}
}

// Register adds a named job. Must be called before Start.
func (s *Scheduler) Register(name string, job JobFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[name] = job
}

// Start spawns the background loop. A second Start while running is a
// logged no-op; only one loop ever exists.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.logger.Warn().Msg("scheduler already running; start ignored")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	go s.loop(ctx, s.done)
	s.logger.Info().
		Int("trigger_hour", s.opts.TriggerHour).
		Int("trigger_minute", s.opts.TriggerMinute).
		Dur("poll_interval", s.opts.PollInterval).
		Msg("scheduler started")
}

// Stop cancels the loop and blocks until it has fully exited. A Stop
// on a stopped scheduler returns immediately.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	cancel()
	<-done

	s.mu.Lock()
	s.running = false
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()

	s.logger.Info().Msg("scheduler stopped")
}

// RunNow executes the named job out-of-band, independent of the
// schedule. Safe to call while the loop is running.
func (s *Scheduler) RunNow(name string) (Result, error) {
	s.mu.Lock()
	job, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return Result{}, fmt.Errorf("scheduler: unknown job %q", name)
	}

	s.logger.Info().Str("job", name).Msg("running job on demand")
	return s.execute(context.Background(), name, job)
}

// Status reports whether the loop is running and when a job last ran.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{Running: s.running, LastRunAt: s.lastRunAt}
}

func (s *Scheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.maybeFire(ctx)
		}
	}
}

// maybeFire runs the trigger job when the current wall-clock minute
// matches the configured trigger and has not fired yet.
func (s *Scheduler) maybeFire(ctx context.Context) {
	now := s.now()
	if now.Hour() != s.opts.TriggerHour || now.Minute() != s.opts.TriggerMinute {
		return
	}

	minute := now.Truncate(time.Minute)
	if minute.Equal(s.lastFired) {
		return
	}
	s.lastFired = minute

	s.mu.Lock()
	job, ok := s.jobs[s.opts.TriggerJob]
	s.mu.Unlock()
	if !ok {
		s.logger.Error().Str("job", s.opts.TriggerJob).Msg("trigger job not registered")
		return
	}

	s.logger.Info().Str("job", s.opts.TriggerJob).Time("minute", minute).Msg("trigger minute matched")
	if _, err := s.execute(ctx, s.opts.TriggerJob, job); err != nil {
		s.logger.Error().Err(err).Str("job", s.opts.TriggerJob).Msg("scheduled job failed")
	}
}

func (s *Scheduler) execute(ctx context.Context, name string, job JobFunc) (Result, error) {
	started := s.now()
	result, err := job(ctx)

	s.mu.Lock()
	s.lastRunAt = started
	s.mu.Unlock()

	if err != nil {
		return result, fmt.Errorf("job %s: %w", name, err)
	}
	s.logger.Info().
		Str("job", name).
		Int("processed", result.Processed).
		Int("succeeded", result.Succeeded).
		Int("failed", result.Failed).
		Msg("job complete")
	return result, nil
}
