package persist

import (
	"context"
	"errors"
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var ErrQueueFull = errors.New("sync queue is full")

type Config struct {
	QueueSize   int
	MaxAttempts int
	Timeout     time.Duration // per store call
	Backoff     BackoffConfig
	MaxFailures int
}

func DefaultConfig() Config {
	return Config{
		QueueSize:   1024,
		MaxAttempts: 5,
		Timeout:     10 * time.Second,
		Backoff:     DefaultBackoff(),
		MaxFailures: 100,
	}
}

// Result is the outcome of one job. Err is nil on success and a
// PersistenceError otherwise.
type Result struct {
	Job      Job
	Attempts int
	Err      error
	At       time.Time
}

// Syncer writes jobs to the store in the order they were enqueued, one at a
// time, so later changes to an entity never land before earlier ones.
type Syncer struct {
	logger zerolog.Logger
	store  Store
	cfg    Config
	queue  chan Job
	rng    *rand.Rand
	sleep  func(ctx context.Context, d time.Duration) error

	mu        sync.Mutex
	callbacks []func(Result)
	failures  []Result
}

func NewSyncer(logger zerolog.Logger, store Store, cfg Config) *Syncer {
	def := DefaultConfig()
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = def.MaxFailures
	}

	return &Syncer{
		logger: logger,
		store:  store,
		cfg:    cfg,
		queue:  make(chan Job, cfg.QueueSize),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:  sleepContext,
	}
}

// OnResult registers fn to be called with the outcome of every job. fn runs
// on the worker goroutine, or on the enqueuing goroutine when the queue is
// full, and must not block or call back into the board.
func (s *Syncer) OnResult(fn func(Result)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.callbacks = append(s.callbacks, fn)
}

// Enqueue hands a job to the worker without blocking. When the queue is
// full the job is reported as failed right away.
func (s *Syncer) Enqueue(job Job) {
	select {
	case s.queue <- job:
		s.logger.Debug().
			Str("op", string(job.Op)).
			Str("id", job.ID).
			Msg("queued sync job")
	default:
		s.logger.Error().
			Str("op", string(job.Op)).
			Str("id", job.ID).
			Msg("sync queue is full")
		s.report(Result{
			Job: job,
			Err: PersistenceError{Op: job.Op, ID: job.ID, Err: ErrQueueFull},
			At:  time.Now(),
		})
	}
}

// Pending returns the number of queued jobs.
func (s *Syncer) Pending() int {
	return len(s.queue)
}

// Run processes jobs until ctx is cancelled. Jobs still queued when it
// returns are left for Drain.
func (s *Syncer) Run(ctx context.Context) {
	s.logger.Info().
		Int("queue_size", s.cfg.QueueSize).
		Int("max_attempts", s.cfg.MaxAttempts).
		Msg("syncer started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().
				Int("pending", len(s.queue)).
				Msg("syncer stopped")
			return
		case job := <-s.queue:
			s.process(ctx, job)
		}
	}
}

// Drain writes the jobs left in the queue once Run has returned. Jobs that
// cannot be written before ctx ends are reported as failed, so every
// enqueued job produces exactly one result.
func (s *Syncer) Drain(ctx context.Context) {
	var drained, dropped int
	for {
		select {
		case job := <-s.queue:
			if err := ctx.Err(); err != nil {
				s.fail(job, 0, err)
				dropped++
				continue
			}
			s.process(ctx, job)
			drained++
		default:
			s.logger.Info().
				Int("drained", drained).
				Int("dropped", dropped).
				Msg("syncer drained")
			return
		}
	}
}

func (s *Syncer) process(ctx context.Context, job Job) {
	for attempt := 1; ; attempt++ {
		err := s.attempt(ctx, job)
		if err == nil {
			s.logger.Debug().
				Str("op", string(job.Op)).
				Str("id", job.ID).
				Int("attempts", attempt).
				Msg("synced")
			s.report(Result{Job: job, Attempts: attempt, At: time.Now()})
			return
		}

		if attempt >= s.cfg.MaxAttempts || ctx.Err() != nil {
			s.fail(job, attempt, err)
			return
		}

		delay := RetryDelay(attempt, s.cfg.Backoff, s.rng)
		s.logger.Warn().
			Err(err).
			Str("op", string(job.Op)).
			Str("id", job.ID).
			Int("attempt", attempt).
			Dur("retry_in", delay).
			Msg("sync failed, retrying")

		if err = s.sleep(ctx, delay); err != nil {
			s.fail(job, attempt, err)
			return
		}
	}
}

func (s *Syncer) attempt(ctx context.Context, job Job) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	return apply(ctx, s.store, job)
}

func (s *Syncer) fail(job Job, attempts int, err error) {
	s.logger.Error().
		Err(err).
		Str("op", string(job.Op)).
		Str("id", job.ID).
		Int("attempts", attempts).
		Msg("failed to sync")
	s.report(Result{
		Job:      job,
		Attempts: attempts,
		Err:      PersistenceError{Op: job.Op, ID: job.ID, Attempts: attempts, Err: err},
		At:       time.Now(),
	})
}

func (s *Syncer) report(res Result) {
	s.mu.Lock()
	if res.Err != nil {
		s.failures = append(s.failures, res)
		if over := len(s.failures) - s.cfg.MaxFailures; over > 0 {
			s.failures = s.failures[over:]
		}
	}
	callbacks := slices.Clone(s.callbacks)
	s.mu.Unlock()

	for _, fn := range callbacks {
		fn(res)
	}
}

// Failures returns the jobs that could not be written, oldest first.
func (s *Syncer) Failures() []Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Result(nil), s.failures...)
}

func (s *Syncer) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failures = nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
