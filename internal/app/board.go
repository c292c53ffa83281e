package app

import (
	"context"

	"github.com/adanyl0v/go-taskboard/internal/board"
	"github.com/adanyl0v/go-taskboard/internal/config"
	"github.com/adanyl0v/go-taskboard/internal/models"
	"github.com/adanyl0v/go-taskboard/internal/persist"
	"github.com/adanyl0v/go-taskboard/internal/services"
)

var (
	globalBoard  *board.Board
	globalSyncer *persist.Syncer

	stopSyncer context.CancelFunc
	syncerDone chan struct{}
)

// MustInitBoard builds the board from the configured views, fills it with
// the stored collections and starts the background syncer.
func MustInitBoard() {
	cfg := config.Global()

	views := mustLoadViews(cfg.Board)

	logger := componentLogger("store")
	store := services.NewStore(
		services.NewTaskService(logger, globalPostgresPool),
		services.NewProjectService(logger, globalPostgresPool),
		services.NewPersonService(logger, globalPostgresPool),
		services.NewColumnService(logger, globalPostgresPool),
	)

	globalSyncer = persist.NewSyncer(componentLogger("syncer"), store, persist.Config{
		QueueSize:   cfg.Sync.QueueSize,
		MaxAttempts: cfg.Sync.MaxAttempts,
		Timeout:     cfg.Sync.Timeout,
		Backoff: persist.BackoffConfig{
			BaseDelay: cfg.Sync.BaseDelay,
			MaxDelay:  cfg.Sync.MaxDelay,
		},
		MaxFailures: cfg.Sync.MaxFailures,
	})
	globalSyncer.OnResult(logSyncFailure)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Postgres.LoadTimeout)
	defer cancel()

	snap, err := persist.Load(ctx, store)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to load board")
		panic(err)
	}

	globalBoard = board.New(componentLogger("board"), views, globalSyncer)
	globalBoard.Load(snap)
	globalLogger.Info().
		Int("tasks", len(snap.Tasks)).
		Int("projects", len(snap.Projects)).
		Int("people", len(snap.People)).
		Msg("loaded board")

	var runCtx context.Context
	runCtx, stopSyncer = context.WithCancel(context.Background())
	syncerDone = make(chan struct{})
	go func() {
		defer close(syncerDone)
		globalSyncer.Run(runCtx)
	}()
}

// StopSyncer stops the background syncer, waits for the job in flight and
// then writes what is still queued within SYNC_DRAIN_TIMEOUT. Changes that
// miss the deadline are logged through logSyncFailure.
func StopSyncer() {
	if stopSyncer == nil {
		return
	}
	stopSyncer()
	<-syncerDone

	ctx, cancel := context.WithTimeout(context.Background(), config.Global().Sync.DrainTimeout)
	defer cancel()
	globalSyncer.Drain(ctx)

	globalLogger.Info().
		Int("failures", len(globalSyncer.Failures())).
		Msg("stopped syncer")
}

func mustLoadViews(cfg config.BoardConfig) *models.Views {
	views := models.DefaultViews()
	if cfg.ViewsFile != "" {
		var err error
		views, err = models.LoadViews(cfg.ViewsFile)
		if err != nil {
			globalLogger.Error().
				Err(err).
				Str("path", cfg.ViewsFile).
				Msg("failed to load views")
			panic(err)
		}
	}

	if cfg.DefaultView != "" {
		views.Default = cfg.DefaultView
		err := views.Validate()
		if err != nil {
			globalLogger.Error().
				Err(err).
				Str("default_view", cfg.DefaultView).
				Msg("invalid default view")
			panic(err)
		}
	}

	globalLogger.Debug().
		Str("default", views.Default).
		Int("count", len(views.Views)).
		Msg("loaded views")
	return views
}

// logSyncFailure runs on the syncer's goroutine and must not touch the
// board.
func logSyncFailure(res persist.Result) {
	if res.Err == nil {
		return
	}
	globalLogger.Warn().
		Err(res.Err).
		Str("op", string(res.Job.Op)).
		Str("id", res.Job.ID).
		Msg("change kept locally but not saved")
}
