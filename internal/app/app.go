package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"content-feedback/internal/config"
	"content-feedback/internal/feedback"
	"content-feedback/internal/scheduler"
	"content-feedback/internal/server"
	"content-feedback/internal/similarity"
	"content-feedback/internal/simulation"
	"content-feedback/internal/storage"
)

// NightlyWinnerJobName is the registered name of the scheduled job.
const NightlyWinnerJobName = "nightly_winner"

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) openRepository(ctx context.Context) (*storage.Repository, func(), error) {
	if a.Config.Database.DSN == "" {
		return nil, nil, errors.New("database.dsn is required")
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, nil, err
	}

	repo := storage.NewRepository(pool)
	closer := func() {
		repo.Close()
	}
	return repo, closer, nil
}

func (a *App) newFeedbackService(repo *storage.Repository, store *similarity.Store) *feedback.Service {
	return feedback.New(repo, repo, repo, store, a.Logger)
}

func (a *App) newScheduler(svc *feedback.Service) *scheduler.Scheduler {
	sched := scheduler.New(scheduler.Options{
		PollInterval:  a.Config.Scheduler.PollInterval,
		TriggerHour:   a.Config.Scheduler.TriggerHour,
		TriggerMinute: a.Config.Scheduler.TriggerMinute,
		TriggerJob:    NightlyWinnerJobName,
	}, a.Logger)

	sched.Register(NightlyWinnerJobName, func(ctx context.Context) (scheduler.Result, error) {
		stats, err := svc.NightlyWinnerJob(ctx)
		return scheduler.Result{
			Processed: stats.BrandsProcessed,
			Succeeded: stats.WinnersIdentified,
			Failed:    stats.Errors,
		}, err
	})
	return sched
}

// Run starts the scheduler and HTTP server and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	repo, closeRepo, err := a.openRepository(ctx)
	if err != nil {
		return err
	}
	defer closeRepo()

	store := similarity.NewStore(a.Config.Similarity.EmbeddingDims)
	svc := a.newFeedbackService(repo, store)
	sched := a.newScheduler(svc)
	runner := simulation.NewRunner(a.Logger)
	srv := server.New(a.Config.Server, svc, store, sched, runner, a.Logger)

	sched.Start()
	defer sched.Stop()

	a.Logger.Info().Msg("starting feedback service")
	err = srv.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("service terminated with error")
		return err
	}

	a.Logger.Info().Msg("feedback service stopped")
	return nil
}

// ExportOptions hold parameters for exporting a brand's metric history.
type ExportOptions struct {
	BrandID   int64
	From      *time.Time
	To        *time.Time
	PNGPath   string
	CSVPath   string
	MaxPoints int
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Limit int
}
