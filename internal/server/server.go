package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"content-feedback/internal/config"
	"content-feedback/internal/feedback"
	"content-feedback/internal/scheduler"
	"content-feedback/internal/similarity"
	"content-feedback/internal/simulation"
)

// Server exposes the feedback loop and simulators over HTTP.
type Server struct {
	cfg      config.ServerConfig
	engine   *gin.Engine
	feedback *feedback.Service
	store    *similarity.Store
	sched    *scheduler.Scheduler
	runner   *simulation.Runner
	logger   zerolog.Logger
}

// New constructs the HTTP server and registers all routes.
func New(cfg config.ServerConfig, svc *feedback.Service, store *similarity.Store, sched *scheduler.Scheduler, runner *simulation.Runner, logger zerolog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		cfg:      cfg,
		engine:   engine,
		feedback: svc,
		store:    store,
		sched:    sched,
		runner:   runner,
		logger:   logger.With().Str("component", "server").Logger(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.health)

	fb := s.engine.Group("/feedback")
	{
		fb.POST("/metrics", s.ingestMetric)
		fb.POST("/winners/search", s.searchWinners)
		fb.GET("/winners/brand/:brandId", s.brandWinners)
		fb.GET("/trends/brand/:brandId", s.brandTrends)
		fb.POST("/jobs/nightly-winner", s.runNightlyWinner)
		fb.GET("/stats", s.stats)
	}

	sim := s.engine.Group("/simulation")
	{
		sim.POST("/campaign", s.simulateCampaign)
		sim.POST("/audience", s.simulateAudience)
		sim.POST("/creative", s.simulateCreative)
	}
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:      s.engine,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	s.logger.Info().Msg("http server stopped")
	return nil
}
