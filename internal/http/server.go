package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/serietrack/serietrack/internal/auth"
	"github.com/serietrack/serietrack/internal/config"
	"github.com/serietrack/serietrack/internal/repository"
	"github.com/serietrack/serietrack/internal/service"
	"github.com/serietrack/serietrack/internal/store"
)

// Server wires HTTP routing, middleware, and handlers.
type Server struct {
	cfg       config.Config
	store     *store.Store
	repo      *repository.Repository
	ratings   *service.RatingsService
	trending  *service.TrendingService
	recommend *service.RecommendationService
	tokens    *auth.Manager
	logger    *logrus.Logger
	router    chi.Router
	httpSrv   *http.Server
}

// Services bundles the core engines the handlers delegate to.
type Services struct {
	Ratings   *service.RatingsService
	Trending  *service.TrendingService
	Recommend *service.RecommendationService
}

// New constructs the HTTP server with base middleware and routes.
func New(cfg config.Config, st *store.Store, repo *repository.Repository, svcs Services, tokens *auth.Manager, logger *logrus.Logger) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	if logger == nil {
		logger = logrus.StandardLogger()
	}

	s := &Server{
		cfg:       cfg,
		store:     st,
		repo:      repo,
		ratings:   svcs.Ratings,
		trending:  svcs.Trending,
		recommend: svcs.Recommend,
		tokens:    tokens,
		logger:    logger,
		router:    r,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Get("/healthz", s.handleHealthz)

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
	})

	s.router.Route("/series", func(r chi.Router) {
		r.Get("/", s.handleListSeries)
		r.Get("/search", s.handleSearchSeries)
		r.Get("/trending", s.handleTrending)
		r.With(s.requireAuth).Post("/", s.handleCreateSeries)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSeries)
			r.Get("/episodes", s.handleListSeriesEpisodes)
			r.With(s.requireAuth).Put("/", s.handleUpdateSeries)
			r.With(s.requireAuth).Delete("/", s.handleDeleteSeries)
		})
	})

	s.router.Route("/episodes", func(r chi.Router) {
		r.With(s.requireAuth).Post("/", s.handleCreateEpisode)
		r.Get("/{id}", s.handleGetEpisode)
	})

	s.router.Route("/persons", func(r chi.Router) {
		r.Get("/", s.handleListPersons)
		r.Get("/search", s.handleSearchPersons)
		r.With(s.requireAuth).Post("/", s.handleCreatePerson)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetPerson)
			r.With(s.requireAuth).Put("/", s.handleUpdatePerson)
			r.With(s.requireAuth).Delete("/", s.handleDeletePerson)
			r.Get("/history", s.handleGetHistory)
			r.With(s.requireAuth).Post("/history/{seriesId}", s.handleAddHistory)
			r.Get("/recommendations", s.handleRecommendations)
		})
	})

	s.router.Route("/ratings", func(r chi.Router) {
		r.Get("/", s.handleListRatings)
		r.Get("/person/{id}", s.handleListRatingsByPerson)
		r.With(s.requireAuth).Post("/series/{id}", s.handleRateSeries)
		r.With(s.requireAuth).Post("/episode/{id}", s.handleRateEpisode)
		r.Get("/series/{id}/average", s.handleSeriesAverage)
		r.Get("/episode/{id}/average", s.handleEpisodeAverage)
	})

	s.router.Route("/views", func(r chi.Router) {
		r.Get("/", s.handleListViews)
		r.With(s.requireAuth).Post("/", s.handleCreateView)
	})
}

// Start boots the HTTP server and blocks until shutdown or failure.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.IdleTimeoutSecs) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.HealthCheck(ctx); err != nil {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
