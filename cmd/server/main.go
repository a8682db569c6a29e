package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/serietrack/serietrack/internal/auth"
	"github.com/serietrack/serietrack/internal/config"
	httpserver "github.com/serietrack/serietrack/internal/http"
	"github.com/serietrack/serietrack/internal/repository"
	"github.com/serietrack/serietrack/internal/service"
	"github.com/serietrack/serietrack/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("config error")
	}

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	storeOpts := store.Options{
		MaxConns:               int32(cfg.DBMaxConns),
		MinConns:               int32(cfg.DBMinConns),
		MaxConnIdleTime:        time.Duration(cfg.DBMaxIdleSecs) * time.Second,
		MaxConnLifetime:        time.Duration(cfg.DBMaxLifeSecs) * time.Second,
		ConnTimeout:            time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
		StatementCacheCapacity: cfg.DBStatementCache,
		Logger:                 logger,
	}

	st, err := store.New(dbCtx, cfg.DBURL, storeOpts)
	if err != nil {
		logger.WithError(err).Fatal("connect database")
	}
	defer st.Close()

	repo := repository.New(st)
	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTExpiry, cfg.BcryptCost)

	svcs := httpserver.Services{
		Ratings: service.NewRatingsService(repo.Series, repo.Episodes, repo.Persons, repo.Ratings),
		Trending: service.NewTrendingService(service.TrendingConfig{
			WindowDays:   cfg.TrendingWindowDays,
			ViewWeight:   cfg.TrendingViewWeight,
			RatingWeight: cfg.TrendingRatingWeight,
			TopLimit:     cfg.TrendingTopLimit,
		}, repo.Series, repo.Ratings, repo.Views),
		Recommend: service.NewRecommendationService(service.DefaultRecommendConfig(), repo.Persons, repo.Series),
	}

	server := httpserver.New(cfg, st, repo, svcs, tokens, logger)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	logger.WithField("port", cfg.Port).Info("server listening")

	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
			logger.WithError(err).Error("server error")
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Error("graceful shutdown error")
	}
}
