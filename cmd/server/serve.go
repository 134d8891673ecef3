package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/film-dashboard/internal/catalog"
	"github.com/iliyamo/film-dashboard/internal/config"
	"github.com/iliyamo/film-dashboard/internal/handler"
	"github.com/iliyamo/film-dashboard/internal/logging"
	"github.com/iliyamo/film-dashboard/internal/middleware"
	"github.com/iliyamo/film-dashboard/internal/router"
	"github.com/iliyamo/film-dashboard/internal/service"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.RequireSessionSecret(); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	log := logging.New(cfg.Log)
	defer func() { _ = log.Sync() }()

	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	} else {
		log.Warn("redis unavailable; using in-process session cache and no rate limiting")
	}

	opts := cfg.Catalog()
	opts.Logger = log.Named("catalog")
	opts.Cache = catalog.NewMemoryCache(cfg.SessionTTL)
	if rdb != nil {
		opts.Cache = catalog.NewRedisCache(rdb, cfg.Redis.Prefix, cfg.SessionTTL)
	}
	if cfg.Events.Enabled {
		opts.Notifier = service.NewPublisher(cfg.Events.URL, cfg.Events.Queue, log.Named("events"))
	}
	films := catalog.NewAccessor(store, opts)

	renderer, err := handler.NewRenderer()
	if err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.Use(echomw.Recover())
	e.Use(requestLogger(log.Named("http")))

	session := middleware.Session(cfg.SessionSecret, cfg.SessionTTL, cfg.Env == "prod")
	limiter := middleware.NewTokenBucket(cfg.RateLimit, rdb, log.Named("ratelimit"))
	router.RegisterRoutes(e)
	router.RegisterDashboard(e, handler.NewDashboardHandler(films), session, limiter)
	router.RegisterAPI(e, handler.NewAPIHandler(films), session, limiter)

	addr := ":" + cfg.Port
	log.Info("listening",
		zap.String("addr", addr),
		zap.String("env", cfg.Env),
		zap.String("collection", films.Collection()),
		zap.String("cache_policy", string(films.Policy())))

	errCh := make(chan error, 1)
	go func() { errCh <- e.Start(addr) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("shutting down")
	return e.Shutdown(shutdownCtx)
}

func requestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("session", middleware.SessionID(c)),
			}
			if v.Error != nil {
				log.Error("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			log.Info("request", fields...)
			return nil
		},
	})
}
