package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4" // Echo web framework
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/iliyamo/echo-api/internal/config"
	"github.com/iliyamo/echo-api/internal/handler"
	"github.com/iliyamo/echo-api/internal/logger"
	"github.com/iliyamo/echo-api/internal/metrics"
	"github.com/iliyamo/echo-api/internal/queue"
	"github.com/iliyamo/echo-api/internal/router"
	"github.com/iliyamo/echo-api/internal/service"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg := config.Load() // Load environment config

	log, err := logger.Init(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New(cfg.MetricsPrefix, prometheus.DefaultRegisterer)

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable; response cache and rate limiting disabled")
	} else {
		defer func() { _ = rdb.Close() }()
	}

	var events queue.Publisher
	if cfg.EventsEnabled {
		pub := queue.NewAMQPPublisher(cfg.RabbitURL, cfg.EventsQueue)
		defer func() { _ = pub.Close() }()
		events = pub
		log.Info("publishing echo events", zap.String("queue", cfg.EventsQueue))
	}
	if cfg.EventsConsumerEnabled {
		go func() {
			err := queue.StartEchoConsumer(ctx, queue.ConsumerConfig{
				URL:     cfg.RabbitURL,
				Queue:   cfg.EventsQueue,
				LogPath: cfg.EventsLogPath,
				Logger:  log,
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Error("echo consumer stopped", zap.Error(err))
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	err = router.RegisterRoutes(e, router.Options{
		Echo:      handler.NewEchoHandler(service.NewEchoService(), m, events),
		Metrics:   m,
		Redis:     rdb,
		RateLimit: config.LoadRateLimitConfig(),
		Cache:     config.LoadCacheConfig(),
		Docs:      cfg.DocsEnabled,
		Version:   version,
	})
	if err != nil {
		log.Fatal("failed to register routes", zap.Error(err))
	}

	addr := ":" + cfg.Port
	log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env), zap.String("version", version))

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
