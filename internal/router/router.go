package router // package router defines how HTTP routes are registered for the API

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/echo-api/internal/config"
	"github.com/iliyamo/echo-api/internal/docs"
	"github.com/iliyamo/echo-api/internal/handler"
	"github.com/iliyamo/echo-api/internal/middleware"
	"github.com/iliyamo/echo-api/internal/metrics"
)

// Options carries everything RegisterRoutes wires together.  Redis may be
// nil, in which case caching and rate limiting are disabled.
type Options struct {
	Echo      *handler.EchoHandler
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
	Redis     *redis.Client
	RateLimit config.RateLimitConfig
	Cache     config.CacheConfig
	Docs      bool
	Version   string
}

// RegisterRoutes installs the global middleware chain and every route.
func RegisterRoutes(e *echo.Echo, o Options) error {
	e.Use(middleware.RequestID)
	e.Use(middleware.AccessLog)
	e.Use(middleware.Metrics(o.Metrics))
	// Innermost, so a panic comes back as an error that Metrics counts and
	// AccessLog logs and writes.
	e.Use(echomw.RecoverWithConfig(echomw.RecoverConfig{DisableErrorHandler: true}))

	health := &handler.HealthHandler{Redis: o.Redis}
	e.GET("/healthz", health.Health)
	e.GET("/readyz", health.Ready)

	gatherer := o.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	if o.Docs {
		if err := docs.Register(e, o.Version); err != nil {
			return err
		}
		e.GET("/", func(c echo.Context) error {
			return c.Redirect(http.StatusFound, docs.BasePath)
		})
	}

	RegisterEcho(e, o.Echo, middleware.NewTokenBucket(o.RateLimit, o.Redis), middleware.NewRedisCache(o.Cache, o.Redis))
	return nil
}

// RegisterEcho maps the echo endpoints.  Every route goes through the rate
// limiter; only GET responses are cached.  Track runs ahead of the cache so
// cache hits still count as operations and still publish events.
func RegisterEcho(e *echo.Echo, h *handler.EchoHandler, limit, cache echo.MiddlewareFunc) {
	e.GET("/echo/:message", h.GetEcho, limit, h.Track(handler.OpEcho), cache)
	e.POST("/echo", h.PostEcho, limit, h.Track(handler.OpEchoRequest))
	e.PUT("/echo/:message", h.PutEcho, limit, h.Track(handler.OpEchoDetails))
	e.DELETE("/echo/:message", h.DeleteEcho, limit, h.Track(handler.OpEchoMethod))
	e.GET("/timestamp", h.Timestamp, limit)
}
