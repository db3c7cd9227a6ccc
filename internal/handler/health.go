package handler // declare the package name; contains HTTP handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// HealthHandler serves liveness and readiness checks.  Redis is optional:
// when it is nil the service has nothing external to wait for.
type HealthHandler struct {
	Redis *redis.Client
}

// Health is the liveness check used by load balancers and monitoring
// systems.  It returns a plain text "ok" with 200 as long as the process
// serves HTTP.
func (h *HealthHandler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Ready reports 503 when a configured Redis does not answer a ping.  The
// service still works without Redis (cache and rate limit fail open), so
// this only signals degraded operation.
func (h *HealthHandler) Ready(c echo.Context) error {
	if h.Redis != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), time.Second)
		defer cancel()
		if err := h.Redis.Ping(ctx).Err(); err != nil {
			return c.String(http.StatusServiceUnavailable, "redis unavailable")
		}
	}
	return c.String(http.StatusOK, "ready")
}
