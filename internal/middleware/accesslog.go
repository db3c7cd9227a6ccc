package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/echo-api/internal/logger"
)

// AccessLog writes one structured log entry per request.  It must run after
// RequestID so the entry carries the request ID.  It is the only middleware
// that hands an error to Echo's error handler; the error is consumed here so
// the handler runs once per request.
func AccessLog(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		err := next(c)
		if err != nil {
			// Write the error response now so the logged status is final.
			c.Error(err)
		}

		fields := []zap.Field{
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Int("status", c.Response().Status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.RealIP()),
			zap.String("user_agent", c.Request().UserAgent()),
		}

		log := logger.FromContext(c)
		if err != nil {
			log.Error("HTTP request failed", append(fields, zap.Error(err))...)
		} else {
			log.Info("HTTP request completed", fields...)
		}
		return nil
	}
}
