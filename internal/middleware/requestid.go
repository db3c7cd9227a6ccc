package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/echo-api/internal/logger"
)

// maxRequestIDLen caps client-supplied request IDs.
const maxRequestIDLen = 128

// RequestID propagates the caller's X-Request-Id or generates a new UUID,
// echoes it on the response and stores a request-scoped logger on the
// context.
func RequestID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get(logger.RequestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLen {
			requestID = uuid.New().String()
		}

		c.Request().Header.Set(logger.RequestIDHeader, requestID)
		c.Response().Header().Set(logger.RequestIDHeader, requestID)
		logger.WithRequestID(c, requestID)

		return next(c)
	}
}
