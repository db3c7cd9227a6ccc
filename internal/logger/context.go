package logger

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	// RequestIDHeader carries the request ID in both directions.
	RequestIDHeader = echo.HeaderXRequestID

	contextKey   = "logger"
	requestIDKey = "request_id"
)

// WithRequestID stores the request ID and a logger tagged with it on c.
func WithRequestID(c echo.Context, requestID string) *zap.Logger {
	l := Get().With(zap.String("request_id", requestID))
	c.Set(requestIDKey, requestID)
	c.Set(contextKey, l)
	return l
}

// RequestID returns the ID stored by WithRequestID, falling back to the
// request header and then "unknown".
func RequestID(c echo.Context) string {
	if id, ok := c.Get(requestIDKey).(string); ok && id != "" {
		return id
	}
	if id := c.Request().Header.Get(RequestIDHeader); id != "" {
		return id
	}
	return "unknown"
}

// FromContext retrieves the request-scoped logger from c.
func FromContext(c echo.Context) *zap.Logger {
	if l, ok := c.Get(contextKey).(*zap.Logger); ok {
		return l
	}
	return Get().With(zap.String("request_id", RequestID(c)))
}
