package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/echo-api/internal/metrics"
)

// Metrics records request count and latency labelled by method, route
// pattern and status.  Route patterns keep label cardinality bounded.
// Errors are passed on uncommitted; the status is derived from them.
func Metrics(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			m.ObserveRequest(c.Request().Method, path, strconv.Itoa(statusOf(c, err)), start)
			return err
		}
	}
}

// statusOf predicts the status Echo's error handler will write for err.
func statusOf(c echo.Context, err error) int {
	if err == nil || c.Response().Committed {
		return c.Response().Status
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}
