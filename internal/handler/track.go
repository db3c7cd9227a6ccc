package handler

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"
)

// bodyRecorder keeps a copy of everything written to the client.
type bodyRecorder struct {
	http.ResponseWriter
	buf bytes.Buffer
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	r.buf.Write(b)
	return r.ResponseWriter.Write(b)
}

// Track records the operation metric and publishes the echo event for every
// 200 response of the wrapped route.  It must sit in front of the response
// cache so cached answers are counted too; on a cache hit the handler never
// runs and the message is taken from the path.
func (h *EchoHandler) Track(op string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rec := &bodyRecorder{ResponseWriter: c.Response().Writer}
			c.Response().Writer = rec

			err := next(c)
			if err != nil || c.Response().Status != http.StatusOK {
				return err
			}

			message, ok := c.Get(messageKey).(string)
			if !ok {
				message = pathParam(c, "message")
			}
			h.Metrics.RecordOperation(op)
			h.publish(c, op, message, rec.buf.String())
			return nil
		}
	}
}
