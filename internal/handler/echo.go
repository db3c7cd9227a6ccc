package handler

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/echo-api/internal/logger"
	"github.com/iliyamo/echo-api/internal/metrics"
	"github.com/iliyamo/echo-api/internal/model"
	"github.com/iliyamo/echo-api/internal/queue"
	"github.com/iliyamo/echo-api/internal/service"
)

// Operation names used for metrics labels and published events.
const (
	OpEcho        = "echo"
	OpEchoRequest = "echo_request"
	OpEchoDetails = "echo_details"
	OpEchoMethod  = "echo_method"
	OpTimestamp   = "timestamp"
)

const (
	defaultPublishTimeout = 3 * time.Second
	invalidBody           = "Invalid request body"
	messageKey            = "echo_message"
)

// EchoHandler bundles dependencies for the echo endpoints.  Metrics and
// Events are optional; a nil Events disables publishing.
type EchoHandler struct {
	Service        *service.EchoService
	Metrics        *metrics.Metrics
	Events         queue.Publisher
	PublishTimeout time.Duration
}

// NewEchoHandler wires an EchoHandler with the default publish timeout.
func NewEchoHandler(svc *service.EchoService, m *metrics.Metrics, events queue.Publisher) *EchoHandler {
	return &EchoHandler{Service: svc, Metrics: m, Events: events, PublishTimeout: defaultPublishTimeout}
}

// GetEcho: GET /echo/:message
func (h *EchoHandler) GetEcho(c echo.Context) error {
	message := pathParam(c, "message")
	return h.respond(c, message, h.Service.Echo(message))
}

// PostEcho: POST /echo with a JSON EchoRequest body.
func (h *EchoHandler) PostEcho(c echo.Context) error {
	var req model.EchoRequest
	if err := c.Bind(&req); err != nil {
		logger.FromContext(c).Debug("bind echo request failed", zap.Error(err))
		h.Metrics.RecordValidationFailure("invalid_body")
		return c.String(http.StatusBadRequest, invalidBody)
	}
	if err := service.ValidateRequest(req); err != nil {
		return h.badRequest(c, "message_required", err)
	}
	return h.respond(c, *req.Message, h.Service.ProcessEchoRequest(req, c.Request().Method))
}

// PutEcho: PUT /echo/:message?count=N.  A missing or non-numeric count is
// treated as zero and rejected with the range error.
func (h *EchoHandler) PutEcho(c echo.Context) error {
	message := pathParam(c, "message")
	count, err := strconv.Atoi(c.QueryParam("count"))
	if err != nil {
		count = 0
	}
	if err := service.ValidateCount(count); err != nil {
		return h.badRequest(c, "count_out_of_range", err)
	}
	return h.respond(c, message, h.Service.EchoWithDetails(message, count))
}

// DeleteEcho: DELETE /echo/:message
func (h *EchoHandler) DeleteEcho(c echo.Context) error {
	message := pathParam(c, "message")
	return h.respond(c, message, h.Service.EchoWithMethod(message, c.Request().Method))
}

// Timestamp: GET /timestamp
func (h *EchoHandler) Timestamp(c echo.Context) error {
	h.Metrics.RecordOperation(OpTimestamp)
	return c.String(http.StatusOK, h.Service.Timestamp())
}

// respond writes result and remembers the echoed message for Track.
func (h *EchoHandler) respond(c echo.Context, message, result string) error {
	c.Set(messageKey, message)
	return c.String(http.StatusOK, result)
}

func (h *EchoHandler) badRequest(c echo.Context, reason string, err error) error {
	h.Metrics.RecordValidationFailure(reason)
	return c.String(http.StatusBadRequest, err.Error())
}

// publish sends the event in the background so broker latency never
// reaches the client.
func (h *EchoHandler) publish(c echo.Context, op, message, result string) {
	if h.Events == nil {
		return
	}
	ev := queue.NewEchoEvent(op, c.Request().Method, message, result)
	ev.RequestID = logger.RequestID(c)
	ev.RemoteIP = c.RealIP()
	log := logger.FromContext(c)
	timeout := h.PublishTimeout
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := h.Events.PublishEchoEvent(ctx, ev)
		h.Metrics.RecordEventPublished(err == nil)
		if err != nil {
			log.Warn("publish echo event failed", zap.String("operation", op), zap.Error(err))
		}
	}()
}

// pathParam returns the decoded value of a path parameter.  Echo matches
// against the raw path when the request path needed escaping, in which case
// the parameter is still percent-encoded.
func pathParam(c echo.Context, name string) string {
	v := c.Param(name)
	if c.Request().URL.RawPath == "" {
		return v
	}
	if decoded, err := url.PathUnescape(v); err == nil {
		return decoded
	}
	return v
}
