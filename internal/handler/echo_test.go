package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/iliyamo/echo-api/internal/metrics"
	"github.com/iliyamo/echo-api/internal/queue"
	"github.com/iliyamo/echo-api/internal/service"
)

type recordingPublisher struct {
	events chan queue.EchoEvent
	err    error
}

func (p *recordingPublisher) PublishEchoEvent(_ context.Context, ev queue.EchoEvent) error {
	p.events <- ev
	return p.err
}

func newTestServer(t *testing.T, events queue.Publisher) (*echo.Echo, *metrics.Metrics) {
	t.Helper()
	m := metrics.New("test", prometheus.NewRegistry())
	svc := service.NewEchoServiceWithClock(func() time.Time {
		return time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local)
	})
	h := NewEchoHandler(svc, m, events)

	e := echo.New()
	e.GET("/echo/:message", h.GetEcho, h.Track(OpEcho))
	e.POST("/echo", h.PostEcho, h.Track(OpEchoRequest))
	e.PUT("/echo/:message", h.PutEcho, h.Track(OpEchoDetails))
	e.DELETE("/echo/:message", h.DeleteEcho, h.Track(OpEchoMethod))
	e.GET("/timestamp", h.Timestamp)
	return e, m
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestEchoEndpoints(t *testing.T) {
	e, _ := newTestServer(t, nil)
	tests := []struct {
		name   string
		method string
		target string
		body   string
		status int
		want   string
	}{
		{"get", http.MethodGet, "/echo/hello", "", 200, "Echo: hello"},
		{"get escaped space", http.MethodGet, "/echo/hello%20world", "", 200, "Echo: hello world"},
		{"get escaped slash", http.MethodGet, "/echo/a%2Fb", "", 200, "Echo: a/b"},
		{"post", http.MethodPost, "/echo", `{"message":"hi","uppercase":true}`, 200, "Echo [POST]: HI"},
		{"post plain", http.MethodPost, "/echo", `{"message":"Hi"}`, 200, "Echo [POST]: Hi"},
		{"post empty object", http.MethodPost, "/echo", `{}`, 400, "Message is required"},
		{"post null message", http.MethodPost, "/echo", `{"message":null,"uppercase":true}`, 400, "Message is required"},
		{"post empty message", http.MethodPost, "/echo", `{"message":""}`, 400, "Message is required"},
		{"post no body", http.MethodPost, "/echo", "", 400, "Message is required"},
		{"post malformed", http.MethodPost, "/echo", `{"message":`, 400, "Invalid request body"},
		{"put", http.MethodPut, "/echo/x?count=3", "", 200, "Echo 1: x\nEcho 2: x\nEcho 3: x"},
		{"put max", http.MethodPut, "/echo/x?count=10", "", 200, ""},
		{"put too many", http.MethodPut, "/echo/x?count=11", "", 400, "Count must be between 1 and 10"},
		{"put zero", http.MethodPut, "/echo/x?count=0", "", 400, "Count must be between 1 and 10"},
		{"put missing count", http.MethodPut, "/echo/x", "", 400, "Count must be between 1 and 10"},
		{"put non numeric", http.MethodPut, "/echo/x?count=abc", "", 400, "Count must be between 1 and 10"},
		{"delete", http.MethodDelete, "/echo/bye", "", 200, "Echo [DELETE]: bye"},
		{"timestamp", http.MethodGet, "/timestamp", "", 200, "The current timestamp is: 2025-01-02 03:04:05"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.status, rec.Code)
			if tt.want != "" {
				assert.Equal(t, tt.want, rec.Body.String())
			}
			assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMETextPlain))
		})
	}
}

func TestPutMaxCountLines(t *testing.T) {
	e, _ := newTestServer(t, nil)
	rec := do(e, http.MethodPut, "/echo/x?count=10", "")
	lines := strings.Split(rec.Body.String(), "\n")
	assert.Equal(t, 10, len(lines))
	assert.Equal(t, "Echo 10: x", lines[9])
}

func TestMetricsRecorded(t *testing.T) {
	e, m := newTestServer(t, nil)
	do(e, http.MethodGet, "/echo/a", "")
	do(e, http.MethodPut, "/echo/a?count=99", "")
	do(e, http.MethodPost, "/echo", `{}`)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.EchoOperations.WithLabelValues(OpEcho)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationFailures.WithLabelValues("count_out_of_range")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationFailures.WithLabelValues("message_required")))
}

func TestEventsPublished(t *testing.T) {
	pub := &recordingPublisher{events: make(chan queue.EchoEvent, 4)}
	e, m := newTestServer(t, pub)

	req := httptest.NewRequest(http.MethodDelete, "/echo/bye", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	select {
	case ev := <-pub.events:
		assert.Equal(t, OpEchoMethod, ev.Operation)
		assert.Equal(t, http.MethodDelete, ev.Method)
		assert.Equal(t, "bye", ev.Message)
		assert.Equal(t, "Echo [DELETE]: bye", ev.Result)
		assert.Equal(t, "req-1", ev.RequestID)
		assert.NotEqual(t, "", ev.OccurredAt)
	case <-time.After(2 * time.Second):
		t.Fatal("event not published")
	}

	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodPut, "/echo/x?count=0", "").Code)
	select {
	case ev := <-pub.events:
		t.Fatalf("unexpected event for rejected request: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}

	// Wait for the goroutine of the first publish to record its outcome.
	deadline := time.Now().Add(2 * time.Second)
	for testutil.ToFloat64(m.EventsPublished.WithLabelValues("ok")) != 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsPublished.WithLabelValues("ok")))
}

func TestPublishFailureDoesNotAffectResponse(t *testing.T) {
	pub := &recordingPublisher{events: make(chan queue.EchoEvent, 1), err: errors.New("broker down")}
	e, _ := newTestServer(t, pub)

	rec := do(e, http.MethodGet, "/echo/hello", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Echo: hello", rec.Body.String())
	<-pub.events
}
