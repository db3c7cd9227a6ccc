// Package service holds the echo business logic.  Every operation is a pure
// string transformation; the only dependency is the clock used by Timestamp.
package service

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/iliyamo/echo-api/internal/model"
)

const (
	// MinCount and MaxCount bound the repeat count accepted by PUT /echo.
	MinCount = 1
	MaxCount = 10

	missingMessage  = "Echo request missing message"
	timestampLayout = "2006-01-02 15:04:05"
)

// ErrMessageRequired is returned when a POST body has no usable message.
// The text is sent verbatim as the 400 response body.
var ErrMessageRequired = errors.New("Message is required")

// ErrCountOutOfRange is returned when a repeat count falls outside
// [MinCount, MaxCount].  The text is sent verbatim as the 400 response body.
var ErrCountOutOfRange = errors.New("Count must be between 1 and 10")

// EchoService formats echo responses.  It holds no mutable state and is
// safe for concurrent use.
type EchoService struct {
	now func() time.Time
}

// NewEchoService returns a service that reads the wall clock.
func NewEchoService() *EchoService {
	return &EchoService{now: time.Now}
}

// NewEchoServiceWithClock returns a service whose Timestamp reads now.
func NewEchoServiceWithClock(now func() time.Time) *EchoService {
	if now == nil {
		now = time.Now
	}
	return &EchoService{now: now}
}

// Echo returns the message prefixed with "Echo: ".
func (s *EchoService) Echo(message string) string {
	return "Echo: " + message
}

// EchoWithMethod annotates the message with the HTTP method.
func (s *EchoService) EchoWithMethod(message, method string) string {
	return "Echo [" + method + "]: " + message
}

// EchoWithDetails repeats the message count times, one numbered line each.
// Callers are expected to bound count with ValidateCount; a count of zero
// or less yields an empty string.
func (s *EchoService) EchoWithDetails(message string, count int) string {
	if count <= 0 {
		return ""
	}
	lines := make([]string, 0, count)
	for i := 0; i < count; i++ {
		lines = append(lines, "Echo "+strconv.Itoa(i+1)+": "+message)
	}
	return strings.Join(lines, "\n")
}

// ProcessEchoRequest echoes a bound request body.  A missing message is not
// an error here: it produces a fixed sentinel string instead.
func (s *EchoService) ProcessEchoRequest(req model.EchoRequest, method string) string {
	if req.Message == nil {
		return missingMessage
	}
	message := *req.Message
	if req.Uppercase {
		message = strings.ToUpper(message)
	}
	return s.EchoWithMethod(message, method)
}

// Timestamp reports the current local time.
func (s *EchoService) Timestamp() string {
	return "The current timestamp is: " + s.now().Format(timestampLayout)
}

// ValidateCount checks a repeat count against [MinCount, MaxCount].
func ValidateCount(count int) error {
	if count < MinCount || count > MaxCount {
		return ErrCountOutOfRange
	}
	return nil
}

// ValidateRequest checks that a bound POST body carries a non-empty message.
func ValidateRequest(req model.EchoRequest) error {
	if !req.HasMessage() {
		return ErrMessageRequired
	}
	return nil
}
