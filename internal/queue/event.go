// Package queue defines message payloads exchanged over the message broker.
package queue

import "time"

// DefaultQueueName is the queue echo events are published to when no other
// name is configured.
const DefaultQueueName = "echo.processed"

// EchoEvent is published after an echo request has been served.  It carries
// enough information for downstream consumers to log or audit the request
// without calling back into the API.
type EchoEvent struct {
	Operation  string `json:"operation"`
	Method     string `json:"method"`
	Message    string `json:"message"`
	Result     string `json:"result"`
	RequestID  string `json:"request_id"`
	RemoteIP   string `json:"remote_ip"`
	OccurredAt string `json:"occurred_at"`
}

// NewEchoEvent stamps an event with the current UTC time.
func NewEchoEvent(operation, method, message, result string) EchoEvent {
	return EchoEvent{
		Operation:  operation,
		Method:     method,
		Message:    message,
		Result:     result,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	}
}
