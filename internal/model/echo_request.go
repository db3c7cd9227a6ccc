package model

// EchoRequest is the JSON body accepted by POST /echo.  Message is a pointer
// so that an absent or null "message" can be told apart from an empty string.
type EchoRequest struct {
	Message   *string `json:"message"`
	Uppercase bool    `json:"uppercase"`
}

// NewEchoRequest builds a request with a present message.
func NewEchoRequest(message string, uppercase bool) EchoRequest {
	return EchoRequest{Message: &message, Uppercase: uppercase}
}

// HasMessage reports whether the request carries a non-empty message.
func (r EchoRequest) HasMessage() bool {
	return r.Message != nil && *r.Message != ""
}
