package api

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Kind classifies a failed call: the server answered with an error body, the
// server never answered, the failure smells like a cross-origin policy
// problem, or the request could not even be constructed.
type Kind int

const (
	KindServer Kind = iota + 1
	KindConnectivity
	KindCORS
	KindUnexpected
)

// Fallback user-facing messages. The wording is part of the client's
// contract with its views and must not drift.
const (
	MsgConnectivity = "Unable to connect to the server. Please check your internet connection."
	MsgCORS         = "Unable to connect to the server. This may be due to a CORS issue."
	MsgUnexpected   = "An unexpected error occurred. Please try again."
	MsgFallback     = "An error occurred"
)

// Error is the normalized failure every call rejects with. Message always
// holds the most specific human-readable text extractable from the response.
type Error struct {
	Kind    Kind
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// IsConnectivity reports whether no response was received at all.
func (e *Error) IsConnectivity() bool {
	return e.Kind == KindConnectivity || e.Kind == KindCORS
}

func serverError(status int, body []byte) *Error {
	return &Error{Kind: KindServer, Status: status, Message: extractMessage(body)}
}

// envelope covers the error body shapes the backend is known to emit.
type envelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Title   string `json:"title"`
}

// extractMessage picks the most specific message out of an error response
// body. Order matters: a nested error field wins over message, which wins
// over an "ERROR: ..."-prefixed title (prefix stripped). A plain string body
// is used as-is. Anything else falls back to a generic message.
func extractMessage(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return MsgFallback
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err == nil {
		switch {
		case env.Error != "":
			return env.Error
		case env.Message != "":
			return env.Message
		case strings.HasPrefix(env.Title, "ERROR:"):
			return strings.TrimSpace(strings.TrimPrefix(env.Title, "ERROR:"))
		}
		return MsgFallback
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil && s != "" {
		return s
	}

	return MsgFallback
}

// transportError classifies a round-trip failure where no response arrived.
// A failure text mentioning cross-origin policy gets the CORS message; this
// mirrors the original client's best-effort sniffing and is advisory only.
func transportError(err error) *Error {
	text := strings.ToLower(err.Error())
	if strings.Contains(text, "cors") || strings.Contains(text, "cross-origin") {
		return &Error{Kind: KindCORS, Message: MsgCORS}
	}
	return &Error{Kind: KindConnectivity, Message: MsgConnectivity}
}
