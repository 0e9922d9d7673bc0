package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// RequestFailedError is the single failure type of the gateway. Its message
// is the backend's detail when one was sent, else the transport error.
type RequestFailedError struct {
	Op     string // "generate" or "write"
	Status int    // HTTP status, zero when no response arrived
	Detail string // Human-readable message from the backend
	Cause  error  // Underlying transport or decoding error
}

func (e *RequestFailedError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s failed with status %d", e.Op, e.Status)
	}
	return e.Op + " failed"
}

func (e *RequestFailedError) Unwrap() error {
	return e.Cause
}

// extractDetail pulls a human-readable message out of an error body.
// FastAPI-style validation errors carry a list under "detail"; the first
// entry's "msg" is used then.
func extractDetail(raw []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}

	if len(body.Detail) > 0 {
		var s string
		if err := json.Unmarshal(body.Detail, &s); err == nil {
			return strings.TrimSpace(s)
		}
		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(body.Detail, &items); err == nil && len(items) > 0 {
			return strings.TrimSpace(items[0].Msg)
		}
	}
	return strings.TrimSpace(body.Error)
}

type requestIDKey struct{}

// WithRequestID attaches a request id that is sent with the next exchange
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the id set by WithRequestID
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
