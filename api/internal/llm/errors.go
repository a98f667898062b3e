package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Error kinds. Each upstream failure is wrapped in *Error carrying one of these.
var (
	ErrTimeout         = errors.New("llm: upstream timeout")
	ErrRateLimited     = errors.New("llm: upstream rate limited")
	ErrUpstream        = errors.New("llm: upstream error")
	ErrEmptyResponse   = errors.New("llm: empty response")
	ErrMalformedOutput = errors.New("llm: model output is not JSON")
	ErrInvalidScene    = errors.New("llm: model output is not a valid scene")
	ErrUnknownEngine   = errors.New("llm: unknown engine")
)

const (
	KindTimeout         = "timeout"
	KindRateLimited     = "rate_limited"
	KindUpstream        = "upstream"
	KindEmptyResponse   = "empty_response"
	KindMalformedOutput = "malformed_output"
	KindInvalidScene    = "invalid_scene"
	KindUnknownEngine   = "unknown_engine"
	KindInternal        = "internal"
)

// Error ties a failure to the engine that produced it.
type Error struct {
	Kind   error
	Engine string
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Engine, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Engine, e.Kind, e.Err)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func Wrap(kind error, engine string, err error) error {
	return &Error{Kind: kind, Engine: engine, Err: err}
}

// FromStatus classifies a transport error or an HTTP status returned by a provider.
// status is 0 when no response was received.
func FromStatus(engine string, status int, err error) error {
	switch {
	case isTimeout(err), status == http.StatusRequestTimeout, status == http.StatusGatewayTimeout:
		return Wrap(ErrTimeout, engine, err)
	case status == http.StatusTooManyRequests:
		return Wrap(ErrRateLimited, engine, err)
	default:
		return Wrap(ErrUpstream, engine, err)
	}
}

func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// Kind returns the short classification used in logs, the journal and X-Error-Kind.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return KindTimeout
	case errors.Is(err, ErrRateLimited):
		return KindRateLimited
	case errors.Is(err, ErrEmptyResponse):
		return KindEmptyResponse
	case errors.Is(err, ErrMalformedOutput):
		return KindMalformedOutput
	case errors.Is(err, ErrInvalidScene):
		return KindInvalidScene
	case errors.Is(err, ErrUnknownEngine):
		return KindUnknownEngine
	case errors.Is(err, ErrUpstream):
		return KindUpstream
	case isTimeout(err):
		return KindTimeout
	default:
		return KindInternal
	}
}
