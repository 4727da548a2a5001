package gemini

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies an enrichment failure for retry decisions and logs.
type ErrorKind string

const (
	KindTimeout     ErrorKind = "timeout"
	KindRateLimited ErrorKind = "rate_limited"
	KindServer      ErrorKind = "server"
	KindBadRequest  ErrorKind = "bad_request"
	KindParse       ErrorKind = "parse"
	KindNoKey       ErrorKind = "no_key"
)

// EnrichError wraps an enrichment failure with its classification.
type EnrichError struct {
	Kind   ErrorKind
	Status int
	Err    error
}

func (e *EnrichError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("enrich %s (status %d): %v", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("enrich %s: %v", e.Kind, e.Err)
}

func (e *EnrichError) Unwrap() error { return e.Err }

// Retryable reports whether retrying could help. Timeouts, rate limits and
// transient server errors are retryable; malformed requests and unparseable
// responses are not.
func (e *EnrichError) Retryable() bool {
	switch e.Kind {
	case KindTimeout, KindRateLimited, KindServer:
		return true
	}
	return false
}

func classifyStatus(status int) *EnrichError {
	switch {
	case status == http.StatusTooManyRequests:
		return &EnrichError{Kind: KindRateLimited, Status: status, Err: errors.New("rate limited")}
	case status == http.StatusInternalServerError,
		status == http.StatusServiceUnavailable,
		status == http.StatusGatewayTimeout:
		return &EnrichError{Kind: KindServer, Status: status, Err: errors.New("server error")}
	default:
		return &EnrichError{Kind: KindBadRequest, Status: status, Err: errors.New("request rejected")}
	}
}

// IsRetryable reports whether err is a retryable EnrichError.
func IsRetryable(err error) bool {
	var ee *EnrichError
	return errors.As(err, &ee) && ee.Retryable()
}
