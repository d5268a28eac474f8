package upstream

import (
	"errors"
	"fmt"
)

// Error describes a non-success response or transport failure from one of the
// external engines (STT, translation, TTS). Status is zero for transport-level
// failures such as timeouts.
type Error struct {
	Service string
	Status  int
	Detail  string
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s upstream error (status %d): %s", e.Service, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s upstream error: %s", e.Service, e.Detail)
}

// Wrap classifies a transport failure (dial error, timeout, body read) as an
// upstream error for the named engine.
func Wrap(service string, err error) *Error {
	return &Error{Service: service, Detail: err.Error()}
}

// IsRetryableStatus classifies HTTP status codes a caller could usefully
// resend against.
func IsRetryableStatus(code int) bool {
	switch code {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

// Retryable reports whether err is an upstream failure worth resending. The
// relay performs no retries itself; this only informs telemetry and callers.
func Retryable(err error) bool {
	var ue *Error
	if !errors.As(err, &ue) {
		return false
	}
	return ue.Status == 0 || IsRetryableStatus(ue.Status)
}
