package fetch

import (
	"errors"
	"fmt"
)

// Fetch failure taxonomy. Callers skip the URL for the run on any of these;
// none is ever fatal to a crawl.
var (
	// ErrTimeout marks a fetch that exceeded its deadline.
	ErrTimeout = errors.New("fetch timeout")
	// ErrNetwork marks transport-level failures (DNS, refused, reset).
	ErrNetwork = errors.New("network error")
)

// StatusError reports a non-success HTTP status after retries.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http status %d", e.Code)
}

// IsRetryable reports whether another attempt could plausibly succeed.
// 4xx responses are permanent for the run; timeouts, transport failures,
// and 5xx/429 responses are worth a retry.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code == 429 || statusErr.Code >= 500
	}
	return true
}
