package generator

import "errors"

// Sentinel error kinds for generation failures. Callers match with
// errors.Is; the concrete provider error stays wrapped underneath.
var (
	// ErrGeneration: the provider answered but the output was empty or
	// could not be parsed into the requested shape. Not retried.
	ErrGeneration = errors.New("generator: empty or malformed provider output")

	// ErrRateLimit: quota exhausted (HTTP 429). Retried with backoff up to
	// the attempt ceiling, then surfaced.
	ErrRateLimit = errors.New("generator: provider rate limit exceeded")

	// ErrPermission: missing or rejected credential (HTTP 403). Never
	// retried; surfaced immediately so the caller can prompt for
	// re-authentication.
	ErrPermission = errors.New("generator: provider rejected credentials")

	// ErrTransient: 5xx or RPC-layer failure. Retried like rate limits.
	ErrTransient = errors.New("generator: transient provider failure")
)

// Retryable reports whether err is worth resubmitting after backoff.
func Retryable(err error) bool {
	return errors.Is(err, ErrRateLimit) || errors.Is(err, ErrTransient)
}
