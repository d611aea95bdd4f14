package generator

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultMaxAttempts = 4
	baseBackoff        = 500 * time.Millisecond
	maxBackoff         = 8 * time.Second
)

// withRetry runs fn, resubmitting retryable failures with exponential
// backoff plus jitter. Each wait is a full sleep honoring ctx
// cancellation. Non-retryable errors and the final attempt's error are
// returned as-is.
func withRetry(ctx context.Context, log zerolog.Logger, op string, maxAttempts int, fn func() error) error {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	delay := baseBackoff
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		if !Retryable(err) || attempt >= maxAttempts {
			return err
		}

		// Full jitter: sleep a random duration in (0, delay].
		wait := time.Duration(rand.Int63n(int64(delay))) + time.Millisecond
		log.Warn().
			Err(err).
			Str("op", op).
			Int("attempt", attempt).
			Dur("backoff", wait).
			Msg("Retryable generation failure, backing off")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}

		delay *= 2
		if delay > maxBackoff {
			delay = maxBackoff
		}
	}
}
