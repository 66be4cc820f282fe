package syncx

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/avolkov/hearth/internal/logging"
)

// FetchRetried runs a remote read up to attempts times, waiting
// base * 2^(attempt-1) between tries. Exhaustion is logged and reported as
// ok=false; the error never reaches the caller. Writes are not retried
// anywhere, this policy exists for initial-load reads only.
func FetchRetried[T any](ctx context.Context, log logging.Logger, name string, attempts int, base time.Duration, fetch func(context.Context) (T, error)) (T, bool) {
	if attempts < 1 {
		attempts = 1
	}

	var out T
	backoff := retry.WithMaxRetries(uint64(attempts-1), retry.NewExponential(base))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		v, err := fetch(ctx)
		if err != nil {
			log.Debug(ctx, "remote read failed, retrying", "domain", name, "error", err)
			return retry.RetryableError(err)
		}
		out = v
		return nil
	})
	if err != nil {
		log.Error(ctx, "remote read failed after retries", "domain", name, "attempts", attempts, "error", err)
		var zero T
		return zero, false
	}

	return out, true
}
