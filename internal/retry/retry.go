// Package retry re-runs operations that fail with a retryable error.
package retry

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zerobugdebug/awesome-slack-summarizer/internal/throttle"
)

// Policy retries an operation up to Attempts times in total, sleeping Delay
// between attempts, as long as Retryable accepts the error.
type Policy struct {
	Attempts  int
	Delay     time.Duration
	Retryable func(error) bool
	// Sleep defaults to throttle.Sleep.
	Sleep throttle.SleepFunc
}

// Do runs op under the policy. Errors that are not retryable are returned at
// once; after the last attempt the last error is returned unchanged.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = throttle.Sleep
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = op(ctx)
		if err == nil {
			return nil
		}
		if p.Retryable == nil || !p.Retryable(err) || attempt == attempts {
			return err
		}

		log.Warn().
			Err(err).
			Int("attempt", attempt).
			Int("maxAttempts", attempts).
			Dur("delay", p.Delay).
			Msg("Retrying API call")

		if sleepErr := sleep(ctx, p.Delay); sleepErr != nil {
			return err
		}
	}
	return err
}
