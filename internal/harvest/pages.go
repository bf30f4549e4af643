// Package harvest reads paginated Slack listings under a throttle and a retry
// policy.
package harvest

import (
	"context"
	"iter"

	"github.com/zerobugdebug/awesome-slack-summarizer/internal/retry"
	"github.com/zerobugdebug/awesome-slack-summarizer/internal/slackapi"
	"github.com/zerobugdebug/awesome-slack-summarizer/internal/throttle"
)

// Gate is the call discipline shared by every Slack request: wait for the
// throttle, then run the call under the retry policy.
type Gate struct {
	Throttle *throttle.Throttle
	Retry    retry.Policy
}

// Do runs op through the gate.
func (g Gate) Do(ctx context.Context, op func(ctx context.Context) error) error {
	if err := g.Throttle.Wait(ctx); err != nil {
		return err
	}
	return g.Retry.Do(ctx, op)
}

// Pages yields each page of pager, fetched through g. Iteration stops after the
// last page or after the first error, which is yielded with a nil page.
func Pages[T any](ctx context.Context, g Gate, pager slackapi.Pager[T]) iter.Seq2[[]T, error] {
	return func(yield func([]T, error) bool) {
		for {
			var (
				items []T
				done  bool
			)
			err := g.Do(ctx, func(ctx context.Context) error {
				var err error
				items, done, err = pager.Next(ctx)
				return err
			})
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(items, nil) || done {
				return
			}
		}
	}
}

// Collect accumulates every remaining page of pager.
func Collect[T any](ctx context.Context, g Gate, pager slackapi.Pager[T]) ([]T, error) {
	var all []T
	for items, err := range Pages(ctx, g, pager) {
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
	}
	return all, nil
}
