package digest

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zerobugdebug/awesome-slack-summarizer/internal/config"
	"github.com/zerobugdebug/awesome-slack-summarizer/internal/directory"
	"github.com/zerobugdebug/awesome-slack-summarizer/internal/harvest"
	"github.com/zerobugdebug/awesome-slack-summarizer/internal/retry"
	"github.com/zerobugdebug/awesome-slack-summarizer/internal/slackapi"
	"github.com/zerobugdebug/awesome-slack-summarizer/internal/summarize"
	"github.com/zerobugdebug/awesome-slack-summarizer/internal/throttle"
)

// Runner performs one summarization run.
type Runner struct {
	Config     *config.Config
	API        slackapi.API
	Summarizer summarize.Summarizer

	// Out receives the digest in debug mode. Defaults to os.Stdout.
	Out io.Writer
	// Sleep replaces every deliberate delay. Defaults to throttle.Sleep.
	Sleep throttle.SleepFunc
	// Now defaults to time.Now.
	Now func() time.Time
}

// Run loads the directory, summarizes every channel and posts the digest, or
// prints it when debug is on.
func (r *Runner) Run(ctx context.Context) error {
	cfg := r.Config
	sleep := r.Sleep
	if sleep == nil {
		sleep = throttle.Sleep
	}
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}

	gate := harvest.Gate{
		Throttle: throttle.New(cfg.ThrottleInterval, throttle.WithSleep(sleep)),
		Retry: retry.Policy{
			Attempts:  cfg.RetryAttempts,
			Delay:     cfg.RetryDelay,
			Retryable: slackapi.IsTransient,
			Sleep:     sleep,
		},
	}

	window := harvest.NewWindow(now(), cfg.WindowHours, cfg.Location)
	log.Info().
		Time("start", window.Start).
		Time("end", window.End).
		Dur("throttle", gate.Throttle.Interval()).
		Msg("Reading history window")

	dir, err := directory.Load(ctx, r.API, gate)
	if err != nil {
		return err
	}

	agg := &Aggregator{
		Directory: dir,
		Paginator: &harvest.Paginator{
			API:         r.API,
			Gate:        gate,
			SettleDelay: cfg.JoinSettleDelay,
			Sleep:       sleep,
		},
		Summarizer: r.Summarizer,
		Language:   cfg.Language,
		Budget:     cfg.MaxBodyTokens,
	}
	text, err := agg.Digest(ctx, window)
	if err != nil {
		return err
	}

	if cfg.Debug {
		out := r.Out
		if out == nil {
			out = os.Stdout
		}
		log.Info().Msg("Debug mode, printing digest instead of posting")
		_, err := fmt.Fprintln(out, text)
		return err
	}

	err = gate.Do(ctx, func(ctx context.Context) error {
		return r.API.PostMessage(ctx, cfg.PostChannelID, text)
	})
	if err != nil {
		log.Error().Err(err).Str("channelID", cfg.PostChannelID).Msg("Failed to post digest")
		return fmt.Errorf("failed to post digest: %w", err)
	}
	log.Info().
		Str("channelID", cfg.PostChannelID).
		Int("length", len(text)).
		Msg("Digest posted")
	return nil
}
