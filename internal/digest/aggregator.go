package digest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/zerobugdebug/awesome-slack-summarizer/internal/directory"
	"github.com/zerobugdebug/awesome-slack-summarizer/internal/harvest"
	"github.com/zerobugdebug/awesome-slack-summarizer/internal/summarize"
	"github.com/zerobugdebug/awesome-slack-summarizer/internal/transcript"
)

// Aggregator summarizes each channel of a Directory in order.
type Aggregator struct {
	Directory  *directory.Directory
	Paginator  *harvest.Paginator
	Summarizer summarize.Summarizer
	Language   string
	// Budget is the token budget per batch.
	Budget int
}

// Digest reads every channel within w and returns the digest text.
//
// Channels whose history cannot be read, or that hold nothing worth
// summarizing, are left out. A failed join and a failed summary abort the run.
func (a *Aggregator) Digest(ctx context.Context, w harvest.Window) (string, error) {
	f := NewFormatter(w.Start)

	for _, channel := range a.Directory.Channels() {
		logger := log.With().
			Str("channelID", channel.ID).
			Str("channel", channel.Name).
			Logger()
		logger.Info().Msg("Processing channel")

		messages, err := a.Paginator.FetchAll(ctx, channel.ID, w)
		if err != nil {
			if errors.Is(err, harvest.ErrJoinFailed) || ctx.Err() != nil {
				return "", err
			}
			logger.Error().Err(err).Msg("Failed to fetch channel history, skipping")
			continue
		}

		lines := transcript.Normalize(messages, a.Directory)
		if len(lines) == 0 {
			logger.Debug().Int("messages", len(messages)).Msg("No messages to summarize")
			continue
		}

		batches := transcript.Batch(lines, a.Budget)
		logger.Debug().
			Int("lines", len(lines)).
			Int("batches", len(batches)).
			Msg("Transcript batched")

		f.AddChannel(channel.ID)
		for i, batch := range batches {
			summary, err := a.Summarizer.Summarize(ctx, strings.Join(batch, "\n"), a.Language)
			if err != nil {
				logger.Error().Err(err).Int("batch", i).Msg("Failed to summarize batch")
				return "", fmt.Errorf("summarize channel %s: %w", channel.ID, err)
			}
			f.AddSummary(summary)
		}
	}

	if f.Empty() {
		log.Info().Msg("No channel had messages in the window")
	}
	return f.String(), nil
}
