package harvest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zerobugdebug/awesome-slack-summarizer/internal/slackapi"
	"github.com/zerobugdebug/awesome-slack-summarizer/internal/throttle"
)

// ErrJoinFailed is returned when the bot could not join a channel it was told
// it is not a member of. Callers treat it as fatal for the run.
var ErrJoinFailed = errors.New("join channel failed")

// DefaultSettleDelay is how long to wait after joining before reading again.
const DefaultSettleDelay = 5 * time.Second

// Paginator reads a channel's history in full.
type Paginator struct {
	API         slackapi.API
	Gate        Gate
	SettleDelay time.Duration
	// Sleep defaults to throttle.Sleep.
	Sleep throttle.SleepFunc
}

// FetchAll returns every message of channelID within w, newest first, as the
// API delivers them.
//
// If the first page fails with not_in_channel the channel is joined and the
// page requested once more. Join failures wrap ErrJoinFailed; any other error
// is returned as is and only concerns this channel.
func (p *Paginator) FetchAll(ctx context.Context, channelID string, w Window) ([]slackapi.Message, error) {
	pager := p.API.History(channelID, w.Start, w.End)

	first, done, err := p.next(ctx, pager)
	if err != nil && slackapi.IsNotInChannel(err) {
		log.Info().
			Str("channelID", channelID).
			Msg("Not a member of channel, joining")

		if err := p.join(ctx, channelID); err != nil {
			return nil, err
		}
		first, done, err = p.next(ctx, pager)
	}
	if err != nil {
		return nil, err
	}
	if done {
		return first, nil
	}

	rest, err := Collect(ctx, p.Gate, pager)
	if err != nil {
		return nil, err
	}
	return append(first, rest...), nil
}

func (p *Paginator) next(ctx context.Context, pager slackapi.Pager[slackapi.Message]) ([]slackapi.Message, bool, error) {
	var (
		items []slackapi.Message
		done  bool
	)
	err := p.Gate.Do(ctx, func(ctx context.Context) error {
		var err error
		items, done, err = pager.Next(ctx)
		return err
	})
	return items, done, err
}

func (p *Paginator) join(ctx context.Context, channelID string) error {
	err := p.Gate.Do(ctx, func(ctx context.Context) error {
		return p.API.JoinChannel(ctx, channelID)
	})
	if err != nil {
		log.Error().
			Err(err).
			Str("channelID", channelID).
			Msg("Failed to join channel")
		return fmt.Errorf("%w: %s: %w", ErrJoinFailed, channelID, err)
	}

	sleep := p.Sleep
	if sleep == nil {
		sleep = throttle.Sleep
	}
	log.Debug().
		Str("channelID", channelID).
		Dur("settle", p.SettleDelay).
		Msg("Joined channel, waiting before reading history")
	return sleep(ctx, p.SettleDelay)
}
