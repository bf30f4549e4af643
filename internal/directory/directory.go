// Package directory holds the per-run user and channel snapshot.
package directory

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/zerobugdebug/awesome-slack-summarizer/internal/harvest"
	"github.com/zerobugdebug/awesome-slack-summarizer/internal/slackapi"
)

// Directory maps user ids to display names and lists the channels a run walks.
// It is not modified after Load.
type Directory struct {
	users    map[string]string
	channels []slackapi.Channel
}

// Load fetches every user and every public channel through g.
func Load(ctx context.Context, api slackapi.API, g harvest.Gate) (*Directory, error) {
	log.Debug().Msg("Fetching all users")
	users, err := harvest.Collect(ctx, g, api.Users())
	if err != nil {
		log.Error().Err(err).Msg("Failed to get users")
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	log.Info().Int("user_count", len(users)).Msg("Users fetched")

	log.Debug().Msg("Fetching public channels")
	channels, err := harvest.Collect(ctx, g, api.Channels())
	if err != nil {
		log.Error().Err(err).Msg("Failed to get channels")
		return nil, fmt.Errorf("failed to get channels: %w", err)
	}

	d := New(users, channels)
	log.Info().Int("channel_count", len(d.channels)).Msg("Channels loaded")
	return d, nil
}

// New builds a Directory from already fetched users and channels. Archived
// and non-channel conversations are dropped and the rest ordered with
// SortChannels.
func New(users []slackapi.User, channels []slackapi.Channel) *Directory {
	d := &Directory{
		users: make(map[string]string, len(users)),
	}
	for _, user := range users {
		d.users[user.ID] = user.DisplayName
		log.Trace().Str("userID", user.ID).Str("name", user.DisplayName).Msg("Added user")
	}

	for _, channel := range channels {
		if channel.IsArchived || !channel.IsChannel {
			continue
		}
		d.channels = append(d.channels, channel)
	}
	SortChannels(d.channels)
	return d
}

// ResolveUser returns the display name of id. ok is false for unknown ids and
// users without any name.
func (d *Directory) ResolveUser(id string) (name string, ok bool) {
	name, ok = d.users[id]
	if name == "" {
		return "", false
	}
	return name, ok
}

// Channels returns the ordered channel list. Callers must not modify it.
func (d *Directory) Channels() []slackapi.Channel {
	return d.channels
}
