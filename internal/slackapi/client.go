package slackapi

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"
)

const (
	channelPageLimit = 1000
	userPageLimit    = 100
	historyPageLimit = 1000
)

// slackLogAdapter adapts zerolog to slack-go's log interface
type slackLogAdapter struct {
	logger zerolog.Logger
}

func (a *slackLogAdapter) Output(calldepth int, s string) error {
	a.logger.Debug().Msg(s)
	return nil
}

// Client implements API on top of slack-go.
type Client struct {
	client *slack.Client
}

// New creates a client and verifies the token with auth.test.
func New(ctx context.Context, token string) (*Client, error) {
	slackLogger := &slackLogAdapter{
		logger: log.With().Str("component", "slack-api").Logger(),
	}

	client := slack.New(
		token,
		slack.OptionLog(slackLogger),
	)

	log.Debug().Msg("Testing authentication with Slack")
	authTest, err := client.AuthTestContext(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Authentication test failed")
		return nil, fmt.Errorf("auth test failed: %w", err)
	}

	log.Info().
		Str("user", authTest.User).
		Str("userID", authTest.UserID).
		Str("team", authTest.Team).
		Msg("Connected to Slack")

	return &Client{client: client}, nil
}

// Channels implements API.
func (c *Client) Channels() Pager[Channel] {
	return &channelPager{client: c.client}
}

// Users implements API.
func (c *Client) Users() Pager[User] {
	return &userPager{
		pages: c.client.GetUsersPaginated(slack.GetUsersOptionLimit(userPageLimit)),
	}
}

// History implements API.
func (c *Client) History(channelID string, oldest, latest time.Time) Pager[Message] {
	return &historyPager{
		client:    c.client,
		channelID: channelID,
		oldest:    slackTimestamp(oldest),
		latest:    slackTimestamp(latest),
	}
}

// JoinChannel implements API.
func (c *Client) JoinChannel(ctx context.Context, channelID string) error {
	if _, _, _, err := c.client.JoinConversationContext(ctx, channelID); err != nil {
		return fmt.Errorf("join %s: %w", channelID, err)
	}
	return nil
}

// PostMessage implements API.
func (c *Client) PostMessage(ctx context.Context, channelID, text string) error {
	_, ts, err := c.client.PostMessageContext(ctx, channelID, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("post to %s: %w", channelID, err)
	}
	log.Debug().Str("channelID", channelID).Str("timestamp", ts).Msg("Message posted")
	return nil
}

type channelPager struct {
	client *slack.Client
	cursor string
}

func (p *channelPager) Next(ctx context.Context) ([]Channel, bool, error) {
	channels, nextCursor, err := p.client.GetConversationsContext(ctx, &slack.GetConversationsParameters{
		Types:           []string{"public_channel"},
		ExcludeArchived: true,
		Limit:           channelPageLimit,
		Cursor:          p.cursor,
	})
	if err != nil {
		return nil, false, fmt.Errorf("list channels: %w", err)
	}
	p.cursor = nextCursor

	out := make([]Channel, 0, len(channels))
	for _, channel := range channels {
		out = append(out, Channel{
			ID:         channel.ID,
			Name:       channel.Name,
			IsArchived: channel.IsArchived,
			IsChannel:  channel.IsChannel,
		})
	}
	return out, nextCursor == "", nil
}

// userPager drives slack-go's own pagination. A failed Next keeps the previous
// UserPagination value, which still holds the old cursor.
type userPager struct {
	pages slack.UserPagination
}

func (p *userPager) Next(ctx context.Context) ([]User, bool, error) {
	next, err := p.pages.Next(ctx)
	if next.Done(err) {
		return nil, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("list users: %w", err)
	}
	p.pages = next

	out := make([]User, 0, len(next.Users))
	for _, user := range next.Users {
		out = append(out, User{ID: user.ID, DisplayName: displayName(user)})
	}
	return out, false, nil
}

type historyPager struct {
	client    *slack.Client
	channelID string
	oldest    string
	latest    string
	cursor    string
}

func (p *historyPager) Next(ctx context.Context) ([]Message, bool, error) {
	history, err := p.client.GetConversationHistoryContext(ctx, &slack.GetConversationHistoryParameters{
		ChannelID: p.channelID,
		Cursor:    p.cursor,
		Oldest:    p.oldest,
		Latest:    p.latest,
		Limit:     historyPageLimit,
	})
	if err != nil {
		return nil, false, fmt.Errorf("history of %s: %w", p.channelID, err)
	}

	out := make([]Message, 0, len(history.Messages))
	for _, msg := range history.Messages {
		out = append(out, Message{
			Text:      msg.Text,
			User:      msg.User,
			BotID:     msg.BotID,
			SubType:   msg.SubType,
			Timestamp: msg.Timestamp,
		})
	}

	p.cursor = history.ResponseMetaData.NextCursor
	done := !history.HasMore || p.cursor == ""
	return out, done, nil
}

// displayName prefers the profile display name, then the real name, then the
// account name.
func displayName(user slack.User) string {
	for _, name := range []string{user.Profile.DisplayName, user.RealName, user.Name} {
		if name = strings.TrimSpace(name); name != "" {
			return name
		}
	}
	return ""
}

func slackTimestamp(t time.Time) string {
	return fmt.Sprintf("%d.%06d", t.Unix(), t.Nanosecond()/1000)
}
