// Package slackapi describes the messaging capabilities the summarizer consumes
// and adapts github.com/slack-go/slack to them.
package slackapi

import (
	"context"
	"time"
)

// Channel is a conversation as returned by the channel listing
type Channel struct {
	ID         string
	Name       string
	IsArchived bool
	IsChannel  bool
}

// User is the id -> display name snapshot taken once per run
type User struct {
	ID          string
	DisplayName string
}

// Message is a raw history record. Optional fields are empty when absent.
type Message struct {
	Text      string
	User      string
	BotID     string
	SubType   string
	Timestamp string
}

// Pager walks a cursor-paginated listing one page per call to Next.
//
// A Next call that returns an error must not advance the cursor, so the same
// pager can be retried. done is true once the listing has no further pages;
// items may be non-empty on the final page.
type Pager[T any] interface {
	Next(ctx context.Context) (items []T, done bool, err error)
}

// API is the set of messaging calls the pipeline relies on.
type API interface {
	// Channels lists public, non-archived channels.
	Channels() Pager[Channel]
	// Users lists every workspace member.
	Users() Pager[User]
	// History lists a channel's messages sent within [oldest, latest],
	// newest first.
	History(channelID string, oldest, latest time.Time) Pager[Message]
	JoinChannel(ctx context.Context, channelID string) error
	PostMessage(ctx context.Context, channelID, text string) error
}
