package slackapi

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "nil", err: nil, want: KindOther},
		{name: "not in channel", err: slack.SlackErrorResponse{Err: "not_in_channel"}, want: KindNotInChannel},
		{name: "wrapped not in channel", err: fmt.Errorf("history of C1: %w", slack.SlackErrorResponse{Err: "not_in_channel"}), want: KindNotInChannel},
		{name: "fake not in channel", err: &Error{Code: "not_in_channel"}, want: KindNotInChannel},
		{name: "rate limited", err: &slack.RateLimitedError{RetryAfter: time.Second}, want: KindTransient},
		{name: "ratelimited code", err: slack.SlackErrorResponse{Err: "ratelimited"}, want: KindTransient},
		{name: "server error", err: slack.StatusCodeError{Code: 503, Status: "503 Service Unavailable"}, want: KindTransient},
		{name: "client error", err: slack.StatusCodeError{Code: 404, Status: "404 Not Found"}, want: KindOther},
		{name: "network timeout", err: fmt.Errorf("post: %w", timeoutErr{}), want: KindTransient},
		{name: "channel not found", err: slack.SlackErrorResponse{Err: "channel_not_found"}, want: KindOther},
		{name: "context canceled", err: context.Canceled, want: KindOther},
		{name: "plain", err: errors.New("boom"), want: KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestKindPredicates(t *testing.T) {
	assert.True(t, IsTransient(&slack.RateLimitedError{}))
	assert.False(t, IsTransient(&Error{Code: "not_in_channel"}))
	assert.True(t, IsNotInChannel(&Error{Code: "not_in_channel"}))
	assert.Equal(t, "not_in_channel", KindNotInChannel.String())
}

func TestDisplayNameFallback(t *testing.T) {
	user := slack.User{ID: "U1", Name: "alice.smith", RealName: "Alice Smith"}
	assert.Equal(t, "Alice Smith", displayName(user))

	user.Profile.DisplayName = "alice"
	assert.Equal(t, "alice", displayName(user))

	assert.Equal(t, "", displayName(slack.User{ID: "U2"}))
}

func TestSlackTimestamp(t *testing.T) {
	ts := time.Unix(1700000000, 123456789)
	assert.Equal(t, "1700000000.123456", slackTimestamp(ts))
}
