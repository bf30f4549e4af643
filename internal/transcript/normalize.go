// Package transcript turns raw channel history into "Speaker: Body" lines and
// groups them into token-bounded batches.
package transcript

import (
	"regexp"
	"slices"
	"strings"

	"github.com/forPelevin/gomoji"

	"github.com/zerobugdebug/awesome-slack-summarizer/internal/slackapi"
)

// UnknownSpeaker names authors that cannot be resolved.
const UnknownSpeaker = "somebody"

// ChannelPlaceholder replaces every channel reference in a message body.
const ChannelPlaceholder = " other channel "

var (
	mentionPattern     = regexp.MustCompile(`<@([A-Z0-9]+)(?:\|[^>]*)?>`)
	channelRefPattern  = regexp.MustCompile(`<#[A-Z0-9]+(?:\|[^>]*)?>`)
	customEmojiPattern = regexp.MustCompile(`:[-_a-zA-Z0-9]+?:`)
)

// UserResolver looks up display names by user id.
type UserResolver interface {
	ResolveUser(id string) (name string, ok bool)
}

// Normalize converts messages, as delivered newest first, into chronological
// "Speaker: Body" lines. System messages (any subtype), bot messages and blank
// messages are dropped. A nil result means the channel has nothing worth
// summarizing.
func Normalize(messages []slackapi.Message, users UserResolver) []string {
	human := make([]slackapi.Message, 0, len(messages))
	for _, msg := range messages {
		if msg.SubType != "" {
			continue
		}
		human = append(human, msg)
	}
	if len(human) == 0 {
		return nil
	}
	slices.Reverse(human)

	var lines []string
	for _, msg := range human {
		if msg.BotID != "" || strings.TrimSpace(msg.Text) == "" {
			continue
		}
		lines = append(lines, speaker(msg.User, users)+": "+normalizeBody(msg.Text, users))
	}
	return lines
}

func speaker(userID string, users UserResolver) string {
	if userID == "" {
		return UnknownSpeaker
	}
	if name, ok := users.ResolveUser(userID); ok {
		return name
	}
	return UnknownSpeaker
}

func normalizeBody(text string, users UserResolver) string {
	body := strings.ReplaceAll(text, "\n", `\n`)

	body = mentionPattern.ReplaceAllStringFunc(body, func(token string) string {
		id := mentionPattern.FindStringSubmatch(token)[1]
		if name, ok := users.ResolveUser(id); ok {
			return name
		}
		return id
	})

	body = channelRefPattern.ReplaceAllLiteralString(body, ChannelPlaceholder)
	return RemoveEmoji(body)
}

// RemoveEmoji strips pictographic emoji and Slack :shortcode: emoji.
func RemoveEmoji(text string) string {
	text = gomoji.RemoveEmojis(text)
	return customEmojiPattern.ReplaceAllLiteralString(text, "")
}
