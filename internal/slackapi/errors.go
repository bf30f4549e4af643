package slackapi

import (
	"errors"
	"net"

	"github.com/slack-go/slack"
)

// Kind tags an error returned by the messaging API.
type Kind int

const (
	KindOther Kind = iota
	// KindNotInChannel means the caller has to join the channel before reading it.
	KindNotInChannel
	// KindTransient covers rate limiting, 5xx responses and network timeouts.
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindNotInChannel:
		return "not_in_channel"
	case KindTransient:
		return "transient"
	default:
		return "other"
	}
}

const errNotInChannel = "not_in_channel"

// transientCodes are Slack API error codes that are worth retrying.
var transientCodes = map[string]bool{
	"ratelimited":         true,
	"rate_limited":        true,
	"internal_error":      true,
	"fatal_error":         true,
	"service_unavailable": true,
	"request_timeout":     true,
}

// Error is returned by fakes and adapters that want to report a Slack error
// code without a slack-go response.
type Error struct {
	Code string
}

func (e *Error) Error() string { return e.Code }

// KindOf classifies err.
func KindOf(err error) Kind {
	if err == nil {
		return KindOther
	}

	var rateLimited *slack.RateLimitedError
	if errors.As(err, &rateLimited) {
		return KindTransient
	}

	var statusErr slack.StatusCodeError
	if errors.As(err, &statusErr) {
		if statusErr.Code == 429 || statusErr.Code >= 500 {
			return KindTransient
		}
		return KindOther
	}

	if code, ok := errorCode(err); ok {
		if code == errNotInChannel {
			return KindNotInChannel
		}
		if transientCodes[code] {
			return KindTransient
		}
		return KindOther
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTransient
	}

	return KindOther
}

// IsTransient reports whether err should be retried.
func IsTransient(err error) bool {
	return KindOf(err) == KindTransient
}

// IsNotInChannel reports whether err asks the caller to join first.
func IsNotInChannel(err error) bool {
	return KindOf(err) == KindNotInChannel
}

func errorCode(err error) (string, bool) {
	var slackErr slack.SlackErrorResponse
	if errors.As(err, &slackErr) {
		return slackErr.Err, true
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	return "", false
}
