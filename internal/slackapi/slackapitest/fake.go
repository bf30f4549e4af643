// Package slackapitest provides a scripted, in-memory slackapi.API.
package slackapitest

import (
	"context"
	"time"

	"github.com/zerobugdebug/awesome-slack-summarizer/internal/slackapi"
)

// Post records one PostMessage call.
type Post struct {
	ChannelID string
	Text      string
}

// Fake serves canned pages. Errors queued in Errs under an operation key are
// returned, one per call, before the call succeeds. Keys are "channels",
// "users", "history:<id>", "join:<id>" and "post".
type Fake struct {
	ChannelPages [][]slackapi.Channel
	UserPages    [][]slackapi.User
	HistoryPages map[string][][]slackapi.Message

	// NotMember lists channels whose history reports not_in_channel until joined.
	NotMember map[string]bool
	// JoinIgnored lists channels that stay inaccessible after a successful join.
	JoinIgnored map[string]bool

	Errs map[string][]error

	Calls  []string
	Posts  []Post
	joined map[string]bool
}

// NewFake returns an empty fake ready to be filled in.
func NewFake() *Fake {
	return &Fake{
		HistoryPages: make(map[string][][]slackapi.Message),
		NotMember:    make(map[string]bool),
		JoinIgnored:  make(map[string]bool),
		Errs:         make(map[string][]error),
		joined:       make(map[string]bool),
	}
}

// FailWith queues errs for the operation key.
func (f *Fake) FailWith(key string, errs ...error) {
	f.Errs[key] = append(f.Errs[key], errs...)
}

// CallCount counts recorded calls with the given key.
func (f *Fake) CallCount(key string) int {
	n := 0
	for _, call := range f.Calls {
		if call == key {
			n++
		}
	}
	return n
}

func (f *Fake) record(key string) error {
	f.Calls = append(f.Calls, key)
	queued := f.Errs[key]
	if len(queued) == 0 {
		return nil
	}
	f.Errs[key] = queued[1:]
	return queued[0]
}

func (f *Fake) Channels() slackapi.Pager[slackapi.Channel] {
	return &pager[slackapi.Channel]{fake: f, key: "channels", pages: f.ChannelPages}
}

func (f *Fake) Users() slackapi.Pager[slackapi.User] {
	return &pager[slackapi.User]{fake: f, key: "users", pages: f.UserPages}
}

func (f *Fake) History(channelID string, _, _ time.Time) slackapi.Pager[slackapi.Message] {
	return &pager[slackapi.Message]{
		fake:  f,
		key:   "history:" + channelID,
		pages: f.HistoryPages[channelID],
		guard: func() error {
			if f.NotMember[channelID] && (!f.joined[channelID] || f.JoinIgnored[channelID]) {
				return &slackapi.Error{Code: "not_in_channel"}
			}
			return nil
		},
	}
}

func (f *Fake) JoinChannel(_ context.Context, channelID string) error {
	if err := f.record("join:" + channelID); err != nil {
		return err
	}
	f.joined[channelID] = true
	return nil
}

func (f *Fake) PostMessage(_ context.Context, channelID, text string) error {
	if err := f.record("post"); err != nil {
		return err
	}
	f.Posts = append(f.Posts, Post{ChannelID: channelID, Text: text})
	return nil
}

type pager[T any] struct {
	fake  *Fake
	key   string
	pages [][]T
	next  int
	guard func() error
}

func (p *pager[T]) Next(context.Context) ([]T, bool, error) {
	if err := p.fake.record(p.key); err != nil {
		return nil, false, err
	}
	if p.guard != nil {
		if err := p.guard(); err != nil {
			return nil, false, err
		}
	}
	if p.next >= len(p.pages) {
		return nil, true, nil
	}
	items := p.pages[p.next]
	p.next++
	return items, p.next == len(p.pages), nil
}

var _ slackapi.API = (*Fake)(nil)
