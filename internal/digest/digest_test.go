package digest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/zerobugdebug/awesome-slack-summarizer/internal/config"
	"github.com/zerobugdebug/awesome-slack-summarizer/internal/harvest"
	"github.com/zerobugdebug/awesome-slack-summarizer/internal/slackapi"
	"github.com/zerobugdebug/awesome-slack-summarizer/internal/slackapi/slackapitest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

type summaryCall struct {
	text     string
	language string
}

type fakeSummarizer struct {
	calls []summaryCall
	err   error
}

func (s *fakeSummarizer) Summarize(_ context.Context, text, language string) (string, error) {
	s.calls = append(s.calls, summaryCall{text: text, language: language})
	if s.err != nil {
		return "", s.err
	}
	return fmt.Sprintf("- summary %d", len(s.calls)), nil
}

var jst = time.FixedZone("JST", 9*60*60)

func testConfig() *config.Config {
	return &config.Config{
		PostChannelID:    "C0SUMMARY",
		Language:         "English",
		Location:         jst,
		MaxBodyTokens:    3000,
		WindowHours:      25,
		ThrottleInterval: 3 * time.Second,
		RetryAttempts:    5,
		RetryDelay:       10 * time.Second,
		JoinSettleDelay:  5 * time.Second,
	}
}

func workspace() *slackapitest.Fake {
	f := slackapitest.NewFake()
	f.UserPages = [][]slackapi.User{
		{{ID: "U1", DisplayName: "Alice"}},
		{{ID: "U2", DisplayName: "Bob"}},
	}
	f.ChannelPages = [][]slackapi.Channel{{
		{ID: "C2", Name: "general", IsChannel: true},
		{ID: "C3", Name: "random", IsChannel: true},
		{ID: "C1", Name: "1-news", IsChannel: true},
		{ID: "C4", Name: "0-old", IsChannel: true, IsArchived: true},
	}}
	f.HistoryPages["C1"] = [][]slackapi.Message{{
		{User: "U2", Text: "I'm fine"},
		{User: "U1", Text: "Hi <@U2>"},
	}}
	f.HistoryPages["C2"] = [][]slackapi.Message{{
		{User: "U1", Text: "hello all"},
		{SubType: "channel_join", User: "U2", Text: "<@U2> has joined the channel"},
	}}
	return f
}

type harness struct {
	fake       *slackapitest.Fake
	summarizer *fakeSummarizer
	out        *bytes.Buffer
	slept      []time.Duration
	runner     *Runner
}

func newHarness(cfg *config.Config, fake *slackapitest.Fake) *harness {
	h := &harness{
		fake:       fake,
		summarizer: &fakeSummarizer{},
		out:        &bytes.Buffer{},
	}
	h.runner = &Runner{
		Config:     cfg,
		API:        fake,
		Summarizer: h.summarizer,
		Out:        h.out,
		Sleep: func(_ context.Context, d time.Duration) error {
			h.slept = append(h.slept, d)
			return nil
		},
		Now: func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) },
	}
	return h
}

const wantDigest = "2024-03-09 public channels summary\n\n" +
	"----\n<#C1>\n- summary 1\n" +
	"----\n<#C2>\n- summary 2"

func TestFormatter(t *testing.T) {
	f := NewFormatter(time.Date(2024, 1, 2, 23, 0, 0, 0, jst))
	assert.True(t, f.Empty())
	assert.Equal(t, "2024-01-02 public channels summary\n\n", f.String())

	f.AddChannel("C1")
	f.AddSummary("- a")
	f.AddSummary("- b")
	assert.False(t, f.Empty())
	assert.Equal(t, "2024-01-02 public channels summary\n\n----\n<#C1>\n- a\n- b", f.String())
}

func TestRunPostsDigest(t *testing.T) {
	h := newHarness(testConfig(), workspace())

	require.NoError(t, h.runner.Run(context.Background()))

	require.Len(t, h.fake.Posts, 1)
	assert.Equal(t, "C0SUMMARY", h.fake.Posts[0].ChannelID)
	assert.Equal(t, wantDigest, h.fake.Posts[0].Text)
	assert.Empty(t, h.out.String())

	assert.Equal(t, []summaryCall{
		{text: "Alice: Hi Bob\nBob: I'm fine", language: "English"},
		{text: "Alice: hello all", language: "English"},
	}, h.summarizer.calls)

	assert.Equal(t, 0, h.fake.CallCount("history:C4"))
	assert.Equal(t, 1, h.fake.CallCount("history:C3"))
	for _, d := range h.slept {
		assert.Equal(t, 3*time.Second, d)
	}
	// users x2, channels, three histories, post
	assert.Len(t, h.slept, 7)
}

func TestRunDebugPrintsInsteadOfPosting(t *testing.T) {
	cfg := testConfig()
	cfg.Debug = true
	h := newHarness(cfg, workspace())

	require.NoError(t, h.runner.Run(context.Background()))

	assert.Empty(t, h.fake.Posts)
	assert.Equal(t, 0, h.fake.CallCount("post"))
	assert.Equal(t, wantDigest+"\n", h.out.String())
}

func TestRunSplitsLongTranscripts(t *testing.T) {
	cfg := testConfig()
	cfg.MaxBodyTokens = 4
	h := newHarness(cfg, workspace())

	require.NoError(t, h.runner.Run(context.Background()))

	require.Len(t, h.fake.Posts, 1)
	assert.Equal(t, "2024-03-09 public channels summary\n\n"+
		"----\n<#C1>\n- summary 1\n- summary 2\n"+
		"----\n<#C2>\n- summary 3", h.fake.Posts[0].Text)
	require.Len(t, h.summarizer.calls, 3)
	assert.Equal(t, "Alice: Hi Bob", h.summarizer.calls[0].text)
	assert.Equal(t, "Bob: I'm fine", h.summarizer.calls[1].text)
}

func TestRunSkipsChannelOnHistoryError(t *testing.T) {
	fake := workspace()
	fake.FailWith("history:C1", &slackapi.Error{Code: "channel_not_found"})
	h := newHarness(testConfig(), fake)

	require.NoError(t, h.runner.Run(context.Background()))

	require.Len(t, h.fake.Posts, 1)
	assert.Equal(t, "2024-03-09 public channels summary\n\n----\n<#C2>\n- summary 1", h.fake.Posts[0].Text)
	assert.Equal(t, 1, h.fake.CallCount("history:C1"))
}

func TestRunJoinsChannelBeforeReading(t *testing.T) {
	fake := workspace()
	fake.NotMember["C1"] = true
	h := newHarness(testConfig(), fake)

	require.NoError(t, h.runner.Run(context.Background()))

	assert.Equal(t, 1, h.fake.CallCount("join:C1"))
	assert.Contains(t, h.slept, 5*time.Second)
	require.Len(t, h.fake.Posts, 1)
	assert.Equal(t, wantDigest, h.fake.Posts[0].Text)
}

func TestRunAbortsWhenJoinFails(t *testing.T) {
	fake := workspace()
	fake.NotMember["C1"] = true
	fake.FailWith("join:C1", &slackapi.Error{Code: "is_archived"})
	h := newHarness(testConfig(), fake)

	err := h.runner.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, harvest.ErrJoinFailed)
	assert.Empty(t, h.fake.Posts)
	assert.Equal(t, 0, h.fake.CallCount("history:C2"))
	assert.Empty(t, h.summarizer.calls)
}

func TestRunAbortsWhenSummarizerFails(t *testing.T) {
	h := newHarness(testConfig(), workspace())
	boom := errors.New("model overloaded")
	h.summarizer.err = boom

	err := h.runner.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, h.fake.Posts)
}

func TestRunRetriesPost(t *testing.T) {
	fake := workspace()
	fake.FailWith("post", &slackapi.Error{Code: "ratelimited"})
	h := newHarness(testConfig(), fake)

	require.NoError(t, h.runner.Run(context.Background()))

	assert.Equal(t, 2, h.fake.CallCount("post"))
	require.Len(t, h.fake.Posts, 1)
	assert.Contains(t, h.slept, 10*time.Second)
}

func TestRunFailsWhenPostFails(t *testing.T) {
	fake := workspace()
	fake.FailWith("post", &slackapi.Error{Code: "channel_not_found"})
	h := newHarness(testConfig(), fake)

	err := h.runner.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, h.fake.CallCount("post"))
}

func TestRunFailsWhenDirectoryFails(t *testing.T) {
	fake := workspace()
	fake.FailWith("users", &slackapi.Error{Code: "invalid_auth"})
	h := newHarness(testConfig(), fake)

	err := h.runner.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, h.fake.CallCount("channels"))
	assert.Empty(t, h.summarizer.calls)
}

func TestRunEmptyWorkspace(t *testing.T) {
	fake := slackapitest.NewFake()
	h := newHarness(testConfig(), fake)

	require.NoError(t, h.runner.Run(context.Background()))
	require.Len(t, h.fake.Posts, 1)
	assert.Equal(t, "2024-03-09 public channels summary\n\n", h.fake.Posts[0].Text)
}
