// Package summarize turns a chat transcript into a bullet-point summary using
// an LLM provider.
package summarize

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/zerobugdebug/awesome-slack-summarizer/internal/config"
)

// Summarizer summarizes "Speaker: Message" lines in the given language.
type Summarizer interface {
	Summarize(ctx context.Context, text, language string) (string, error)
}

// New builds the summarizer selected by cfg.Provider.
func New(ctx context.Context, cfg *config.Config) (Summarizer, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAI(cfg.OpenAIToken, cfg.Model, cfg.Temperature, cfg.RequestTimeout)
	case config.ProviderGemini:
		return NewGemini(ctx, cfg.GeminiAPIKey, cfg.Model, cfg.Temperature, cfg.RequestTimeout)
	default:
		return nil, fmt.Errorf("unsupported summarizer provider %q", cfg.Provider)
	}
}

// SystemPrompt explains the transcript format and the reply language.
func SystemPrompt(language string) string {
	return strings.Join([]string{
		`The chat log format consists of one line per message in the format "Speaker: Message".`,
		"The `\\n` within the message represents a line break.",
		fmt.Sprintf("The user understands %s only.", language),
		fmt.Sprintf("So, The assistant need to speak in %s.", language),
	}, "\n")
}

// UserPrompt asks for a flat bullet list summary of text.
func UserPrompt(text, language string) string {
	return strings.Join([]string{
		fmt.Sprintf("Please meaning summarize the following chat log to flat bullet list in %s.", language),
		"It isn't line by line summary.",
		"Do not include greeting/salutation/polite expressions in summary.",
		"With make it easier to read.",
		fmt.Sprintf("Write in %s.", language),
		"",
		text,
	}, "\n")
}

func providerLogger(provider string) zerolog.Logger {
	return log.With().Str("component", "summarize."+provider).Logger()
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}
