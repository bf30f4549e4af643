package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	osdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAI summarizes with the chat completions API.
type OpenAI struct {
	client         osdk.Client
	model          string
	temperature    float64
	requestTimeout time.Duration
}

// NewOpenAI creates an OpenAI summarizer. Extra options are applied after the
// API key, e.g. option.WithBaseURL.
func NewOpenAI(apiKey, model string, temperature float64, requestTimeout time.Duration, opts ...option.RequestOption) (*OpenAI, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("model is required")
	}

	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &OpenAI{
		client:         osdk.NewClient(opts...),
		model:          strings.TrimSpace(model),
		temperature:    temperature,
		requestTimeout: requestTimeout,
	}, nil
}

// Summarize implements Summarizer.
func (o *OpenAI) Summarize(ctx context.Context, text, language string) (string, error) {
	ctx, cancel := withTimeout(ctx, o.requestTimeout)
	defer cancel()
	logger := providerLogger("openai")
	startedAt := time.Now()

	logger.Debug().
		Str("model", o.model).
		Int("prompt_length", len(text)).
		Msg("Summarize request started")

	completion, err := o.client.Chat.Completions.New(ctx, osdk.ChatCompletionNewParams{
		Model:       o.model,
		Temperature: osdk.Float(o.temperature),
		Messages: []osdk.ChatCompletionMessageParamUnion{
			osdk.SystemMessage(SystemPrompt(language)),
			osdk.UserMessage(UserPrompt(text, language)),
		},
	})
	if err != nil {
		logger.Debug().Err(err).Dur("duration", time.Since(startedAt)).Msg("Summarize request failed")
		return "", fmt.Errorf("openai summarize: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("openai summarize: no choices returned")
	}

	summary := strings.TrimSpace(completion.Choices[0].Message.Content)
	logger.Debug().
		Dur("duration", time.Since(startedAt)).
		Int("response_length", len(summary)).
		Msg("Summarize request completed")
	return summary, nil
}
