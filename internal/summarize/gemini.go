package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

// Gemini summarizes with Google's Gemini API.
type Gemini struct {
	client         *genai.Client
	model          string
	temperature    float32
	requestTimeout time.Duration
}

// NewGemini creates a Gemini summarizer.
func NewGemini(ctx context.Context, apiKey, model string, temperature float64, requestTimeout time.Duration) (*Gemini, error) {
	return newGemini(ctx, apiKey, model, temperature, requestTimeout, "")
}

// newGemini lets tests point the client at a local server.
func newGemini(ctx context.Context, apiKey, model string, temperature float64, requestTimeout time.Duration, baseURL string) (*Gemini, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("GenAI API key is required")
	}
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("model is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Gemini{
		client:         client,
		model:          strings.TrimSpace(model),
		temperature:    float32(temperature),
		requestTimeout: requestTimeout,
	}, nil
}

// Summarize implements Summarizer.
func (g *Gemini) Summarize(ctx context.Context, text, language string) (string, error) {
	ctx, cancel := withTimeout(ctx, g.requestTimeout)
	defer cancel()
	logger := providerLogger("gemini")
	startedAt := time.Now()

	logger.Debug().
		Str("model", g.model).
		Int("prompt_length", len(text)).
		Msg("Summarize request started")

	result, err := g.client.Models.GenerateContent(ctx,
		g.model,
		[]*genai.Content{genai.NewContentFromText(UserPrompt(text, language), genai.RoleUser)},
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(SystemPrompt(language), genai.RoleUser),
			Temperature:       genai.Ptr(g.temperature),
		},
	)
	if err != nil {
		logger.Debug().Err(err).Dur("duration", time.Since(startedAt)).Msg("Summarize request failed")
		return "", fmt.Errorf("GenAI summarize failed: %w", err)
	}

	summary := strings.TrimSpace(result.Text())
	if summary == "" {
		return "", errors.New("GenAI summarize returned no text")
	}
	logger.Debug().
		Dur("duration", time.Since(startedAt)).
		Int("response_length", len(summary)).
		Msg("Summarize request completed")
	return summary, nil
}
