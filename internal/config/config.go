// Package config loads the summarizer settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"

	"github.com/zerobugdebug/awesome-slack-summarizer/internal/harvest"
	"github.com/zerobugdebug/awesome-slack-summarizer/internal/transcript"
)

// Setting keys. Each one is read from the upper-cased environment variable of
// the same name.
const (
	KeySlackBotToken    = "slack_bot_token"
	KeyPostChannelID    = "slack_post_channel_id"
	KeyProvider         = "summarizer_provider"
	KeyOpenAIToken      = "open_ai_token"
	KeyGeminiAPIKey     = "gemini_api_key"
	KeyModel            = "chat_model"
	KeyTemperature      = "temperature"
	KeyLanguage         = "language"
	KeyTimeZone         = "timezone"
	KeyDebug            = "debug"
	KeyMaxBodyTokens    = "max_body_tokens"
	KeyWindowHours      = "window_hours"
	KeyThrottleInterval = "throttle_interval"
	KeyRetryAttempts    = "retry_attempts"
	KeyRetryDelay       = "retry_delay"
	KeyJoinSettleDelay  = "join_settle_delay"
	KeyRequestTimeout   = "request_timeout"
	KeyLogLevel         = "log_level"
)

// Provider selects the summarization backend.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

var defaultModels = map[Provider]string{
	ProviderOpenAI: "gpt-4-1106-preview",
	ProviderGemini: "gemini-2.0-flash",
}

// ErrMissing is wrapped by Validate when a required setting is empty.
var ErrMissing = errors.New("required setting missing")

// Config is built once at startup and handed to every component that needs it.
type Config struct {
	SlackBotToken string
	PostChannelID string

	Provider     Provider
	OpenAIToken  string
	GeminiAPIKey string
	Model        string
	Temperature  float64
	Language     string

	TimeZone string
	Location *time.Location

	// Debug prints the digest instead of posting it.
	Debug bool

	MaxBodyTokens    int
	WindowHours      int
	ThrottleInterval time.Duration
	RetryAttempts    int
	RetryDelay       time.Duration
	JoinSettleDelay  time.Duration
	RequestTimeout   time.Duration

	LogLevel string
}

// SetDefaults registers default values and environment lookup on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyProvider, string(ProviderOpenAI))
	v.SetDefault(KeyTemperature, 0.3)
	v.SetDefault(KeyLanguage, "Japanese")
	v.SetDefault(KeyTimeZone, "Asia/Tokyo")
	v.SetDefault(KeyMaxBodyTokens, transcript.DefaultTokenBudget)
	v.SetDefault(KeyWindowHours, harvest.DefaultWindowHours)
	v.SetDefault(KeyThrottleInterval, 3*time.Second)
	v.SetDefault(KeyRetryAttempts, 5)
	v.SetDefault(KeyRetryDelay, 10*time.Second)
	v.SetDefault(KeyJoinSettleDelay, harvest.DefaultSettleDelay)
	v.SetDefault(KeyRequestTimeout, 2*time.Minute)
	v.SetDefault(KeyLogLevel, "info")
	v.AutomaticEnv()
}

// Load reads a Config from v and validates it.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		SlackBotToken:    trimmed(v, KeySlackBotToken),
		PostChannelID:    trimmed(v, KeyPostChannelID),
		Provider:         Provider(strings.ToLower(trimmed(v, KeyProvider))),
		OpenAIToken:      trimmed(v, KeyOpenAIToken),
		GeminiAPIKey:     trimmed(v, KeyGeminiAPIKey),
		Model:            trimmed(v, KeyModel),
		Temperature:      v.GetFloat64(KeyTemperature),
		Language:         trimmed(v, KeyLanguage),
		TimeZone:         trimmed(v, KeyTimeZone),
		Debug:            flagValue(trimmed(v, KeyDebug)),
		MaxBodyTokens:    v.GetInt(KeyMaxBodyTokens),
		WindowHours:      v.GetInt(KeyWindowHours),
		ThrottleInterval: v.GetDuration(KeyThrottleInterval),
		RetryAttempts:    v.GetInt(KeyRetryAttempts),
		RetryDelay:       v.GetDuration(KeyRetryDelay),
		JoinSettleDelay:  v.GetDuration(KeyJoinSettleDelay),
		RequestTimeout:   v.GetDuration(KeyRequestTimeout),
		LogLevel:         strings.ToLower(trimmed(v, KeyLogLevel)),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required settings, fills the provider's default model and
// resolves the time zone.
func (c *Config) Validate() error {
	var missing []string
	if c.SlackBotToken == "" {
		missing = append(missing, "SLACK_BOT_TOKEN")
	}
	if c.PostChannelID == "" {
		missing = append(missing, "SLACK_POST_CHANNEL_ID")
	}

	switch c.Provider {
	case ProviderOpenAI:
		if c.OpenAIToken == "" {
			missing = append(missing, "OPEN_AI_TOKEN")
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			missing = append(missing, "GEMINI_API_KEY")
		}
	default:
		return fmt.Errorf("unsupported summarizer provider %q", c.Provider)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s must be set", ErrMissing, strings.Join(missing, ", "))
	}

	if c.Model == "" {
		c.Model = defaultModels[c.Provider]
	}
	if c.Language == "" {
		c.Language = "Japanese"
	}

	if c.MaxBodyTokens <= 0 {
		return fmt.Errorf("MAX_BODY_TOKENS must be positive, got %d", c.MaxBodyTokens)
	}
	if c.WindowHours <= 0 {
		return fmt.Errorf("WINDOW_HOURS must be positive, got %d", c.WindowHours)
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("RETRY_ATTEMPTS must be at least 1, got %d", c.RetryAttempts)
	}
	if c.ThrottleInterval < 0 || c.RetryDelay < 0 || c.JoinSettleDelay < 0 || c.RequestTimeout < 0 {
		return errors.New("delays and timeouts must not be negative")
	}

	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.TimeZone, err)
	}
	c.Location = loc

	return nil
}

func trimmed(v *viper.Viper, key string) string {
	return strings.TrimSpace(v.GetString(key))
}

// flagValue treats boolean spellings as such and any other non-empty value as
// enabled.
func flagValue(raw string) bool {
	if raw == "" {
		return false
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return true
}
