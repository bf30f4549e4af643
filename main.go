package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zerobugdebug/awesome-slack-summarizer/internal/config"
	"github.com/zerobugdebug/awesome-slack-summarizer/internal/digest"
	"github.com/zerobugdebug/awesome-slack-summarizer/internal/slackapi"
	"github.com/zerobugdebug/awesome-slack-summarizer/internal/summarize"
)

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:           "slack-summarizer",
		Short:         "Summarize the last day of every public Slack channel",
		Long:          "Reads recent history from every public channel, summarizes it with an LLM and posts one digest to a channel.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), v)
		},
	}

	cmd.Flags().Bool("debug", false, "Print the digest instead of posting it")
	cmd.Flags().String("log-level", "info", "Log level: trace, debug, info, warn, error, fatal, panic")
	_ = v.BindPFlag(config.KeyDebug, cmd.Flags().Lookup("debug"))
	_ = v.BindPFlag(config.KeyLogLevel, cmd.Flags().Lookup("log-level"))
	config.SetDefaults(v)

	return cmd
}

func setupLogger(levelStr string) {
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}

	logLevel, err := zerolog.ParseLevel(levelStr)
	if err != nil || levelStr == "" {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)
	log.Logger = zerolog.New(consoleWriter).With().
		Timestamp().
		Str("run_id", ulid.Make().String()).
		Logger()

	if err != nil {
		log.Warn().Str("level", levelStr).Msg("Invalid log level, defaulting to info")
	}
	log.Info().
		Str("level", logLevel.String()).
		Msg("Logger initialized")
}

func run(ctx context.Context, v *viper.Viper) error {
	setupLogger(v.GetString(config.KeyLogLevel))

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	log.Info().
		Str("provider", string(cfg.Provider)).
		Str("model", cfg.Model).
		Str("language", cfg.Language).
		Str("timezone", cfg.Location.String()).
		Int("windowHours", cfg.WindowHours).
		Int("maxBodyTokens", cfg.MaxBodyTokens).
		Bool("debug", cfg.Debug).
		Msg("Configuration loaded")

	api, err := slackapi.New(ctx, cfg.SlackBotToken)
	if err != nil {
		return err
	}

	summarizer, err := summarize.New(ctx, cfg)
	if err != nil {
		return err
	}

	runner := &digest.Runner{
		Config:     cfg,
		API:        api,
		Summarizer: summarizer,
	}
	return runner.Run(ctx)
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("Failed to load .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		log.Fatal().Err(err).Msg("Summarizer run failed")
	}
}
