package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"shot-factory-ai-bot/internal/config"
	"shot-factory-ai-bot/internal/fightclip"
	"shot-factory-ai-bot/internal/gemini"
	"shot-factory-ai-bot/internal/glm"
	"shot-factory-ai-bot/internal/handlers"
	"shot-factory-ai-bot/internal/httpclient"
	"shot-factory-ai-bot/internal/session"
	"shot-factory-ai-bot/internal/telegram"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := cfg.RequireTelegram(); err != nil {
		panic(err)
	}

	logger := newLogger(cfg)

	httpClient := httpclient.New(httpclient.Options{
		PreferIPv4: cfg.PreferIPv4,
		Timeout:    cfg.HTTPTimeout,
	})

	tg, err := telegram.New(telegram.Options{
		Token:      cfg.TelegramToken,
		HTTPClient: httpClient,
		Logger:     logger,
		Debug:      cfg.Debug,
	})
	if err != nil {
		logger.Error("telegram init failed", "err", err)
		os.Exit(1)
	}

	model, err := newModelClient(cfg, httpClient, logger)
	if err != nil {
		logger.Error("model client init failed", "err", err)
		os.Exit(1)
	}

	handler := handlers.New(handlers.Options{
		Telegram: tg,
		Model:    model,
		Clips:    fightclip.NewStore(),
		Sessions: session.NewStore(),
		Logger:   logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("bot started", "username", tg.Username(), "provider", cfg.LLMProvider)

	updates := tg.Updates(telegram.UpdatesOptions{
		Timeout: 30 * time.Second,
	})
	defer tg.StopUpdates()

	sem := make(chan struct{}, cfg.MaxConcurrent)
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return
		case update, ok := <-updates:
			if !ok {
				logger.Info("updates channel closed")
				return
			}

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}

			go func(update telegram.Update) {
				defer func() { <-sem }()

				reqCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
				defer cancel()

				if err := handler.HandleUpdate(reqCtx, update); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("handle update failed", "err", err)
				}
			}(update)
		}
	}
}

func newModelClient(cfg config.Config, httpClient *http.Client, logger *slog.Logger) (handlers.ModelClient, error) {
	switch cfg.LLMProvider {
	case config.ProviderGLM:
		return glm.New(glm.Options{
			APIKey:      cfg.GLMAPIKey,
			BaseURL:     cfg.GLMBaseURL,
			Model:       cfg.GLMModel,
			AuthScheme:  cfg.GLMAuthScheme,
			TokenTTL:    cfg.GLMTokenTTL,
			Temperature: cfg.Temperature,
			TopP:        cfg.TopP,
			MaxTokens:   cfg.MaxTokens,
			HTTPClient:  httpClient,
			Logger:      logger,
		})
	case config.ProviderGemini:
		return gemini.New(gemini.Options{
			APIKey:      cfg.GeminiAPIKey,
			BaseURL:     cfg.GeminiBaseURL,
			APIVersion:  cfg.GeminiAPIVersion,
			Model:       cfg.GeminiModel,
			Temperature: cfg.Temperature,
			TopP:        cfg.TopP,
			MaxTokens:   cfg.MaxTokens,
			HTTPClient:  httpClient,
			Logger:      logger,
		})
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}
