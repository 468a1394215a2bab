package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ProviderGLM    = "glm"
	ProviderGemini = "gemini"
)

type Config struct {
	TelegramToken string

	LLMProvider string // "glm" | "gemini"

	GLMAPIKey     string
	GLMBaseURL    string
	GLMModel      string
	GLMAuthScheme string // "auto" | "bearer" | "jwt"
	GLMTokenTTL   time.Duration

	GeminiAPIKey     string
	GeminiBaseURL    string
	GeminiAPIVersion string
	GeminiModel      string

	Temperature float64
	TopP        float64
	MaxTokens   int

	LogLevel string
	Debug    bool

	PreferIPv4 bool

	MaxConcurrent  int
	RequestTimeout time.Duration
	HTTPTimeout    time.Duration

	WebAddr     string
	CORSOrigins []string
}

func Load() (Config, error) {
	cfg := Config{
		LLMProvider:      strings.ToLower(strings.TrimSpace(getEnv("LLM_PROVIDER", ProviderGLM))),
		GLMBaseURL:       strings.TrimSpace(getEnv("GLM_BASE_URL", "https://open.bigmodel.cn/api/paas/v4")),
		GLMModel:         strings.TrimSpace(getEnv("GLM_MODEL", "glm-4-flash")),
		GLMAuthScheme:    strings.ToLower(strings.TrimSpace(getEnv("GLM_AUTH_SCHEME", "auto"))),
		GLMTokenTTL:      time.Duration(getEnvInt("GLM_TOKEN_TTL_SECONDS", 60)) * time.Second,
		GeminiBaseURL:    strings.TrimSpace(getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com")),
		GeminiAPIVersion: strings.TrimSpace(getEnv("GEMINI_API_VERSION", "v1beta")),
		GeminiModel:      strings.TrimSpace(getEnv("GEMINI_MODEL", "gemini-2.0-flash")),
		Temperature:      getEnvFloat("LLM_TEMPERATURE", 0.7),
		TopP:             getEnvFloat("LLM_TOP_P", 0),
		MaxTokens:        getEnvInt("LLM_MAX_TOKENS", 0),
		LogLevel:         strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", "info"))),
		Debug:            getEnvBool("DEBUG", false),
		PreferIPv4:       getEnvBool("PREFER_IPV4", true),
		MaxConcurrent:    getEnvInt("MAX_CONCURRENT", 4),
		RequestTimeout:   time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 180)) * time.Second,
		HTTPTimeout:      time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 180)) * time.Second,
		WebAddr:          strings.TrimSpace(getEnv("WEB_ADDR", ":8080")),
	}

	cfg.TelegramToken = strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
	cfg.GLMAPIKey = strings.TrimSpace(os.Getenv("GLM_API_KEY"))
	cfg.GeminiAPIKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))

	for _, origin := range strings.Split(getEnv("CORS_ALLOW_ORIGINS", "*"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	switch cfg.LLMProvider {
	case ProviderGLM:
		if cfg.GLMAPIKey == "" {
			return Config{}, errors.New("GLM_API_KEY is required when LLM_PROVIDER=glm")
		}
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return Config{}, errors.New("GEMINI_API_KEY is required when LLM_PROVIDER=gemini")
		}
	default:
		return Config{}, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}

	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 180 * time.Second
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 180 * time.Second
	}
	if cfg.GLMTokenTTL <= 0 {
		cfg.GLMTokenTTL = 60 * time.Second
	}

	return cfg, nil
}

// RequireTelegram is the extra check for the bot entry point; the web API
// runs without a bot token.
func (c Config) RequireTelegram() error {
	if c.TelegramToken == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
