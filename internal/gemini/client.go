package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

const defaultModel = "gemini-2.0-flash"

type Options struct {
	APIKey     string
	BaseURL    string
	APIVersion string
	Model      string

	Temperature float64
	TopP        float64
	MaxTokens   int

	HTTPClient *http.Client
	Logger     *slog.Logger
}

type Client struct {
	apiKey     string
	baseURL    string
	apiVersion string
	model      string

	temperature float64
	topP        float64
	maxTokens   int

	httpClient *http.Client
	logger     *slog.Logger
}

// RequestError mirrors the glm client's error shape so callers can treat
// both providers the same way.
type RequestError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("gemini api %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("gemini api %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

func New(opts Options) (*Client, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is empty")
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}

	apiVersion := strings.TrimSpace(opts.APIVersion)
	if apiVersion == "" {
		apiVersion = "v1beta"
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}

	temperature := opts.Temperature
	if temperature <= 0 {
		temperature = 0.7
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		apiKey:      apiKey,
		baseURL:     baseURL,
		apiVersion:  apiVersion,
		model:       model,
		temperature: temperature,
		topP:        opts.TopP,
		maxTokens:   opts.MaxTokens,
		httpClient:  opts.HTTPClient,
		logger:      logger,
	}, nil
}

// Generate submits one prompt and returns the concatenated candidate text.
// jsonOutput switches the response MIME hint to application/json so the
// model is constrained to emit a single JSON document.
func (c *Client) Generate(ctx context.Context, prompt string, jsonOutput bool) (string, error) {
	if c.httpClient == nil {
		return "", errors.New("http client is nil")
	}

	mime := "text/plain"
	if jsonOutput {
		mime = "application/json"
	}

	payload := generateContentRequest{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: prompt}}},
		},
		GenerationConfig: generationConfig{
			Temperature:      c.temperature,
			TopP:             c.topP,
			MaxOutputTokens:  c.maxTokens,
			ResponseMimeType: mime,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/models/%s:generateContent", c.baseURL, c.apiVersion, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("content-type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	c.logger.Debug("gemini request", "model", c.model, "mime", mime, "prompt_len", len(prompt))

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	defer httpResp.Body.Close()

	rawBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode >= 400 {
		reqErr := &RequestError{StatusCode: httpResp.StatusCode, Body: string(rawBody)}
		var decoded apiErrorBody
		if jsonErr := json.Unmarshal(rawBody, &decoded); jsonErr == nil && decoded.Error.Message != "" {
			reqErr.Message = decoded.Error.Message
		}
		c.logger.Warn("gemini api error", "status", httpResp.StatusCode, "message", reqErr.Message)
		return "", reqErr
	}

	var decoded generateContentResponse
	if err := json.Unmarshal(rawBody, &decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(decoded.Candidates) == 0 {
		return "", errors.New("gemini returned no candidates")
	}

	var text strings.Builder
	for _, p := range decoded.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	if strings.TrimSpace(text.String()) == "" {
		return "", errors.New("gemini returned empty text")
	}

	return text.String(), nil
}
