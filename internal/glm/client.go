package glm

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
	"time"
)

const (
	AuthAuto   = "auto"
	AuthBearer = "bearer"
	AuthJWT    = "jwt"

	defaultBaseURL = "https://open.bigmodel.cn/api/paas/v4"
	defaultModel   = "glm-4-flash"
)

type Options struct {
	APIKey     string // raw bearer value, or compound id.secret for signed tokens
	BaseURL    string
	Model      string
	AuthScheme string // "auto" | "bearer" | "jwt"
	TokenTTL   time.Duration

	Temperature float64
	TopP        float64
	MaxTokens   int

	HTTPClient *http.Client
	Logger     *slog.Logger
}

type Client struct {
	apiKey     string
	baseURL    string
	model      string
	authScheme string
	tokenTTL   time.Duration

	temperature float64
	topP        float64
	maxTokens   int

	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time
}

// RequestError is a non-success answer from the model endpoint. Message is
// the structured error message when the body parsed, Body always keeps the
// raw response for diagnosis.
type RequestError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("glm api %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("glm api %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// New validates the credential up front; a missing key is a configuration
// problem and must surface before any network call.
func New(opts Options) (*Client, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, errors.New("glm api key is empty")
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}

	scheme := strings.ToLower(strings.TrimSpace(opts.AuthScheme))
	switch scheme {
	case "":
		scheme = AuthAuto
	case AuthAuto, AuthBearer, AuthJWT:
	default:
		return nil, fmt.Errorf("unknown glm auth scheme %q", opts.AuthScheme)
	}
	if scheme == AuthJWT && !strings.Contains(apiKey, ".") {
		return nil, errors.New("jwt auth needs an id.secret credential")
	}

	ttl := opts.TokenTTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
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
		model:       model,
		authScheme:  scheme,
		tokenTTL:    ttl,
		temperature: temperature,
		topP:        opts.TopP,
		maxTokens:   opts.MaxTokens,
		httpClient:  opts.HTTPClient,
		logger:      logger,
		now:         time.Now,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Stream         bool            `json:"stream"`
	Temperature    float64         `json:"temperature"`
	TopP           float64         `json:"top_p,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

type apiErrorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate submits one chat completion and returns the reply text. One
// attempt only; timeouts and non-success statuses go back to the caller
// untouched.
func (c *Client) Generate(ctx context.Context, prompt string, jsonOutput bool) (string, error) {
	if c.httpClient == nil {
		return "", errors.New("http client is nil")
	}

	payload := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.temperature,
		TopP:        c.topP,
		MaxTokens:   c.maxTokens,
	}
	if jsonOutput {
		payload.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	auth, err := c.authorization()
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+auth)

	c.logger.Debug("glm request", "model", c.model, "json_output", jsonOutput, "prompt_len", len(prompt))

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("glm request: %w", err)
	}
	defer httpResp.Body.Close()

	rawBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		reqErr := &RequestError{StatusCode: httpResp.StatusCode, Body: string(rawBody)}
		var decoded apiErrorBody
		if jsonErr := json.Unmarshal(rawBody, &decoded); jsonErr == nil && decoded.Error.Message != "" {
			reqErr.Message = decoded.Error.Message
		}
		c.logger.Warn("glm api error", "status", httpResp.StatusCode, "message", reqErr.Message)
		return "", reqErr
	}

	var decoded chatResponse
	if err := json.Unmarshal(rawBody, &decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", errors.New("glm returned no choices")
	}

	return decoded.Choices[0].Message.Content, nil
}

func (c *Client) authorization() (string, error) {
	scheme := c.authScheme
	if scheme == AuthAuto {
		if strings.Contains(c.apiKey, ".") {
			scheme = AuthJWT
		} else {
			scheme = AuthBearer
		}
	}
	if scheme == AuthBearer {
		return c.apiKey, nil
	}
	return MakeToken(c.apiKey, c.tokenTTL, c.now())
}
