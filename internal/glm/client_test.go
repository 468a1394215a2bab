package glm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func chatReply(content string) string {
	return `{"choices":[{"message":{"role":"assistant","content":` + strconvQuote(content) + `},"finish_reason":"stop"}],"usage":{"total_tokens":10}}`
}

func strconvQuote(s string) string {
	raw, _ := json.Marshal(s)
	return string(raw)
}

func TestNewValidation(t *testing.T) {
	if _, err := New(Options{APIKey: "   "}); err == nil {
		t.Error("empty key: expected error before any request")
	}
	if _, err := New(Options{APIKey: "plain", AuthScheme: AuthJWT}); err == nil {
		t.Error("jwt scheme with plain key: expected error")
	}
	if _, err := New(Options{APIKey: "plain", AuthScheme: "basic"}); err == nil {
		t.Error("unknown scheme: expected error")
	}
}

func TestGenerateBearerAuto(t *testing.T) {
	var gotAuth string
	var gotBody chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chatReply("hello there")))
	}))
	defer srv.Close()

	client, err := New(Options{
		APIKey:     "plainkey",
		BaseURL:    srv.URL,
		Model:      "glm-4-flash",
		HTTPClient: srv.Client(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	out, err := client.Generate(context.Background(), "say hello", false)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "hello there" {
		t.Errorf("out = %q", out)
	}
	if gotAuth != "Bearer plainkey" {
		t.Errorf("authorization = %q, want raw bearer", gotAuth)
	}
	if gotBody.Model != "glm-4-flash" {
		t.Errorf("model = %q", gotBody.Model)
	}
	if len(gotBody.Messages) != 1 || gotBody.Messages[0].Content != "say hello" {
		t.Errorf("messages = %+v", gotBody.Messages)
	}
	if gotBody.ResponseFormat != nil {
		t.Errorf("response_format should be absent for text output, got %+v", gotBody.ResponseFormat)
	}
}

func TestGenerateJWTAuto(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chatReply("ok")))
	}))
	defer srv.Close()

	client, err := New(Options{
		APIKey:     "abc.def",
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := client.Generate(context.Background(), "hi", false); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	token, ok := strings.CutPrefix(gotAuth, "Bearer ")
	if !ok {
		t.Fatalf("authorization = %q, want Bearer prefix", gotAuth)
	}
	if parts := strings.Split(token, "."); len(parts) != 3 {
		t.Errorf("token has %d parts, want 3: %q", len(parts), token)
	}
	if token == "abc.def" {
		t.Error("compound credential was sent raw instead of signed")
	}
}

func TestGenerateJSONFormat(t *testing.T) {
	var gotBody chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chatReply(`{"a":1}`)))
	}))
	defer srv.Close()

	client, err := New(Options{APIKey: "k", BaseURL: srv.URL, HTTPClient: srv.Client()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := client.Generate(context.Background(), "json please", true); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if gotBody.ResponseFormat == nil || gotBody.ResponseFormat.Type != "json_object" {
		t.Errorf("response_format = %+v, want json_object", gotBody.ResponseFormat)
	}
}

func TestGenerateAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"code":"1002","message":"token expired"}}`))
	}))
	defer srv.Close()

	client, err := New(Options{APIKey: "k", BaseURL: srv.URL, HTTPClient: srv.Client()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = client.Generate(context.Background(), "hi", false)
	if err == nil {
		t.Fatal("expected error")
	}
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error %v is not RequestError", err)
	}
	if reqErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d", reqErr.StatusCode)
	}
	if reqErr.Message != "token expired" {
		t.Errorf("message = %q", reqErr.Message)
	}
	if !strings.Contains(reqErr.Body, "1002") {
		t.Errorf("raw body lost: %q", reqErr.Body)
	}
}

func TestGenerateUnparseableErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable"))
	}))
	defer srv.Close()

	client, err := New(Options{APIKey: "k", BaseURL: srv.URL, HTTPClient: srv.Client()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = client.Generate(context.Background(), "hi", false)
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error %v is not RequestError", err)
	}
	if reqErr.Message != "" {
		t.Errorf("message should be empty for unparseable body, got %q", reqErr.Message)
	}
	if !strings.Contains(reqErr.Error(), "upstream unavailable") {
		t.Errorf("Error() lost raw body: %q", reqErr.Error())
	}
}
