package webapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

type fakeModel struct {
	reply string
	err   error

	gotPrompt string
	gotJSON   bool
}

func (f *fakeModel) Generate(_ context.Context, prompt string, jsonOutput bool) (string, error) {
	f.gotPrompt = prompt
	f.gotJSON = jsonOutput
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newTestRouter(model ModelClient) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return New(Options{Model: model, CORSOrigins: []string{"*"}}).Router()
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

const sampleBoard = `{
  "brand": "山野",
  "product": "气泡水",
  "duration_sec": 15,
  "style": "清新夏日",
  "scenes": [
    {"id": "sc01", "time_range": "0-5", "shot_desc": "露珠滑过瓶身", "camera": "微距推近", "action": "气泡升腾", "mood": "清爽", "voiceover": "夏天，从一口气泡开始", "image_prompt_en": "macro shot of a chilled sparkling water bottle"},
    {"id": "sc02", "time_range": "5-15", "shot_desc": "草地上开瓶畅饮", "camera": "环绕运镜", "action": "举瓶畅饮", "mood": "活力", "voiceover": "", "image_prompt_en": "young woman drinking sparkling water on a sunny meadow"}
  ]
}`

func TestHealth(t *testing.T) {
	router := newTestRouter(&fakeModel{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestPresets(t *testing.T) {
	router := newTestRouter(&fakeModel{})

	w := doJSON(t, router, http.MethodGet, "/api/presets", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Characters []struct {
			Key  string `json:"key"`
			Name string `json:"name"`
		} `json:"characters"`
		Styles  []json.RawMessage `json:"styles"`
		Combos  []json.RawMessage `json:"combos"`
		Cameras []json.RawMessage `json:"cameras"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if len(resp.Characters) != 6 {
		t.Errorf("characters = %d, want 6", len(resp.Characters))
	}
	if len(resp.Styles) != 5 || len(resp.Combos) != 5 || len(resp.Cameras) != 3 {
		t.Errorf("styles/combos/cameras = %d/%d/%d, want 5/5/3", len(resp.Styles), len(resp.Combos), len(resp.Cameras))
	}
	if resp.Characters[0].Key != "female_cn_sanda" {
		t.Errorf("first character = %q", resp.Characters[0].Key)
	}
}

func TestFightSpecDefaults(t *testing.T) {
	router := newTestRouter(&fakeModel{})

	w := doJSON(t, router, http.MethodPost, "/api/fight/spec", "{}")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		RequestID string `json:"request_id"`
		Spec      struct {
			ClipConfig struct {
				DurationSec float64 `json:"duration_sec"`
				AspectRatio string  `json:"aspect_ratio"`
			} `json:"clip_config"`
			CameraPlan struct {
				Shots []struct {
					ShotID    string     `json:"shot_id"`
					TimeRange [2]float64 `json:"time_range"`
				} `json:"shots"`
			} `json:"camera_plan"`
		} `json:"spec"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if resp.RequestID == "" {
		t.Error("request_id is empty")
	}
	if resp.Spec.ClipConfig.DurationSec != 1.8 {
		t.Errorf("duration_sec = %v, want 1.8", resp.Spec.ClipConfig.DurationSec)
	}
	if resp.Spec.ClipConfig.AspectRatio != "9:16" {
		t.Errorf("aspect_ratio = %q", resp.Spec.ClipConfig.AspectRatio)
	}

	shots := resp.Spec.CameraPlan.Shots
	if len(shots) != 3 {
		t.Fatalf("shots = %d, want 3", len(shots))
	}
	if shots[0].TimeRange[0] != 0 || shots[2].TimeRange[1] != 1.8 {
		t.Errorf("shots do not span the clip: %v", shots)
	}
}

func TestFightSpecRejectsBadInput(t *testing.T) {
	router := newTestRouter(&fakeModel{})

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"unknown style", `{"style_key": "nope"}`, "unknown style preset"},
		{"unknown extra", `{"extra_key": "ghost"}`, "unknown character preset"},
		{"duration too long", `{"duration_sec": 9}`, "duration_sec"},
		{"not json", `{`, "invalid request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/api/fight/spec", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			if !strings.Contains(w.Body.String(), tt.wantErr) {
				t.Errorf("body %s does not mention %q", w.Body.String(), tt.wantErr)
			}
		})
	}
}

func TestFightGenerateSplitsReply(t *testing.T) {
	model := &fakeModel{reply: "A cinematic vertical clip.\n\n—— 中文时间轴分镜 ——\n【S01 | 0.0-0.5 秒】画面内容：出拳。"}
	router := newTestRouter(model)

	w := doJSON(t, router, http.MethodPost, "/api/fight/generate", `{"combo_key": "combo_block_cross"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		PromptEN    string `json:"prompt_en"`
		TimelineZH  string `json:"timeline_zh"`
		MarkerFound bool   `json:"marker_found"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if resp.PromptEN != "A cinematic vertical clip." {
		t.Errorf("prompt_en = %q", resp.PromptEN)
	}
	if !strings.HasPrefix(resp.TimelineZH, "【S01") {
		t.Errorf("timeline_zh = %q", resp.TimelineZH)
	}
	if !resp.MarkerFound {
		t.Error("marker_found = false")
	}

	if model.gotJSON {
		t.Error("clip generation must not force JSON output")
	}
	if !strings.Contains(model.gotPrompt, "spec_json") || !strings.Contains(model.gotPrompt, "combo_block_cross") {
		t.Error("prompt does not embed spec_json")
	}
}

func TestFightGenerateModelError(t *testing.T) {
	router := newTestRouter(&fakeModel{err: errors.New("boom")})

	w := doJSON(t, router, http.MethodPost, "/api/fight/generate", "{}")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
}

func TestAdStoryboard(t *testing.T) {
	model := &fakeModel{reply: sampleBoard}
	router := newTestRouter(model)

	w := doJSON(t, router, http.MethodPost, "/api/ad/storyboard", `{"brand": "山野", "product": "气泡水"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		RequestID  string `json:"request_id"`
		Storyboard struct {
			Brand       string `json:"brand"`
			DurationSec int    `json:"duration_sec"`
			Scenes      []struct {
				ID string `json:"id"`
			} `json:"scenes"`
		} `json:"storyboard"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if resp.Storyboard.Brand != "山野" || len(resp.Storyboard.Scenes) != 2 {
		t.Errorf("unexpected storyboard: %+v", resp.Storyboard)
	}
	if !model.gotJSON {
		t.Error("storyboard generation must request JSON output")
	}
	if !strings.Contains(model.gotPrompt, "duration_sec: 15") {
		t.Error("prompt does not apply the default duration")
	}
}

func TestAdStoryboardValidation(t *testing.T) {
	router := newTestRouter(&fakeModel{reply: sampleBoard})

	w := doJSON(t, router, http.MethodPost, "/api/ad/storyboard", `{"brand": "山野"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "product is required") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestAdStoryboardMalformedReply(t *testing.T) {
	router := newTestRouter(&fakeModel{reply: "sorry, no json today"})

	w := doJSON(t, router, http.MethodPost, "/api/ad/storyboard", `{"brand": "a", "product": "b"}`)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
	if !strings.Contains(w.Body.String(), "not a valid storyboard") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestAdStoryboardDownload(t *testing.T) {
	router := newTestRouter(&fakeModel{reply: sampleBoard})

	w := doJSON(t, router, http.MethodPost, "/api/ad/storyboard?download=1", `{"brand": "山野", "product": "气泡水"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Header().Get("Content-Disposition"); !strings.Contains(got, "storyboard.json") {
		t.Errorf("Content-Disposition = %q", got)
	}
	if !strings.Contains(w.Body.String(), "\n  \"brand\"") {
		t.Error("download body is not indented JSON")
	}
}

func TestAdScript(t *testing.T) {
	router := newTestRouter(&fakeModel{})

	w := doJSON(t, router, http.MethodPost, "/api/ad/script", sampleBoard)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q", ct)
	}

	want := "[sc01 | 0-5] 夏天，从一口气泡开始"
	if w.Body.String() != want {
		t.Errorf("script = %q, want %q", w.Body.String(), want)
	}
}

func TestAdScriptEmptyStoryboard(t *testing.T) {
	router := newTestRouter(&fakeModel{})

	w := doJSON(t, router, http.MethodPost, "/api/ad/script", `{"brand": "a", "scenes": []}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
