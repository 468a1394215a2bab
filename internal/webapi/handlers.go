package webapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shot-factory-ai-bot/internal/adboard"
	"shot-factory-ai-bot/internal/fightclip"
	"shot-factory-ai-bot/internal/llmtext"
)

// fightRequest overlays the caller's choices onto the default clip
// configuration; absent fields keep their defaults, absent toggles stay on.
type fightRequest struct {
	DurationSec   float64 `json:"duration_sec"`
	StyleKey      string  `json:"style_key"`
	MainKey       string  `json:"main_key"`
	OpponentKey   string  `json:"opponent_key"`
	ExtraKey      string  `json:"extra_key"`
	ComboKey      string  `json:"combo_key"`
	CameraKey     string  `json:"camera_key"`
	EnergyLevel   string  `json:"energy_level"`
	ViolenceLevel string  `json:"violence_level"`
	BloodLevel    string  `json:"blood_level"`

	IncludeMicroExpressions    *bool `json:"include_micro_expressions"`
	IncludeBreathSweatFatigue  *bool `json:"include_breath_sweat_fatigue"`
	IncludeEnvironmentReaction *bool `json:"include_environment_reaction"`
	IncludeCameraDetails       *bool `json:"include_camera_details"`

	AudioHint string `json:"audio_hint"`
}

func (r fightRequest) specInput() (fightclip.SpecInput, error) {
	st := fightclip.DefaultState()

	if r.StyleKey != "" {
		st.StyleKey = r.StyleKey
	}
	if r.MainKey != "" {
		st.MainKey = r.MainKey
	}
	if r.OpponentKey != "" {
		st.OpponentKey = r.OpponentKey
	}
	if r.ExtraKey != "" {
		st.ExtraKey = r.ExtraKey
	}
	if r.ComboKey != "" {
		st.ApplyCombo(r.ComboKey)
	}
	if r.CameraKey != "" {
		st.CameraKey = r.CameraKey
	}
	if r.DurationSec != 0 {
		if r.DurationSec < fightclip.DurationMin || r.DurationSec > fightclip.DurationMax {
			return fightclip.SpecInput{}, fmt.Errorf("duration_sec must be between %.1f and %.1f",
				fightclip.DurationMin, fightclip.DurationMax)
		}
		st.DurationSec = r.DurationSec
	}
	if r.EnergyLevel != "" {
		st.EnergyLevel = r.EnergyLevel
	}
	if r.ViolenceLevel != "" {
		st.ViolenceLevel = r.ViolenceLevel
	}
	if r.BloodLevel != "" {
		st.BloodLevel = r.BloodLevel
	}
	if r.IncludeMicroExpressions != nil {
		st.IncludeMicroExpressions = *r.IncludeMicroExpressions
	}
	if r.IncludeBreathSweatFatigue != nil {
		st.IncludeBreathSweatFatigue = *r.IncludeBreathSweatFatigue
	}
	if r.IncludeEnvironmentReaction != nil {
		st.IncludeEnvironmentReaction = *r.IncludeEnvironmentReaction
	}
	if r.IncludeCameraDetails != nil {
		st.IncludeCameraDetails = *r.IncludeCameraDetails
	}
	if r.AudioHint != "" {
		st.AudioHint = r.AudioHint
	}

	return st.SpecInput(), nil
}

func (s *Server) handlePresets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"characters": fightclip.CharacterOptions(),
		"styles":     fightclip.StyleOptions(),
		"combos":     fightclip.ComboOptions(),
		"cameras":    fightclip.CameraOptions(),
	})
}

func (s *Server) handleFightSpec(c *gin.Context) {
	spec, ok := s.buildSpec(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"request_id": uuid.New().String(),
		"spec":       spec,
	})
}

func (s *Server) handleFightGenerate(c *gin.Context) {
	spec, ok := s.buildSpec(c)
	if !ok {
		return
	}

	prompt, err := fightclip.CompilePrompt(spec)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	requestID := uuid.New().String()
	s.logger.Info("fight generate", "request_id", requestID, "duration_sec", spec.ClipConfig.DurationSec)

	reply, err := s.model.Generate(c.Request.Context(), prompt, false)
	if err != nil {
		s.logger.Error("clip generation failed", "request_id", requestID, "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "generation failed: " + err.Error()})
		return
	}

	promptEN, timelineZH := llmtext.SplitAtMarker(reply, fightclip.TimelineMarker)

	c.JSON(http.StatusOK, gin.H{
		"request_id":   requestID,
		"spec":         spec,
		"prompt_en":    promptEN,
		"timeline_zh":  timelineZH,
		"marker_found": timelineZH != "",
	})
}

func (s *Server) buildSpec(c *gin.Context) (*fightclip.SceneSpecification, bool) {
	var req fightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return nil, false
	}

	in, err := req.specInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	spec, err := fightclip.BuildSpec(in)
	if err != nil {
		var unknown *fightclip.UnknownPresetError
		if errors.As(err, &unknown) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}

	return spec, true
}

func (s *Server) handleAdStoryboard(c *gin.Context) {
	var req adboard.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	req.ApplyDefaults()
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prompt, err := adboard.CompilePrompt(req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	requestID := uuid.New().String()
	s.logger.Info("ad storyboard", "request_id", requestID, "brand", req.Brand, "product", req.Product)

	raw, err := s.model.Generate(c.Request.Context(), prompt, true)
	if err != nil {
		s.logger.Error("ad generation failed", "request_id", requestID, "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "generation failed: " + err.Error()})
		return
	}

	board, err := adboard.ParseStoryboard(raw)
	if err != nil {
		s.logger.Error("ad reply is not a storyboard", "request_id", requestID, "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "model reply was not a valid storyboard"})
		return
	}

	if c.Query("download") == "1" {
		pretty, err := board.PrettyJSON()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=storyboard.json")
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(pretty))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"request_id": requestID,
		"storyboard": board,
	})
}

func (s *Server) handleAdScript(c *gin.Context) {
	var board adboard.Storyboard
	if err := c.ShouldBindJSON(&board); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	if len(board.Scenes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "storyboard has no scenes"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=voiceover_script.txt")
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(board.VoiceoverScript()))
}
