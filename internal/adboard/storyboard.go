// Package adboard implements the product-advertisement storyboard flow:
// free-text brand/product inputs compiled into a JSON-constrained prompt,
// and the model's reply parsed into a typed storyboard.
package adboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	DefaultDurationSec = 15
	DefaultStyle       = "清新现代，节奏明快，适合竖屏短视频投放"
)

type Request struct {
	Brand       string `json:"brand"`
	Product     string `json:"product"`
	DurationSec int    `json:"duration_sec"`
	Style       string `json:"style"`
}

// ApplyDefaults fills the optional fields the same way the HTTP endpoint
// documents them: 15 seconds and the stock style line.
func (r *Request) ApplyDefaults() {
	r.Brand = strings.TrimSpace(r.Brand)
	r.Product = strings.TrimSpace(r.Product)
	r.Style = strings.TrimSpace(r.Style)
	if r.DurationSec <= 0 {
		r.DurationSec = DefaultDurationSec
	}
	if r.Style == "" {
		r.Style = DefaultStyle
	}
}

func (r *Request) Validate() error {
	if r.Brand == "" {
		return errors.New("brand is required")
	}
	if r.Product == "" {
		return errors.New("product is required")
	}
	return nil
}

type Scene struct {
	ID            string `json:"id" jsonschema_description:"Scene identifier like sc01, sc02, in playback order"`
	TimeRange     string `json:"time_range" jsonschema_description:"Seconds within the ad as 'start-end', e.g. '0-3'; scenes must cover the full duration without gaps"`
	ShotDesc      string `json:"shot_desc" jsonschema_description:"What the frame shows, in Chinese"`
	Camera        string `json:"camera" jsonschema_description:"Camera position and movement, in Chinese"`
	Action        string `json:"action" jsonschema_description:"What happens inside the scene, in Chinese"`
	Mood          string `json:"mood" jsonschema_description:"Emotional tone of the scene, in Chinese"`
	Voiceover     string `json:"voiceover" jsonschema_description:"Voiceover line for this scene, in Chinese; empty string when the scene has no narration"`
	ImagePromptEN string `json:"image_prompt_en" jsonschema_description:"English image-generation prompt for the scene's key frame"`
}

type Storyboard struct {
	Brand       string  `json:"brand" jsonschema_description:"Brand name, copied from the request"`
	Product     string  `json:"product" jsonschema_description:"Product name, copied from the request"`
	DurationSec int     `json:"duration_sec" jsonschema_description:"Total ad duration in seconds"`
	Style       string  `json:"style" jsonschema_description:"Overall visual style in Chinese"`
	Scenes      []Scene `json:"scenes" jsonschema_description:"Ordered scene list partitioning the duration"`
}

// PrettyJSON renders the storyboard as the indented document offered for
// download.
func (s *Storyboard) PrettyJSON() (string, error) {
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal storyboard: %w", err)
	}
	return string(raw), nil
}

// VoiceoverScript derives the plain-text narration script: one line per
// scene in order, scenes without a voiceover skipped.
func (s *Storyboard) VoiceoverScript() string {
	var b strings.Builder
	for _, scene := range s.Scenes {
		line := strings.TrimSpace(scene.Voiceover)
		if line == "" {
			continue
		}
		fmt.Fprintf(&b, "[%s | %s] %s\n", scene.ID, scene.TimeRange, line)
	}
	return strings.TrimRight(b.String(), "\n")
}
