package fightclip

import (
	"encoding/json"
	"fmt"
)

const (
	aspectRatioVertical = "9:16"

	comboTempo     = "explosive_then_brief_pause"
	comboIntensity = "high"

	safetyConstraints = "no graphic gore, follow platform rules, respect the blood setting."

	timelineStep = 0.1
)

type SpecInput struct {
	DurationSec   float64
	StyleKey      string
	MainKey       string
	OpponentKey   string
	ExtraKey      string // "" or "none" when no third fighter
	ComboKey      string
	CameraKey     string
	EnergyLevel   string // "low" | "medium" | "high"
	ViolenceLevel string // "soft" | "moderate" | "hard"
	BloodLevel    string // "none" | "light" | "visible"

	IncludeMicroExpressions    bool
	IncludeBreathSweatFatigue  bool
	IncludeEnvironmentReaction bool
	IncludeCameraDetails       bool

	AudioHint string
}

type ClipConfig struct {
	DurationSec   float64  `json:"duration_sec"`
	AspectRatio   string   `json:"aspect_ratio"`
	StyleTags     []string `json:"style_tags"`
	EnergyLevel   string   `json:"energy_level"`
	ViolenceLevel string   `json:"violence_level"`
}

type CharacterEntry struct {
	ID                string `json:"id"`
	Role              string `json:"role"`
	NationalityStyle  string `json:"nationality_style"`
	VisualBrief       string `json:"visual_brief"`
	MotionPersonality string `json:"motion_personality"`
}

type CharactersBlock struct {
	Main     CharacterEntry   `json:"main"`
	Opponent CharacterEntry   `json:"opponent"`
	Extras   []CharacterEntry `json:"extras,omitempty"`
}

type ComboPlan struct {
	ComboID              string `json:"combo_id"`
	HighLevelDescription string `json:"high_level_description"`
	Tempo                string `json:"tempo"`
	Intensity            string `json:"intensity"`
}

type CameraPlan struct {
	OverallStyle string `json:"overall_style"`
	Shots        []Shot `json:"shots"`
}

type ExtraControls struct {
	IncludeMicroExpressions    bool   `json:"include_micro_expressions"`
	IncludeBreathSweatFatigue  bool   `json:"include_breath_sweat_fatigue"`
	IncludeEnvironmentReaction bool   `json:"include_environment_reaction"`
	IncludeCameraDetails       bool   `json:"include_camera_details"`
	Blood                      string `json:"blood"`
	AudioHint                  string `json:"audio_hint"`
	SafetyConstraints          string `json:"safety_constraints"`
}

type OutputPrefs struct {
	NeedEnglishVideoPrompt bool    `json:"need_english_video_prompt"`
	NeedChineseTimeline    bool    `json:"need_chinese_timeline"`
	TimelineStep           float64 `json:"timeline_step"`
}

// SceneSpecification is the complete structured description of one requested
// clip, assembled from catalog presets and handed whole to the prompt
// compiler and the model client.
type SceneSpecification struct {
	ClipConfig    ClipConfig      `json:"clip_config"`
	Characters    CharactersBlock `json:"characters"`
	ComboPlan     ComboPlan       `json:"combo_plan"`
	CameraPlan    CameraPlan      `json:"camera_plan"`
	ExtraControls ExtraControls   `json:"extra_controls"`
	OutputPrefs   OutputPrefs     `json:"output_prefs"`
}

// BuildSpec assembles a SceneSpecification from catalog keys and control
// flags. Pure function of its input and the static catalogs; any unknown
// preset key aborts with UnknownPresetError.
func BuildSpec(in SpecInput) (*SceneSpecification, error) {
	style, err := StyleByKey(in.StyleKey)
	if err != nil {
		return nil, err
	}
	mainChar, err := CharacterByKey(in.MainKey)
	if err != nil {
		return nil, err
	}
	oppChar, err := CharacterByKey(in.OpponentKey)
	if err != nil {
		return nil, err
	}
	combo, err := ComboByKey(in.ComboKey)
	if err != nil {
		return nil, err
	}
	camera, err := CameraByKey(in.CameraKey)
	if err != nil {
		return nil, err
	}

	spec := &SceneSpecification{
		ClipConfig: ClipConfig{
			DurationSec:   in.DurationSec,
			AspectRatio:   aspectRatioVertical,
			StyleTags:     style.StyleTags,
			EnergyLevel:   in.EnergyLevel,
			ViolenceLevel: in.ViolenceLevel,
		},
		Characters: CharactersBlock{
			Main:     characterEntry("main_fighter", mainChar),
			Opponent: characterEntry("opponent_fighter", oppChar),
		},
		ComboPlan: ComboPlan{
			ComboID:              combo.Key,
			HighLevelDescription: combo.Description,
			Tempo:                comboTempo,
			Intensity:            comboIntensity,
		},
		CameraPlan: CameraPlan{
			OverallStyle: camera.Label,
			Shots:        BuildCameraShots(camera.ShotTemplate, in.DurationSec),
		},
		ExtraControls: ExtraControls{
			IncludeMicroExpressions:    in.IncludeMicroExpressions,
			IncludeBreathSweatFatigue:  in.IncludeBreathSweatFatigue,
			IncludeEnvironmentReaction: in.IncludeEnvironmentReaction,
			IncludeCameraDetails:       in.IncludeCameraDetails,
			Blood:                      in.BloodLevel,
			AudioHint:                  in.AudioHint,
			SafetyConstraints:          safetyConstraints,
		},
		OutputPrefs: OutputPrefs{
			NeedEnglishVideoPrompt: true,
			NeedChineseTimeline:    true,
			TimelineStep:           timelineStep,
		},
	}

	if in.ExtraKey != "" && in.ExtraKey != "none" {
		extraChar, err := CharacterByKey(in.ExtraKey)
		if err != nil {
			return nil, err
		}
		spec.Characters.Extras = []CharacterEntry{characterEntry("extra_fighter_1", extraChar)}
	}

	return spec, nil
}

// PrettyJSON renders the specification as the indented JSON document that is
// embedded into prompts and offered for download.
func (s *SceneSpecification) PrettyJSON() (string, error) {
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal scene specification: %w", err)
	}
	return string(raw), nil
}

func characterEntry(id string, c CharacterPreset) CharacterEntry {
	return CharacterEntry{
		ID:                id,
		Role:              c.Role,
		NationalityStyle:  c.NationalityStyle,
		VisualBrief:       c.VisualBrief,
		MotionPersonality: c.MotionPersonality,
	}
}
