package fightclip

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func validInput() SpecInput {
	return SpecInput{
		DurationSec:                1.8,
		StyleKey:                   "cn_modern_sanda_gym",
		MainKey:                    "female_cn_sanda",
		OpponentKey:                "male_us_mma",
		ExtraKey:                   "none",
		ComboKey:                   "combo_jab_cross_lowkick",
		CameraKey:                  "dynamic_close",
		EnergyLevel:                "high",
		ViolenceLevel:              "moderate",
		BloodLevel:                 "none",
		IncludeMicroExpressions:    true,
		IncludeBreathSweatFatigue:  true,
		IncludeEnvironmentReaction: true,
		IncludeCameraDetails:       true,
		AudioHint:                  DefaultAudioHint,
	}
}

func TestBuildSpecRoundTrip(t *testing.T) {
	spec, err := BuildSpec(validInput())
	if err != nil {
		t.Fatalf("BuildSpec: %v", err)
	}

	if spec.Characters.Main.ID != "main_fighter" || spec.Characters.Opponent.ID != "opponent_fighter" {
		t.Errorf("character ids = %q / %q", spec.Characters.Main.ID, spec.Characters.Opponent.ID)
	}
	if got, want := spec.Characters.Main.VisualBrief, characters["female_cn_sanda"].VisualBrief; got != want {
		t.Errorf("main visual brief = %q, want catalog entry %q", got, want)
	}
	if got, want := spec.Characters.Opponent.VisualBrief, characters["male_us_mma"].VisualBrief; got != want {
		t.Errorf("opponent visual brief = %q, want catalog entry %q", got, want)
	}
	if got, want := spec.ComboPlan.HighLevelDescription, combos["combo_jab_cross_lowkick"].Description; got != want {
		t.Errorf("combo description = %q, want %q", got, want)
	}
	if spec.ClipConfig.AspectRatio != "9:16" {
		t.Errorf("aspect ratio = %q, want 9:16", spec.ClipConfig.AspectRatio)
	}
	if len(spec.Characters.Extras) != 0 {
		t.Errorf("extras = %v, want none", spec.Characters.Extras)
	}

	shots := spec.CameraPlan.Shots
	if len(shots) == 0 {
		t.Fatal("no shots in camera plan")
	}
	if end := shots[len(shots)-1].TimeRange[1]; math.Abs(end-spec.ClipConfig.DurationSec) > 0.01 {
		t.Errorf("final shot end %v != duration %v", end, spec.ClipConfig.DurationSec)
	}
	seen := map[string]bool{}
	for i, s := range shots {
		if seen[s.ShotID] {
			t.Errorf("duplicate shot id %q", s.ShotID)
		}
		seen[s.ShotID] = true
		if i > 0 && shots[i-1].TimeRange[0] >= s.TimeRange[0] {
			t.Errorf("shot order broken at %d", i)
		}
	}
}

func TestBuildSpecUnknownKeys(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SpecInput)
		kind   string
	}{
		{"style", func(in *SpecInput) { in.StyleKey = "nope" }, "style"},
		{"main", func(in *SpecInput) { in.MainKey = "nope" }, "character"},
		{"opponent", func(in *SpecInput) { in.OpponentKey = "nope" }, "character"},
		{"combo", func(in *SpecInput) { in.ComboKey = "nope" }, "combo"},
		{"camera", func(in *SpecInput) { in.CameraKey = "nope" }, "camera"},
		{"extra", func(in *SpecInput) { in.ExtraKey = "nope" }, "character"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)

			_, err := BuildSpec(in)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var upe *UnknownPresetError
			if !errors.As(err, &upe) {
				t.Fatalf("error %v is not UnknownPresetError", err)
			}
			if upe.Kind != tc.kind {
				t.Errorf("kind = %q, want %q", upe.Kind, tc.kind)
			}
			if upe.Key != "nope" {
				t.Errorf("key = %q, want nope", upe.Key)
			}
		})
	}
}

func TestBuildSpecExtraFighter(t *testing.T) {
	in := validInput()
	in.ExtraKey = "male_cn_street_big"

	spec, err := BuildSpec(in)
	if err != nil {
		t.Fatalf("BuildSpec: %v", err)
	}
	if len(spec.Characters.Extras) != 1 {
		t.Fatalf("extras count = %d, want 1", len(spec.Characters.Extras))
	}
	extra := spec.Characters.Extras[0]
	if extra.ID != "extra_fighter_1" {
		t.Errorf("extra id = %q, want extra_fighter_1", extra.ID)
	}
	if extra.VisualBrief != characters["male_cn_street_big"].VisualBrief {
		t.Errorf("extra visual brief = %q", extra.VisualBrief)
	}
}

func TestSceneSpecificationJSONKeys(t *testing.T) {
	spec, err := BuildSpec(validInput())
	if err != nil {
		t.Fatalf("BuildSpec: %v", err)
	}
	pretty, err := spec.PrettyJSON()
	if err != nil {
		t.Fatalf("PrettyJSON: %v", err)
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal([]byte(pretty), &m); err != nil {
		t.Fatalf("unmarshal pretty json: %v", err)
	}
	for _, key := range []string{"clip_config", "characters", "combo_plan", "camera_plan", "extra_controls", "output_prefs"} {
		if _, ok := m[key]; !ok {
			t.Errorf("missing top-level key %q", key)
		}
	}
}
