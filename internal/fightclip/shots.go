package fightclip

import (
	"fmt"
	"math"
)

type Shot struct {
	ShotID    string     `json:"shot_id"`
	TimeRange [2]float64 `json:"time_range"`
	Brief     string     `json:"brief"`
	Priority  string     `json:"priority"`
}

type shotSegment struct {
	Brief    string
	Priority string
}

type shotLayout struct {
	// Fractions of the total duration at which the clip is cut.
	// len(Breaks)+1 segments cover [0, duration].
	Breaks   []float64
	Segments []shotSegment
}

var shotLayouts = map[string]shotLayout{
	"jab_cross_lowkick": {
		Breaks: []float64{0.3, 0.8},
		Segments: []shotSegment{
			{
				Brief:    "tight medium handheld shot framing both fighters from the waist up as she throws the jab and cross, camera slightly below eye level",
				Priority: "show_face_and_gloves_impact",
			},
			{
				Brief:    "low tracking shot near the floor that follows the arc of her right shin slamming into his thigh, emphasizing muscle vibration and his leg buckling",
				Priority: "show_kick_power_and_leg_reaction",
			},
			{
				Brief:    "medium shot pulling back slightly to show him stumbling sideways, catching his balance and revealing more of the environment",
				Priority: "show_overall_reaction_and_space",
			},
		},
	},
	"wide_focus": {
		Breaks: []float64{0.25, 0.7},
		Segments: []shotSegment{
			{
				Brief:    "wide establishing shot showing the whole space and both fighters circling each other",
				Priority: "show_environment_and_positions",
			},
			{
				Brief:    "medium shot focusing on the main fighter as she lands the key strikes",
				Priority: "show_main_actions",
			},
			{
				Brief:    "wide or medium-wide shot showing the aftermath and how both fighters are positioned after the exchange",
				Priority: "show_aftermath",
			},
		},
	},
	"street_brawl_3p": {
		Breaks: []float64{0.3, 0.75},
		Segments: []shotSegment{
			{
				Brief:    "wide shot in a dimly lit parking lot at night, showing the main fighter facing two attackers, wet pavement reflecting neon lights",
				Priority: "show_three_characters_and_environment",
			},
			{
				Brief:    "chaotic handheld medium shot that stays close as she elbows the attacker on the left and front-kicks the one on the right, camera reacting to each hit",
				Priority: "show_elbow_and_front_kick_impacts",
			},
			{
				Brief:    "medium-wide shot as she grabs one attacker and shoves him hard into a parked car, the car shakes and the other attacker recovers in the background",
				Priority: "show_shove_and_environment_reaction",
			},
		},
	},
}

// BuildCameraShots cuts [0, durationSec] into the contiguous time windows of
// the named layout, rounded to two decimals. Unknown layout names produce a
// single continuous shot over the whole duration. Duration validation is the
// caller's job; a non-positive duration yields degenerate ranges.
func BuildCameraShots(template string, durationSec float64) []Shot {
	layout, ok := shotLayouts[template]
	if !ok {
		return []Shot{
			{
				ShotID:    "S01",
				TimeRange: [2]float64{0, round2(durationSec)},
				Brief:     "single continuous medium shot showing the whole exchange",
				Priority:  "show_whole_action",
			},
		}
	}

	bounds := make([]float64, 0, len(layout.Breaks)+2)
	bounds = append(bounds, 0)
	for _, f := range layout.Breaks {
		bounds = append(bounds, round2(durationSec*f))
	}
	bounds = append(bounds, round2(durationSec))

	out := make([]Shot, 0, len(layout.Segments))
	for i, seg := range layout.Segments {
		out = append(out, Shot{
			ShotID:    fmt.Sprintf("S%02d", i+1),
			TimeRange: [2]float64{bounds[i], bounds[i+1]},
			Brief:     seg.Brief,
			Priority:  seg.Priority,
		})
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
