package fightclip

import (
	"math"
	"sync"
	"time"
)

const (
	DurationMin  = 0.8
	DurationMax  = 6.0
	DurationStep = 0.1

	DefaultAudioHint = "short sharp impact sounds, ambient noise, do not overdescribe music"
)

type UIState struct {
	StyleKey    string
	MainKey     string
	OpponentKey string
	ExtraKey    string // "none" when no third fighter
	ComboKey    string
	CameraKey   string

	DurationSec     float64
	DurationTouched bool // once the user steps the slider it no longer follows the combo default

	EnergyLevel   string
	ViolenceLevel string
	BloodLevel    string

	IncludeMicroExpressions    bool
	IncludeBreathSweatFatigue  bool
	IncludeEnvironmentReaction bool
	IncludeCameraDetails       bool

	AudioHint         string
	AwaitingAudioHint bool

	Menu      string // "main" | "style" | "fighter_main" | "fighter_opp" | "fighter_extra" | "combo" | "camera" | "levels" | "details"
	MessageID int

	UpdatedAt time.Time
}

func (s *UIState) ApplyCombo(key string) {
	s.ComboKey = key
	if s.DurationTouched {
		return
	}
	if c, err := ComboByKey(key); err == nil {
		s.DurationSec = clampDuration(c.DefaultDuration)
	}
}

func (s *UIState) StepDuration(delta float64) {
	s.DurationSec = clampDuration(s.DurationSec + delta)
	s.DurationTouched = true
}

func (s *UIState) normalize() {
	s.DurationSec = clampDuration(s.DurationSec)
	if s.ExtraKey == "" {
		s.ExtraKey = "none"
	}
}

func (s UIState) SpecInput() SpecInput {
	return SpecInput{
		DurationSec:                s.DurationSec,
		StyleKey:                   s.StyleKey,
		MainKey:                    s.MainKey,
		OpponentKey:                s.OpponentKey,
		ExtraKey:                   s.ExtraKey,
		ComboKey:                   s.ComboKey,
		CameraKey:                  s.CameraKey,
		EnergyLevel:                s.EnergyLevel,
		ViolenceLevel:              s.ViolenceLevel,
		BloodLevel:                 s.BloodLevel,
		IncludeMicroExpressions:    s.IncludeMicroExpressions,
		IncludeBreathSweatFatigue:  s.IncludeBreathSweatFatigue,
		IncludeEnvironmentReaction: s.IncludeEnvironmentReaction,
		IncludeCameraDetails:       s.IncludeCameraDetails,
		AudioHint:                  s.AudioHint,
	}
}

type Store struct {
	mu sync.Mutex
	m  map[stateKey]*UIState
}

type stateKey struct {
	ChatID int64
	UserID int64
}

func NewStore() *Store {
	return &Store{m: make(map[stateKey]*UIState)}
}

func (s *Store) Get(chatID, userID int64) UIState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.getOrCreateLocked(chatID, userID)
	st.normalize()
	return *st
}

func (s *Store) Update(chatID, userID int64, fn func(*UIState)) UIState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.getOrCreateLocked(chatID, userID)
	if fn != nil {
		fn(st)
	}
	st.normalize()
	st.UpdatedAt = time.Now()
	return *st
}

func (s *Store) Reset(chatID, userID int64) UIState {
	return s.Update(chatID, userID, func(st *UIState) {
		*st = DefaultState()
	})
}

func (s *Store) getOrCreateLocked(chatID, userID int64) *UIState {
	key := stateKey{ChatID: chatID, UserID: userID}
	if st, ok := s.m[key]; ok {
		return st
	}
	st := DefaultState()
	s.m[key] = &st
	return s.m[key]
}

// DefaultState mirrors the control defaults of the original clip tool: sanda
// gym duel, jab-cross-lowkick combo, every realism toggle on.
func DefaultState() UIState {
	return UIState{
		StyleKey:                   "cn_modern_sanda_gym",
		MainKey:                    "female_cn_sanda",
		OpponentKey:                "male_us_mma",
		ExtraKey:                   "none",
		ComboKey:                   "combo_jab_cross_lowkick",
		CameraKey:                  "dynamic_close",
		DurationSec:                combos["combo_jab_cross_lowkick"].DefaultDuration,
		EnergyLevel:                "high",
		ViolenceLevel:              "moderate",
		BloodLevel:                 "none",
		IncludeMicroExpressions:    true,
		IncludeBreathSweatFatigue:  true,
		IncludeEnvironmentReaction: true,
		IncludeCameraDetails:       true,
		AudioHint:                  DefaultAudioHint,
		Menu:                       "main",
		UpdatedAt:                  time.Now(),
	}
}

func clampDuration(v float64) float64 {
	v = math.Round(v*10) / 10
	if v < DurationMin {
		return DurationMin
	}
	if v > DurationMax {
		return DurationMax
	}
	return v
}
