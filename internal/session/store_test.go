package session

import "testing"

func TestStoreFightRoundTrip(t *testing.T) {
	s := NewStore()

	if _, ok := s.Fight(7); ok {
		t.Fatal("expected no result before SetFight")
	}

	s.SetFight(7, "tester", FightResult{SpecJSON: `{"clip_config":{}}`, PromptEN: "prompt", TimelineZH: "timeline"})

	got, ok := s.Fight(7)
	if !ok {
		t.Fatal("expected stored result")
	}
	if got.SpecJSON != `{"clip_config":{}}` || got.PromptEN != "prompt" || got.TimelineZH != "timeline" {
		t.Fatalf("unexpected result: %+v", got)
	}
	if got.GeneratedAt.IsZero() {
		t.Fatal("GeneratedAt not set")
	}
}

func TestStoreAdOverwrite(t *testing.T) {
	s := NewStore()

	s.SetAd(1, "", AdResult{Brand: "first", StoryboardJSON: "{}"})
	s.SetAd(1, "", AdResult{Brand: "second", StoryboardJSON: "{}"})

	got, ok := s.Ad(1)
	if !ok {
		t.Fatal("expected stored result")
	}
	if got.Brand != "second" {
		t.Fatalf("Brand = %q, want %q", got.Brand, "second")
	}
}

func TestStoreClear(t *testing.T) {
	s := NewStore()

	s.SetFight(2, "a", FightResult{SpecJSON: "{}"})
	s.SetAd(2, "a", AdResult{StoryboardJSON: "{}"})
	s.Clear(2)

	if _, ok := s.Fight(2); ok {
		t.Fatal("fight result survived Clear")
	}
	if _, ok := s.Ad(2); ok {
		t.Fatal("ad result survived Clear")
	}
}

func TestStoreIsolatesUsers(t *testing.T) {
	s := NewStore()

	s.SetFight(1, "a", FightResult{SpecJSON: "one"})
	s.SetFight(2, "b", FightResult{SpecJSON: "two"})

	got, _ := s.Fight(1)
	if got.SpecJSON != "one" {
		t.Fatalf("user 1 got %q", got.SpecJSON)
	}
	got, _ = s.Fight(2)
	if got.SpecJSON != "two" {
		t.Fatalf("user 2 got %q", got.SpecJSON)
	}
}
