package llmtext

import (
	"encoding/json"
	"testing"
)

const timelineMarker = "—— 中文时间轴分镜 ——"

func TestSplitAtMarker(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		first  string
		second string
	}{
		{
			name:   "marker present",
			raw:    "A\n\n" + timelineMarker + "\nB",
			first:  "A",
			second: "B",
		},
		{
			name:   "marker absent",
			raw:    "only english text here",
			first:  "only english text here",
			second: "",
		},
		{
			name:   "marker first occurrence wins",
			raw:    "EN" + timelineMarker + "ZH1" + timelineMarker + "ZH2",
			first:  "EN",
			second: "ZH1" + timelineMarker + "ZH2",
		},
		{
			name:   "marker at start",
			raw:    timelineMarker + "\nonly timeline",
			first:  "",
			second: "only timeline",
		},
		{
			name:   "empty input",
			raw:    "",
			first:  "",
			second: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			first, second := SplitAtMarker(tc.raw, timelineMarker)
			if first != tc.first {
				t.Errorf("first = %q, want %q", first, tc.first)
			}
			if second != tc.second {
				t.Errorf("second = %q, want %q", second, tc.second)
			}
		})
	}
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"json fence", "```json\n{\"a\":1}\n```", "{\"a\":1}"},
		{"bare fence", "```\n{\"a\":1}\n```", "{\"a\":1}"},
		{"no fence", "  {\"a\":1}  ", "{\"a\":1}"},
		{"fence without newline", "```{\"a\":1}```", "{\"a\":1}"},
		{"unterminated fence", "```json\n{\"a\":1}", "{\"a\":1}"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := StripCodeFences(tc.in); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{
			name: "object with chatter around it",
			in:   "here's your json: {\"a\":1} thanks",
			want: "{\"a\":1}",
			ok:   true,
		},
		{
			name: "nested objects",
			in:   "note {\"a\":{\"b\":[1,2]},\"c\":\"x\"} end",
			want: "{\"a\":{\"b\":[1,2]},\"c\":\"x\"}",
			ok:   true,
		},
		{
			name: "braces inside string values",
			in:   "{\"text\":\"a { weird } value\"}",
			want: "{\"text\":\"a { weird } value\"}",
			ok:   true,
		},
		{
			name: "no braces",
			in:   "nothing to see",
			ok:   false,
		},
		{
			name: "close before open",
			in:   "} oops {",
			ok:   false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractJSONObject(tc.in)
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if !tc.ok {
				return
			}
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
			var v any
			if err := json.Unmarshal([]byte(got), &v); err != nil {
				t.Errorf("extracted slice does not parse: %v", err)
			}
		})
	}
}
