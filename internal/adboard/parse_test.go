package adboard

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleStoryboardJSON = `{
  "brand": "清风",
  "product": "气泡水",
  "duration_sec": 15,
  "style": "清新明亮",
  "scenes": [
    {
      "id": "sc01",
      "time_range": "0-5",
      "shot_desc": "冰块落入气泡水",
      "camera": "微距俯拍",
      "action": "气泡升腾",
      "mood": "清爽",
      "voiceover": "一口清爽",
      "image_prompt_en": "macro shot of sparkling water with ice cubes"
    },
    {
      "id": "sc02",
      "time_range": "5-15",
      "shot_desc": "女孩举杯",
      "camera": "中景跟拍",
      "action": "她喝了一口并微笑",
      "mood": "愉悦",
      "voiceover": "",
      "image_prompt_en": "young woman smiling with a glass of sparkling water"
    }
  ]
}`

func TestParseStoryboardDirect(t *testing.T) {
	sb, err := ParseStoryboard(sampleStoryboardJSON)
	require.NoError(t, err)
	assert.Equal(t, "清风", sb.Brand)
	assert.Equal(t, 15, sb.DurationSec)
	require.Len(t, sb.Scenes, 2)
	assert.Equal(t, "sc01", sb.Scenes[0].ID)
	assert.Equal(t, "0-5", sb.Scenes[0].TimeRange)
	assert.Equal(t, "macro shot of sparkling water with ice cubes", sb.Scenes[0].ImagePromptEN)
}

func TestParseStoryboardFenced(t *testing.T) {
	sb, err := ParseStoryboard("```json\n" + sampleStoryboardJSON + "\n```")
	require.NoError(t, err)
	assert.Len(t, sb.Scenes, 2)
}

func TestParseStoryboardScraped(t *testing.T) {
	raw := "Sure! Here is your storyboard:\n" + sampleStoryboardJSON + "\nHope it helps!"
	sb, err := ParseStoryboard(raw)
	require.NoError(t, err, "scrape fallback should recover the object")
	assert.Equal(t, "气泡水", sb.Product)
}

func TestParseStoryboardMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no braces at all", "I could not produce the storyboard, sorry."},
		{"valid json wrong shape", `{"a": 1}`},
		{"broken json inside braces", "{ this is not json }"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseStoryboard(tc.raw)
			require.Error(t, err)

			var malformed *MalformedReplyError
			require.True(t, errors.As(err, &malformed), "error %v is not MalformedReplyError", err)
			assert.Equal(t, tc.raw, malformed.Raw, "original text must be carried for diagnosis")
		})
	}
}
