package adboard

import (
	"encoding/json"
	"fmt"

	"shot-factory-ai-bot/internal/llmtext"
)

// MalformedReplyError means the model reply could not be turned into a
// storyboard even after scraping. Raw keeps the full original text so a
// human can see what the model actually said.
type MalformedReplyError struct {
	Raw string
}

func (e *MalformedReplyError) Error() string {
	return fmt.Sprintf("storyboard reply is not valid JSON: %.120s", e.Raw)
}

// ParseStoryboard buffers the whole reply and parses it strictly first.
// When the model wrapped the object in fences or chatter, the first-'{' to
// last-'}' scrape is tried once. Anything else fails with the raw text
// attached.
func ParseStoryboard(raw string) (*Storyboard, error) {
	cleaned := llmtext.StripCodeFences(raw)

	if sb, ok := tryParse(cleaned); ok {
		return sb, nil
	}
	if slice, ok := llmtext.ExtractJSONObject(cleaned); ok {
		if sb, ok := tryParse(slice); ok {
			return sb, nil
		}
	}
	return nil, &MalformedReplyError{Raw: raw}
}

func tryParse(s string) (*Storyboard, bool) {
	var sb Storyboard
	if err := json.Unmarshal([]byte(s), &sb); err != nil {
		return nil, false
	}
	if len(sb.Scenes) == 0 {
		return nil, false
	}
	return &sb, true
}
