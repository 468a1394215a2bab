package adboard

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
)

// generateSchema reflects T into a self-contained JSON schema. Inlined
// definitions and closed objects keep the instruction text unambiguous for
// the model.
func generateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

func schemaText[T any]() (string, error) {
	raw, err := json.Marshal(generateSchema[T]())
	if err != nil {
		return "", fmt.Errorf("marshal schema: %w", err)
	}
	return string(raw), nil
}

// scenesFor is the scene-count guidance handed to the model: roughly one
// scene per three seconds, never fewer than 3 or more than 8.
func scenesFor(durationSec int) int {
	n := (durationSec + 1) / 3
	if n < 3 {
		n = 3
	}
	if n > 8 {
		n = 8
	}
	return n
}

// CompilePrompt renders the advertisement instruction: role, the request
// fields verbatim, and the exact output schema inline so the reply parser
// and the instruction can never drift apart.
func CompilePrompt(req Request) (string, error) {
	schema, err := schemaText[Storyboard]()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(4096)

	b.WriteString("You are a senior short-video advertisement director and storyboard writer.\n")
	b.WriteString("\n")
	b.WriteString("Goal:\n")
	b.WriteString("- Design a vertical short-video ad storyboard that sells the product below.\n")
	b.WriteString("\n")
	b.WriteString("本次广告的基础信息：\n")
	b.WriteString("- 品牌 brand: " + req.Brand + "\n")
	b.WriteString("- 产品 product: " + req.Product + "\n")
	b.WriteString(fmt.Sprintf("- 总时长 duration_sec: %d\n", req.DurationSec))
	b.WriteString("- 风格 style: " + req.Style + "\n")
	b.WriteString("\n")
	b.WriteString("Requirements:\n")
	b.WriteString(fmt.Sprintf("- Produce about %d scenes whose time_range values partition 0-%d seconds in order, no gaps, no overlaps.\n", scenesFor(req.DurationSec), req.DurationSec))
	b.WriteString("- Write shot_desc, camera, action, mood and voiceover in Chinese; keep voiceover lines short and spoken-style.\n")
	b.WriteString("- image_prompt_en MUST be English: a concrete, photographic prompt for the scene's key frame.\n")
	b.WriteString("- Echo brand, product, duration_sec and style back into the JSON unchanged.\n")
	b.WriteString("- A scene without narration uses an empty string voiceover, not a missing field.\n")
	b.WriteString("\n")
	b.WriteString("Output format:\n")
	b.WriteString("- Reply with EXACTLY ONE JSON object matching this schema. No markdown fences, no commentary, nothing before or after the object.\n")
	b.WriteString("\n")
	b.WriteString(schema)

	return b.String(), nil
}
