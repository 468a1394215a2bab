package fightclip

import "strings"

// TimelineMarker is the literal separator line the model is instructed to
// print between the English video prompt and the Chinese storyboard. The
// reply splitter cuts at its first occurrence.
const TimelineMarker = "—— 中文时间轴分镜 ——"

// CompilePrompt renders one self-contained instruction string for the text
// model: fixed role text, the full specification embedded as JSON so every
// field grounds the answer, and the exact two-section output contract.
func CompilePrompt(spec *SceneSpecification) (string, error) {
	specJSON, err := spec.PrettyJSON()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(4096)

	b.WriteString("You are a professional action film storyboard artist and AI video prompt writer.\n")
	b.WriteString("\n")
	b.WriteString("Goal:\n")
	b.WriteString("- Use models like Sora / Veo / Runway to generate a " + spec.ClipConfig.AspectRatio + " vertical action clip.\n")
	b.WriteString("\n")
	b.WriteString("You will receive a JSON object named spec_json with:\n")
	b.WriteString("- clip_config: duration, aspect ratio, global style tags\n")
	b.WriteString("- characters: main character, opponent, and optional extras (e.g., 3-person street brawl)\n")
	b.WriteString("- combo_plan: a brief description of the martial arts combo (DO NOT change the order of moves)\n")
	b.WriteString("- camera_plan: shot and camera intentions (time ranges and priorities)\n")
	b.WriteString("- extra_controls: flags for micro expressions, environment reaction, blood level, safety, etc.\n")
	b.WriteString("- output_prefs: which outputs are requested\n")
	b.WriteString("\n")
	b.WriteString("Your tasks:\n")
	b.WriteString("1) Based on spec_json, write ONE English video prompt for an AI video model.\n")
	b.WriteString("   - Target models like Sora / Veo / Runway.\n")
	b.WriteString("   - Must include scene and world, character appearance and clothing, continuous action, physical reactions,\n")
	b.WriteString("     camera language for each shot, and reasonable environment reaction respecting extra_controls.\n")
	b.WriteString("   - Be concrete and precise. Avoid empty adjectives like 'awesome, cool, epic'.\n")
	b.WriteString("   - Obey safety_constraints. For example, if blood = 'none', do NOT describe visible blood or gore.\n")
	b.WriteString("\n")
	b.WriteString("2) Then, write a Chinese timeline storyboard (中文时间轴分镜脚本):\n")
	b.WriteString("   - For each shot in camera_plan, output a block like:\n")
	b.WriteString("     【S01 | 0.0-0.5 秒】\\n画面内容：...\\n人物动作：...\\n被打反应：...\\n机位与运镜：...\\n环境与细节：...\n")
	b.WriteString("   - Cover every shot from camera_plan, you may slightly refine details.\n")
	b.WriteString("   - If extras exist (e.g., third fighter in a street brawl), clarify who is doing what.\n")
	b.WriteString("   - Keep continuity: same people, clothes, and damage state should stay consistent.\n")
	b.WriteString("\n")
	b.WriteString("3) Output format:\n")
	b.WriteString("   - First, output the English video prompt (one or more paragraphs).\n")
	b.WriteString("   - Then a blank line.\n")
	b.WriteString("   - Then output a line: '" + TimelineMarker + "'.\n")
	b.WriteString("   - Then output the Chinese storyboard.\n")
	b.WriteString("   - Do NOT output JSON and do NOT explain your reasoning.\n")
	b.WriteString("\n")

	b.WriteString("下面是本次视频片段的结构化规格说明 spec_json：\n\n")
	b.WriteString("```json\n")
	b.WriteString(specJSON)
	b.WriteString("\n```\n\n")

	if spec.ExtraControls.Blood == "none" {
		b.WriteString("Safety reminder: blood = \"none\", do NOT describe visible blood, open wounds or gore anywhere in either output section.\n\n")
	}

	b.WriteString("请严格按照上述 System 说明，先输出英文视频提示词，再输出中文时间轴分镜脚本。")

	return b.String(), nil
}
