package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"shot-factory-ai-bot/internal/fightclip"
	"shot-factory-ai-bot/internal/llmtext"
	"shot-factory-ai-bot/internal/session"
)

const fightCallbackPrefix = "fc"

func (h *Handler) startFightWizard(chatID int64, userID int64) error {
	st := h.clips.Update(chatID, userID, func(st *fightclip.UIState) {
		st.AwaitingAudioHint = false
		st.Menu = "main"
	})

	msgID, err := h.tg.SendTextWithKeyboard(chatID, fightUIText(st), fightUIKeyboard(userID, st))
	if err != nil {
		return err
	}
	h.clips.Update(chatID, userID, func(st *fightclip.UIState) { st.MessageID = msgID })
	return nil
}

func (h *Handler) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) error {
	if q == nil || q.Message == nil {
		return nil
	}
	data := strings.TrimSpace(q.Data)
	if !strings.HasPrefix(data, fightCallbackPrefix+":") {
		return nil
	}

	parts := strings.Split(data, ":")
	if len(parts) < 3 {
		return nil
	}

	ownerID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return nil
	}
	if ownerID != q.From.ID {
		_ = h.tg.AnswerCallback(q.ID, "这个面板不是你的。", true)
		return nil
	}

	action := parts[2]
	args := parts[3:]
	chatID := q.Message.Chat.ID
	msgID := q.Message.MessageID

	h.clips.Update(chatID, ownerID, func(st *fightclip.UIState) {
		st.MessageID = msgID

		switch action {
		case "menu":
			if len(args) >= 1 {
				st.Menu = args[0]
			}
		case "style":
			if len(args) >= 1 {
				st.StyleKey = args[0]
				st.Menu = "main"
			}
		case "main":
			if len(args) >= 1 {
				st.MainKey = args[0]
				st.Menu = "main"
			}
		case "opp":
			if len(args) >= 1 {
				st.OpponentKey = args[0]
				st.Menu = "main"
			}
		case "extra":
			if len(args) >= 1 {
				st.ExtraKey = args[0]
				st.Menu = "main"
			}
		case "combo":
			if len(args) >= 1 {
				st.ApplyCombo(args[0])
				st.Menu = "main"
			}
		case "camera":
			if len(args) >= 1 {
				st.CameraKey = args[0]
				st.Menu = "main"
			}
		case "dur":
			if len(args) >= 1 {
				if args[0] == "sync" {
					st.DurationTouched = false
					st.ApplyCombo(st.ComboKey)
				} else if delta, err := strconv.ParseFloat(args[0], 64); err == nil {
					st.StepDuration(delta)
				}
			}
		case "energy":
			if len(args) >= 1 {
				st.EnergyLevel = args[0]
				st.Menu = "levels"
			}
		case "violence":
			if len(args) >= 1 {
				st.ViolenceLevel = args[0]
				st.Menu = "levels"
			}
		case "blood":
			if len(args) >= 1 {
				st.BloodLevel = args[0]
				st.Menu = "levels"
			}
		case "detail":
			if len(args) >= 1 {
				switch args[0] {
				case "micro":
					st.IncludeMicroExpressions = !st.IncludeMicroExpressions
				case "breath":
					st.IncludeBreathSweatFatigue = !st.IncludeBreathSweatFatigue
				case "env":
					st.IncludeEnvironmentReaction = !st.IncludeEnvironmentReaction
				case "cam":
					st.IncludeCameraDetails = !st.IncludeCameraDetails
				}
				st.Menu = "details"
			}
		case "audio":
			st.AwaitingAudioHint = true
			st.Menu = "main"
		case "audio_reset":
			st.AudioHint = fightclip.DefaultAudioHint
			st.AwaitingAudioHint = false
			st.Menu = "main"
		case "reset":
			msgID := st.MessageID
			*st = fightclip.DefaultState()
			st.MessageID = msgID
		case "close":
			st.AwaitingAudioHint = false
			st.Menu = "main"
		}
	})

	switch action {
	case "audio":
		_ = h.tg.AnswerCallback(q.ID, "发送音效提示（取消：/cancel）。", false)
		_ = h.tg.SendText(chatID, "🎧 发送新的音效提示（英文描述，取消：/cancel）。")
	case "spec":
		_ = h.tg.AnswerCallback(q.ID, "正在发送 spec_json…", false)
		if err := h.sendSpecDocument(chatID, ownerID); err != nil {
			return err
		}
	case "generate":
		_ = h.tg.AnswerCallback(q.ID, "生成中…", false)
		if err := h.generateFromState(ctx, chatID, ownerID, q.From.UserName); err != nil {
			return err
		}
	default:
		_ = h.tg.AnswerCallback(q.ID, "OK", false)
	}

	return h.renderFightUI(chatID, ownerID, msgID, true)
}

func (h *Handler) renderFightUI(chatID int64, userID int64, messageID int, edit bool) error {
	st := h.clips.Get(chatID, userID)
	if messageID == 0 {
		messageID = st.MessageID
	}

	text := fightUIText(st)
	kb := fightUIKeyboard(userID, st)

	if edit && messageID != 0 {
		if err := h.tg.EditTextWithKeyboard(chatID, messageID, text, kb); err == nil {
			return nil
		}
	}

	msgID, err := h.tg.SendTextWithKeyboard(chatID, text, kb)
	if err != nil {
		return err
	}
	h.clips.Update(chatID, userID, func(st *fightclip.UIState) { st.MessageID = msgID })
	return nil
}

func (h *Handler) sendSpecDocument(chatID int64, userID int64) error {
	st := h.clips.Get(chatID, userID)

	spec, err := fightclip.BuildSpec(st.SpecInput())
	if err != nil {
		h.logger.Error("spec build failed", "err", err)
		return h.tg.SendText(chatID, "❌ 配置有误："+err.Error())
	}

	specJSON, err := spec.PrettyJSON()
	if err != nil {
		return err
	}
	return h.tg.SendDocument(chatID, "scene_spec.json", []byte(specJSON), "📄 当前配置的 spec_json")
}

func (h *Handler) generateFromState(ctx context.Context, chatID int64, userID int64, username string) error {
	st := h.clips.Get(chatID, userID)

	spec, err := fightclip.BuildSpec(st.SpecInput())
	if err != nil {
		h.logger.Error("spec build failed", "err", err)
		return h.tg.SendText(chatID, "❌ 配置有误："+err.Error())
	}

	prompt, err := fightclip.CompilePrompt(spec)
	if err != nil {
		return err
	}

	h.tg.SendTyping(chatID)
	_ = h.tg.SendText(chatID, fmt.Sprintf("🎬 正在生成 %.1f 秒片段的提示词与分镜，请稍候...", spec.ClipConfig.DurationSec))

	reply, err := h.model.Generate(ctx, prompt, false)
	if err != nil {
		h.logger.Error("clip generation failed", "err", err)
		return h.tg.SendText(chatID, "❌ 生成失败，请稍后重试。")
	}

	promptEN, timelineZH := llmtext.SplitAtMarker(reply, fightclip.TimelineMarker)

	specJSON, err := spec.PrettyJSON()
	if err != nil {
		return err
	}
	h.sessions.SetFight(userID, username, session.FightResult{
		SpecJSON:   specJSON,
		PromptEN:   promptEN,
		TimelineZH: timelineZH,
	})

	return h.sendFightSections(chatID, promptEN, timelineZH)
}

func fightUIText(st fightclip.UIState) string {
	var b strings.Builder
	b.WriteString("🥊 打斗片段配置\n\n")
	b.WriteString("风格：" + optionName(fightclip.StyleOptions(), st.StyleKey) + "\n")
	b.WriteString("主角：" + optionName(fightclip.CharacterOptions(), st.MainKey) + "\n")
	b.WriteString("对手：" + optionName(fightclip.CharacterOptions(), st.OpponentKey) + "\n")
	b.WriteString("第三人：" + extraName(st.ExtraKey) + "\n")
	b.WriteString("连招：" + optionName(fightclip.ComboOptions(), st.ComboKey) + "\n")
	b.WriteString("运镜：" + optionName(fightclip.CameraOptions(), st.CameraKey) + "\n")
	b.WriteString(fmt.Sprintf("时长：%.1f 秒", st.DurationSec))
	if !st.DurationTouched {
		b.WriteString("（跟随连招默认）")
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("能量 %s ｜ 强度 %s ｜ 血迹 %s\n", st.EnergyLevel, st.ViolenceLevel, st.BloodLevel))
	b.WriteString(fmt.Sprintf("细节：微表情 %s ｜ 呼吸汗水 %s ｜ 环境反馈 %s ｜ 运镜细节 %s\n",
		checkMark(st.IncludeMicroExpressions),
		checkMark(st.IncludeBreathSweatFatigue),
		checkMark(st.IncludeEnvironmentReaction),
		checkMark(st.IncludeCameraDetails),
	))
	b.WriteString("音效提示：" + shortLine(st.AudioHint, 60) + "\n")

	if st.AwaitingAudioHint {
		b.WriteString("\n🎧 现在发送新的音效提示（取消：/cancel）。\n")
	}

	return strings.TrimSpace(b.String())
}

func fightUIKeyboard(ownerID int64, st fightclip.UIState) tgbotapi.InlineKeyboardMarkup {
	switch st.Menu {
	case "style":
		return optionsKeyboard(ownerID, "style", fightclip.StyleOptions(), st.StyleKey)
	case "fighter_main":
		return optionsKeyboard(ownerID, "main", fightclip.CharacterOptions(), st.MainKey)
	case "fighter_opp":
		return optionsKeyboard(ownerID, "opp", fightclip.CharacterOptions(), st.OpponentKey)
	case "fighter_extra":
		opts := append([]fightclip.NamedOption{{Key: "none", Name: "无第三人"}}, fightclip.CharacterOptions()...)
		return optionsKeyboard(ownerID, "extra", opts, st.ExtraKey)
	case "combo":
		return optionsKeyboard(ownerID, "combo", fightclip.ComboOptions(), st.ComboKey)
	case "camera":
		return optionsKeyboard(ownerID, "camera", fightclip.CameraOptions(), st.CameraKey)
	case "levels":
		return levelsKeyboard(ownerID, st)
	case "details":
		return detailsKeyboard(ownerID, st)
	default:
		return mainFightKeyboard(ownerID, st)
	}
}

func mainFightKeyboard(ownerID int64, st fightclip.UIState) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		[]tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("🎨 风格", fightCB(ownerID, "menu", "style")),
			tgbotapi.NewInlineKeyboardButtonData("⚡ 连招", fightCB(ownerID, "menu", "combo")),
		},
		[]tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("🥋 主角", fightCB(ownerID, "menu", "fighter_main")),
			tgbotapi.NewInlineKeyboardButtonData("🥊 对手", fightCB(ownerID, "menu", "fighter_opp")),
		},
		[]tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("👥 第三人", fightCB(ownerID, "menu", "fighter_extra")),
			tgbotapi.NewInlineKeyboardButtonData("🎥 运镜", fightCB(ownerID, "menu", "camera")),
		},
		[]tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("−0.5", fightCB(ownerID, "dur", "-0.5")),
			tgbotapi.NewInlineKeyboardButtonData("−0.1", fightCB(ownerID, "dur", "-0.1")),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("⏱ %.1fs", st.DurationSec), fightCB(ownerID, "dur", "sync")),
			tgbotapi.NewInlineKeyboardButtonData("+0.1", fightCB(ownerID, "dur", "+0.1")),
			tgbotapi.NewInlineKeyboardButtonData("+0.5", fightCB(ownerID, "dur", "+0.5")),
		},
		[]tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("🎚 等级", fightCB(ownerID, "menu", "levels")),
			tgbotapi.NewInlineKeyboardButtonData("🎛 细节", fightCB(ownerID, "menu", "details")),
		},
		[]tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("🎧 音效", fightCB(ownerID, "audio")),
			tgbotapi.NewInlineKeyboardButtonData("📄 spec_json", fightCB(ownerID, "spec")),
		},
		[]tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("🔄 重置", fightCB(ownerID, "reset")),
			tgbotapi.NewInlineKeyboardButtonData("🎬 生成", fightCB(ownerID, "generate")),
		},
	)
}

func optionsKeyboard(ownerID int64, action string, opts []fightclip.NamedOption, selected string) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton

	for _, opt := range opts {
		label := opt.Name
		if opt.Key == selected {
			label = "✅ " + label
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, fightCB(ownerID, action, opt.Key)))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("⬅ 返回", fightCB(ownerID, "menu", "main")),
	})

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func levelsKeyboard(ownerID int64, st fightclip.UIState) tgbotapi.InlineKeyboardMarkup {
	levelRow := func(action, current string, values []string) []tgbotapi.InlineKeyboardButton {
		var row []tgbotapi.InlineKeyboardButton
		for _, v := range values {
			label := v
			if v == current {
				label = "✅ " + label
			}
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, fightCB(ownerID, action, v)))
		}
		return row
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		levelRow("energy", st.EnergyLevel, []string{"low", "medium", "high"}),
		levelRow("violence", st.ViolenceLevel, []string{"soft", "moderate", "hard"}),
		levelRow("blood", st.BloodLevel, []string{"none", "light", "visible"}),
		[]tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("⬅ 返回", fightCB(ownerID, "menu", "main")),
		},
	)
}

func detailsKeyboard(ownerID int64, st fightclip.UIState) tgbotapi.InlineKeyboardMarkup {
	toggle := func(label, arg string, on bool) []tgbotapi.InlineKeyboardButton {
		return []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(label+" "+checkMark(on), fightCB(ownerID, "detail", arg)),
		}
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		toggle("微表情", "micro", st.IncludeMicroExpressions),
		toggle("呼吸 / 汗水 / 疲劳", "breath", st.IncludeBreathSweatFatigue),
		toggle("环境反馈", "env", st.IncludeEnvironmentReaction),
		toggle("运镜细节", "cam", st.IncludeCameraDetails),
		[]tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("⬅ 返回", fightCB(ownerID, "menu", "main")),
		},
	)
}

func fightCB(ownerID int64, parts ...string) string {
	return fmt.Sprintf("%s:%d:%s", fightCallbackPrefix, ownerID, strings.Join(parts, ":"))
}

func optionName(opts []fightclip.NamedOption, key string) string {
	for _, o := range opts {
		if o.Key == key {
			return o.Name
		}
	}
	return key
}

func extraName(key string) string {
	if key == "" || key == "none" {
		return "无"
	}
	return optionName(fightclip.CharacterOptions(), key)
}

func checkMark(v bool) string {
	if v {
		return "✅"
	}
	return "⬜"
}

func shortLine(s string, max int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if max <= 0 || len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max])) + "…"
}
