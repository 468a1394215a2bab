package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"shot-factory-ai-bot/internal/fightclip"
	"shot-factory-ai-bot/internal/session"
	"shot-factory-ai-bot/internal/telegram"
)

// ModelClient is the one call the handlers need from a text model; both the
// glm and gemini clients satisfy it.
type ModelClient interface {
	Generate(ctx context.Context, prompt string, jsonOutput bool) (string, error)
}

type Options struct {
	Telegram *telegram.Client
	Model    ModelClient
	Clips    *fightclip.Store
	Sessions *session.Store
	Logger   *slog.Logger
}

type Handler struct {
	tg       *telegram.Client
	model    ModelClient
	clips    *fightclip.Store
	sessions *session.Store
	logger   *slog.Logger
}

func New(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		tg:       opts.Telegram,
		model:    opts.Model,
		clips:    opts.Clips,
		sessions: opts.Sessions,
		logger:   logger,
	}
}

func (h *Handler) HandleUpdate(ctx context.Context, update telegram.Update) error {
	if update.CallbackQuery != nil {
		return h.handleCallback(ctx, update.CallbackQuery)
	}

	if update.Message == nil {
		return nil
	}

	msg := update.Message
	chatID := msg.Chat.ID
	userID := msg.From.ID
	username := msg.From.UserName

	if msg.IsCommand() {
		return h.handleCommand(ctx, chatID, userID, username, msg)
	}

	if msg.Text != "" {
		return h.handleText(ctx, chatID, userID, username, msg.Text)
	}

	return nil
}

func (h *Handler) handleCommand(ctx context.Context, chatID int64, userID int64, username string, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return h.tg.SendText(chatID,
			"🥊 动作片段分镜 Bot\n\n"+
				"用 /fight 配置一段竖屏打斗片段，生成英文视频提示词 + 中文时间轴分镜；\n"+
				"用 /ad 生成产品广告的分镜脚本和口播台词。\n\n"+
				"命令：\n"+
				"/fight - 打斗片段配置面板\n"+
				"/ad 品牌 | 产品 | 时长 | 风格 - 广告分镜\n"+
				"/last - 重发最近一次生成结果\n"+
				"/cancel - 取消当前输入\n"+
				"/clear - 清空记录并重置配置",
		)
	case "help":
		return h.tg.SendText(chatID,
			"🥊 使用说明\n\n"+
				"/fight 打开配置面板：选风格、角色、连招、运镜，调好时长后点「🎬 生成」。\n"+
				"输出分两段：先是给 Sora / Veo / Runway 的英文提示词，然后是中文时间轴分镜。\n\n"+
				"/ad 一行搞定广告分镜，用竖线分隔：\n"+
				"/ad 山野 | 气泡水 | 15 | 清新夏日\n"+
				"时长和风格可省略（默认 15 秒）。\n\n"+
				"/last 重发最近一次结果，不会再次调用模型。",
		)
	case "fight":
		return h.startFightWizard(chatID, userID)
	case "ad":
		return h.handleAdCommand(ctx, chatID, userID, username, msg.CommandArguments())
	case "last":
		return h.resendLast(chatID, userID)
	case "cancel":
		h.clips.Update(chatID, userID, func(st *fightclip.UIState) {
			st.AwaitingAudioHint = false
			st.Menu = "main"
		})
		return h.tg.SendText(chatID, "已取消。")
	case "clear":
		h.sessions.Clear(userID)
		h.clips.Reset(chatID, userID)
		return h.tg.SendText(chatID, "✅ 已清空生成记录并重置配置。")
	default:
		return h.tg.SendText(chatID, "❌ 未知命令，/help 看用法。")
	}
}

func (h *Handler) handleText(ctx context.Context, chatID int64, userID int64, username string, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	st := h.clips.Get(chatID, userID)
	if st.AwaitingAudioHint {
		updated := h.clips.Update(chatID, userID, func(st *fightclip.UIState) {
			st.AudioHint = text
			st.AwaitingAudioHint = false
			st.Menu = "main"
		})
		if err := h.tg.SendText(chatID, "🎧 音效提示已更新。"); err != nil {
			return err
		}
		return h.renderFightUI(chatID, userID, updated.MessageID, true)
	}

	// A bare "brand | product" line works without the /ad prefix.
	if req, ok := ParseBrief(text); ok {
		return h.runAdFlow(ctx, chatID, userID, username, req)
	}

	return h.tg.SendText(chatID, "发送 /fight 打开配置面板，或用 /ad 生成广告分镜。")
}

func (h *Handler) resendLast(chatID int64, userID int64) error {
	fight, haveFight := h.sessions.Fight(userID)
	ad, haveAd := h.sessions.Ad(userID)
	if !haveFight && !haveAd {
		return h.tg.SendText(chatID, "还没有生成记录。先用 /fight 或 /ad 生成一次。")
	}

	if haveFight {
		if err := h.tg.SendDocument(chatID, "scene_spec.json", []byte(fight.SpecJSON), "📄 最近一次打斗片段的 spec_json"); err != nil {
			return err
		}
		if err := h.sendFightSections(chatID, fight.PromptEN, fight.TimelineZH); err != nil {
			return err
		}
	}

	if haveAd {
		summary := fmt.Sprintf("📦 最近一次广告分镜：%s · %s", ad.Brand, ad.Product)
		if err := h.tg.SendText(chatID, summary); err != nil {
			return err
		}
		if err := h.sendAdArtifacts(chatID, ad.StoryboardJSON, ad.Voiceover); err != nil {
			return err
		}
	}

	return nil
}

func (h *Handler) sendFightSections(chatID int64, promptEN, timelineZH string) error {
	if timelineZH == "" {
		if err := h.tg.SendText(chatID, "⚠️ 模型没有按固定分隔线分段，以下是完整输出："); err != nil {
			return err
		}
		return h.tg.SendText(chatID, promptEN)
	}

	if err := h.tg.SendText(chatID, "🎥 英文视频提示词：\n\n"+promptEN); err != nil {
		return err
	}
	return h.tg.SendText(chatID, "🎬 中文时间轴分镜：\n\n"+timelineZH)
}
