package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"shot-factory-ai-bot/internal/adboard"
	"shot-factory-ai-bot/internal/session"
)

const adUsage = "用法：/ad 品牌 | 产品 | 时长秒 | 风格\n" +
	"例如：/ad 山野 | 气泡水 | 15 | 清新夏日，节奏明快\n\n" +
	"时长和风格可省略（默认 15 秒）。"

func (h *Handler) handleAdCommand(ctx context.Context, chatID int64, userID int64, username string, args string) error {
	args = strings.TrimSpace(args)
	if args == "" {
		return h.tg.SendText(chatID, adUsage)
	}

	req, ok := ParseBrief(args)
	if !ok {
		return h.tg.SendText(chatID, "❌ 没看懂这条简报。\n\n"+adUsage)
	}
	return h.runAdFlow(ctx, chatID, userID, username, req)
}

func (h *Handler) runAdFlow(ctx context.Context, chatID int64, userID int64, username string, req adboard.Request) error {
	req.ApplyDefaults()
	if err := req.Validate(); err != nil {
		return h.tg.SendText(chatID, "❌ "+err.Error()+"\n\n"+adUsage)
	}

	prompt, err := adboard.CompilePrompt(req)
	if err != nil {
		h.logger.Error("ad prompt compile failed", "err", err)
		return h.tg.SendText(chatID, "❌ 生成失败，请稍后重试。")
	}

	h.tg.SendTyping(chatID)
	_ = h.tg.SendText(chatID, fmt.Sprintf("🧾 正在为 %s · %s 生成 %d 秒广告分镜，请稍候...", req.Brand, req.Product, req.DurationSec))

	raw, err := h.model.Generate(ctx, prompt, true)
	if err != nil {
		h.logger.Error("ad generation failed", "err", err)
		return h.tg.SendText(chatID, "❌ 生成失败，请稍后重试。")
	}

	board, err := adboard.ParseStoryboard(raw)
	if err != nil {
		var malformed *adboard.MalformedReplyError
		if errors.As(err, &malformed) {
			h.logger.Warn("ad reply is not a storyboard", "raw_len", len(malformed.Raw))
		}
		return h.tg.SendText(chatID, "❌ 模型这次没有返回有效的分镜 JSON，请再试一次。")
	}

	boardJSON, err := board.PrettyJSON()
	if err != nil {
		return err
	}
	script := board.VoiceoverScript()

	h.sessions.SetAd(userID, username, session.AdResult{
		Brand:          board.Brand,
		Product:        board.Product,
		StoryboardJSON: boardJSON,
		Voiceover:      script,
	})

	summary := fmt.Sprintf("✅ 广告分镜已生成：%s · %s（%d 秒，%d 个镜头）",
		board.Brand, board.Product, board.DurationSec, len(board.Scenes))
	if err := h.tg.SendText(chatID, summary); err != nil {
		return err
	}

	return h.sendAdArtifacts(chatID, boardJSON, script)
}

// sendAdArtifacts uploads the storyboard JSON and the voiceover script in
// parallel; both are independent documents.
func (h *Handler) sendAdArtifacts(chatID int64, boardJSON, script string) error {
	var eg errgroup.Group
	eg.Go(func() error {
		return h.tg.SendDocument(chatID, "storyboard.json", []byte(boardJSON), "📋 分镜脚本 JSON")
	})
	if script != "" {
		eg.Go(func() error {
			return h.tg.SendDocument(chatID, "voiceover_script.txt", []byte(script), "🎙 口播台词")
		})
	}
	return eg.Wait()
}
