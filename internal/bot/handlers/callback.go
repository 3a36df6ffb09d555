package handlers

import (
	"context"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	kindSchedule = "schedule"
	kindMemo     = "memo"
)

// askConfirmation sends an inline keyboard whose callback data is
// "confirm:<kind>:<id>" or "cancel".
func (h *Handlers) askConfirmation(chatID int64, question, kind, id string) {
	msg := tgbotapi.NewMessage(chatID, question)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ 삭제", "confirm:"+kind+":"+id),
			tgbotapi.NewInlineKeyboardButtonData("❌ 취소", "cancel"),
		),
	)
	if _, err := h.api.Send(msg); err != nil {
		slog.Error("Failed to send confirmation", "chat", chatID, "err", err)
	}
}

func (h *Handlers) HandleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if _, err := h.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		slog.Warn("Failed to answer callback", "err", err)
	}
	if callback.Message == nil {
		return
	}

	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID

	parts := strings.SplitN(callback.Data, ":", 3)
	switch {
	case parts[0] == "cancel":
		h.editMessageText(chatID, messageID, "❌ 취소했습니다.")
	case parts[0] == "confirm" && len(parts) == 3:
		switch parts[1] {
		case kindSchedule:
			h.editMessageText(chatID, messageID, h.deleteSchedule(ctx, parts[2]))
		case kindMemo:
			h.editMessageText(chatID, messageID, h.deleteMemo(ctx, parts[2]))
		}
	}
}

func (h *Handlers) editMessageText(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if _, err := h.api.Send(edit); err != nil {
		slog.Error("Failed to edit message", "chat", chatID, "err", err)
	}
}
