package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/hray3182/secretary/internal/format"
)

func (h *Handlers) handleScheduleList(ctx context.Context, msg *tgbotapi.Message) {
	schedules := h.app.Schedules.Sorted(ctx, h.app.Location)
	if len(schedules) == 0 {
		h.sendMessage(msg.Chat.ID, "📅 등록된 일정이 없습니다.")
		return
	}

	var sb strings.Builder
	sb.WriteString("📅 **일정 목록**\n\n")
	for _, s := range schedules {
		sb.WriteString(fmt.Sprintf("• %s %s **%s**\n", s.Date, s.Time, format.Escape(s.Title)))
		if s.Description != "" {
			sb.WriteString("   " + format.Escape(s.Description) + "\n")
		}
		sb.WriteString(fmt.Sprintf("   `%s`\n", s.ID))
	}
	h.sendMessage(msg.Chat.ID, sb.String())
}

func (h *Handlers) handleDeleteSchedule(ctx context.Context, msg *tgbotapi.Message) {
	id := strings.TrimSpace(msg.CommandArguments())
	if id == "" {
		h.sendMessage(msg.Chat.ID, "삭제할 일정의 ID를 입력하세요.\n사용법: /delete_schedule <ID>")
		return
	}

	s, err := h.app.Schedules.GetByID(ctx, id)
	if err != nil {
		h.sendMessage(msg.Chat.ID, "해당 ID의 일정을 찾을 수 없습니다.")
		return
	}

	h.askConfirmation(msg.Chat.ID, fmt.Sprintf("🗑 일정 \"%s\" (%s %s)을 삭제할까요?", s.Title, s.Date, s.Time), kindSchedule, s.ID)
}

func (h *Handlers) deleteSchedule(ctx context.Context, id string) string {
	deleted, err := h.app.Schedules.Delete(ctx, id)
	switch {
	case err != nil:
		return "일정 삭제에 실패했습니다. 잠시 후 다시 시도해 주세요."
	case !deleted:
		return "해당 ID의 일정을 찾을 수 없습니다."
	default:
		return "✅ 일정을 삭제했습니다."
	}
}
