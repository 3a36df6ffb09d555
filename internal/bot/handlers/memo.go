package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/hray3182/secretary/internal/format"
)

const memoListSize = 10

func (h *Handlers) handleMemoList(ctx context.Context, msg *tgbotapi.Message) {
	memos := h.app.Memos.Recent(ctx, memoListSize)
	if len(memos) == 0 {
		h.sendMessage(msg.Chat.ID, "📝 저장된 메모가 없습니다.")
		return
	}

	var sb strings.Builder
	sb.WriteString("📝 **최근 메모**\n\n")
	for _, m := range memos {
		sb.WriteString(fmt.Sprintf("• **%s**\n", format.Escape(m.Title)))
		if m.Content != m.Title {
			sb.WriteString("   " + format.Escape(format.Truncate(m.Content, 50)) + "\n")
		}
		sb.WriteString(fmt.Sprintf("   %s `%s`\n", m.CreatedAt.In(h.app.Location).Format("2006-01-02 15:04"), m.ID))
	}
	h.sendMessage(msg.Chat.ID, sb.String())
}

func (h *Handlers) handleDeleteMemo(ctx context.Context, msg *tgbotapi.Message) {
	id := strings.TrimSpace(msg.CommandArguments())
	if id == "" {
		h.sendMessage(msg.Chat.ID, "삭제할 메모의 ID를 입력하세요.\n사용법: /delete_memo <ID>")
		return
	}

	m, err := h.app.Memos.GetByID(ctx, id)
	if err != nil {
		h.sendMessage(msg.Chat.ID, "해당 ID의 메모를 찾을 수 없습니다.")
		return
	}

	h.askConfirmation(msg.Chat.ID, fmt.Sprintf("🗑 메모 \"%s\"를 삭제할까요?", m.Title), kindMemo, m.ID)
}

func (h *Handlers) deleteMemo(ctx context.Context, id string) string {
	deleted, err := h.app.Memos.Delete(ctx, id)
	switch {
	case err != nil:
		return "메모 삭제에 실패했습니다. 잠시 후 다시 시도해 주세요."
	case !deleted:
		return "해당 ID의 메모를 찾을 수 없습니다."
	default:
		return "✅ 메모를 삭제했습니다."
	}
}
