package assistant

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/hray3182/secretary/internal/intent"
	"github.com/hray3182/secretary/internal/models"
)

const (
	maxTitleWords = 5
	maxTitleRunes = 30
	RecentMemos   = 3
)

var memoTriggers = regexp.MustCompile(`(?i)(메모해줘|기록해줘|저장해줘|적어줘|기억해줘)`)

var memoSaveKeywords = []string{"메모", "기록", "저장"}

// handleMemo checks save before recall, so "최근 메모 ..." is saved as a memo;
// recall is reached through wording like "최근 노트 보여줘".
func (a *Assistant) handleMemo(ctx context.Context, lower, utterance string) (string, error) {
	if intent.ContainsAny(lower, memoSaveKeywords...) {
		content := strings.TrimSpace(memoTriggers.ReplaceAllString(utterance, ""))
		if content == "" {
			return ReplyMemoEmpty, nil
		}

		now := a.clock()
		memo := &models.VoiceMemo{
			Title:     GenerateMemoTitle(content, now),
			Content:   content,
			CreatedAt: now,
		}
		if err := a.memos.Create(ctx, memo); err != nil {
			return "", fmt.Errorf("failed to create memo: %w", err)
		}
		return fmt.Sprintf("\"%s\" 메모를 저장했습니다.", memo.Title), nil
	}

	if intent.ContainsAny(lower, "최근", "마지막") {
		return a.recentMemos(ctx), nil
	}

	return ReplyMemoUnclear, nil
}

func (a *Assistant) recentMemos(ctx context.Context) string {
	recent := a.memos.Recent(ctx, RecentMemos)
	if len(recent) == 0 {
		return ReplyNoMemos
	}

	titles := make([]string, len(recent))
	for i, m := range recent {
		titles[i] = m.Title
	}
	return fmt.Sprintf("최근 메모는 %s입니다.", strings.Join(titles, ", "))
}

// GenerateMemoTitle uses the first five words of content, cut to 27 characters
// plus "..." when longer than 30. Blank content gets a timestamp title.
func GenerateMemoTitle(content string, now time.Time) string {
	words := strings.Fields(content)
	if len(words) > maxTitleWords {
		words = words[:maxTitleWords]
	}
	title := strings.Join(words, " ")

	if runes := []rune(title); len(runes) > maxTitleRunes {
		title = string(runes[:maxTitleRunes-3]) + "..."
	}

	if title == "" {
		title = fmt.Sprintf("메모 %d/%d %d:%02d", int(now.Month()), now.Day(), now.Hour(), now.Minute())
	}
	return title
}
