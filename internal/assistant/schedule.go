package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/hray3182/secretary/internal/intent"
	"github.com/hray3182/secretary/internal/models"
	"github.com/hray3182/secretary/internal/nlp"
)

// UpcomingDays is the window used for "next schedule" questions.
const UpcomingDays = 7

func (a *Assistant) handleSchedule(ctx context.Context, lower, utterance string) (string, error) {
	now := a.clock()

	if strings.Contains(lower, "오늘") && intent.ContainsAny(lower, "일정", "스케줄") {
		today := a.schedules.Today(ctx, now)
		if len(today) == 0 {
			return ReplyNoTodaySchedule, nil
		}
		return fmt.Sprintf("오늘 일정은 %s입니다.", joinSchedules(today)), nil
	}

	if intent.ContainsAny(lower, "등록", "추가", "저장") {
		draft := nlp.ParseSchedule(utterance, now)
		schedule := &models.Schedule{
			Title:       draft.Title,
			Description: draft.Description,
			Date:        draft.Date,
			Time:        draft.Time,
			CreatedAt:   now,
		}
		if err := a.schedules.Create(ctx, schedule); err != nil {
			return "", fmt.Errorf("failed to create schedule: %w", err)
		}
		return fmt.Sprintf("%s %s에 \"%s\" 일정을 등록했습니다.", schedule.Date, schedule.Time, schedule.Title), nil
	}

	if intent.ContainsAny(lower, "다음", "다가오는") {
		upcoming := a.schedules.Upcoming(ctx, now, UpcomingDays)
		if len(upcoming) == 0 {
			return ReplyNoUpcoming, nil
		}
		next := upcoming[0]
		dateStr := next.Date
		if d, ok := next.StartsAt(a.loc); ok {
			dateStr = ShortDate(d)
		}
		return fmt.Sprintf("다음 일정은 %s %s에 %s입니다.", dateStr, next.Time, next.Title), nil
	}

	return ReplyScheduleUnclear, nil
}

// joinSchedules renders "10:00에 회의, 14:00에 치과".
func joinSchedules(schedules []*models.Schedule) string {
	parts := make([]string, len(schedules))
	for i, s := range schedules {
		parts[i] = fmt.Sprintf("%s에 %s", s.Time, s.Title)
	}
	return strings.Join(parts, ", ")
}
