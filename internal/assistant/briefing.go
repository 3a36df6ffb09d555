package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/hray3182/secretary/internal/models"
)

// Briefing summarizes today's schedules and mentions tomorrow's if there are any.
func (a *Assistant) Briefing(ctx context.Context) string {
	now := a.clock()
	today := a.schedules.Today(ctx, now)
	upcoming := a.schedules.Upcoming(ctx, now, 1)

	var sb strings.Builder
	fmt.Fprintf(&sb, "좋은 아침입니다! 오늘은 %s입니다. ", MonthDayWeekday(now))

	if len(today) > 0 {
		fmt.Fprintf(&sb, "오늘 일정은 %s입니다. ", joinSchedules(today))
	} else {
		sb.WriteString(ReplyNoTodaySchedule + " ")
	}

	// Only exact matches on tomorrow's date count, even though the window is a day wide.
	if len(upcoming) > len(today) {
		tomorrow := now.AddDate(0, 0, 1).Format(models.DateLayout)
		count := 0
		for _, s := range upcoming {
			if s.Date == tomorrow {
				count++
			}
		}
		if count > 0 {
			fmt.Fprintf(&sb, "내일은 %d개의 일정이 있습니다. ", count)
		}
	}

	sb.WriteString("좋은 하루 되세요!")
	return sb.String()
}
