package assistant

import (
	"fmt"
	"time"
)

const (
	ReplyError           = "죄송합니다. 명령 처리 중 오류가 발생했습니다."
	ReplyNoTodaySchedule = "오늘은 등록된 일정이 없습니다."
	ReplyNoUpcoming      = "다가오는 일정이 없습니다."
	ReplyScheduleUnclear = "일정 관련 명령을 인식했지만 구체적인 내용을 파악하지 못했습니다. 다시 말씀해 주세요."
	ReplyMemoEmpty       = "메모할 내용을 말씀해 주세요."
	ReplyNoMemos         = "저장된 메모가 없습니다."
	ReplyMemoUnclear     = "메모 관련 명령을 인식했지만 구체적인 내용을 파악하지 못했습니다."
	ReplyTimeUnclear     = "시간이나 날짜에 대한 질문이신가요? 구체적으로 말씀해 주세요."
)

var greetingReplies = []string{
	"안녕하세요! 무엇을 도와드릴까요?",
	"안녕하세요! 일정 등록이나 메모 작성을 도와드릴 수 있어요.",
	"반갑습니다! 오늘 하루도 잘 도와드릴게요.",
	"안녕하세요! 음성으로 편리하게 이용해보세요.",
}

var fallbackReplies = []string{
	"죄송합니다. 명령을 이해하지 못했습니다. 일정 등록이나 메모 작성을 도와드릴 수 있어요.",
	"잘 이해하지 못했어요. \"오늘 일정 알려줘\" 또는 \"메모해줘\"와 같이 말씀해 주세요.",
	"명령을 인식하지 못했습니다. 일정 관리나 메모 기능을 이용해 보세요.",
	"다시 한 번 말씀해 주세요. 일정이나 메모 관련 도움이 필요하시면 언제든 말씀하세요.",
}

var koreanWeekdays = [...]string{"일요일", "월요일", "화요일", "수요일", "목요일", "금요일", "토요일"}

// LongDate renders "2026년 10월 17일 토요일".
func LongDate(t time.Time) string {
	return fmt.Sprintf("%d년 %s", t.Year(), MonthDayWeekday(t))
}

// MonthDayWeekday renders "10월 17일 토요일".
func MonthDayWeekday(t time.Time) string {
	return fmt.Sprintf("%d월 %d일 %s", int(t.Month()), t.Day(), koreanWeekdays[t.Weekday()])
}

// ShortDate renders "2026. 10. 18.".
func ShortDate(t time.Time) string {
	return fmt.Sprintf("%d. %d. %d.", t.Year(), int(t.Month()), t.Day())
}
