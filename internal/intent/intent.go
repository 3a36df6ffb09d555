// Package intent buckets an utterance into one of a fixed set of intents using
// keyword tables.
package intent

import "strings"

type Intent int

const (
	Fallback Intent = iota
	Schedule
	Memo
	Greeting
	TimeQuery
)

func (i Intent) String() string {
	switch i {
	case Schedule:
		return "schedule"
	case Memo:
		return "memo"
	case Greeting:
		return "greeting"
	case TimeQuery:
		return "time_query"
	default:
		return "fallback"
	}
}

var (
	scheduleKeywords = []string{
		"일정", "스케줄", "약속", "미팅", "회의", "만남",
		"등록", "추가", "저장", "알려줘", "확인", "조회",
	}
	memoKeywords = []string{
		"메모", "기록", "저장해줘", "적어줘", "기억해줘",
		"노트", "메모해줘", "기록해줘",
	}
	greetingKeywords = []string{
		"안녕", "하이", "헬로", "좋은", "반가워", "처음", "시작",
	}
	timeKeywords = []string{
		"시간", "몇시", "언제", "지금", "현재", "오늘", "날짜",
	}
)

// Priority order used by Classify. An utterance matching several tables takes
// the first one listed here.
var priority = []struct {
	intent   Intent
	keywords []string
}{
	{Schedule, scheduleKeywords},
	{Memo, memoKeywords},
	{Greeting, greetingKeywords},
	{TimeQuery, timeKeywords},
}

// Normalize lowercases and trims an utterance.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Classify maps an utterance to its intent.
func Classify(text string) Intent {
	normalized := Normalize(text)
	for _, p := range priority {
		if ContainsAny(normalized, p.keywords...) {
			return p.intent
		}
	}
	return Fallback
}

// ContainsAny reports whether text contains at least one of the keywords.
func ContainsAny(text string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
