package nlp

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seoulNow(t *testing.T) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	// Saturday afternoon
	return time.Date(2026, 10, 17, 14, 5, 0, 0, loc)
}

func TestExtractTime(t *testing.T) {
	tests := []struct {
		text    string
		want    string
		matched string
	}{
		{"10시에 회의", "10:00", "10시에"},
		{"3시 30분 미팅", "03:30", "3시 30분"},
		{"14:45 약속", "14:45", "14:45"},
		{"오전 12시 알람", "00:00", "오전 12시"},
		{"오전 12시 15분 알람", "00:15", "오전 12시 15분"},
		{"오전 9시 회의", "09:00", "오전 9시"},
		{"오후 12시 점심", "12:00", "오후 12시"},
		{"오후 12시 30분 점심", "12:30", "오후 12시 30분"},
		{"오후 3시에 치과", "15:00", "오후 3시에"},
		{"오후3시10분 통화", "15:10", "오후3시10분"},
		{"25시 회의", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, matched, ok := ExtractTime(tt.text)
			if tt.want == "" {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.matched, matched)
		})
	}
}

func TestExtractTime_Meridiem(t *testing.T) {
	for hour := 1; hour <= 12; hour++ {
		for _, minute := range []int{0, 5, 59} {
			text := fmt.Sprintf("오후 %d시 %d분", hour, minute)
			got, _, ok := ExtractTime(text)
			require.True(t, ok, text)

			wantHour := hour + 12
			if hour == 12 {
				wantHour = 12
			}
			assert.Equal(t, fmt.Sprintf("%02d:%02d", wantHour, minute), got, text)

			text = fmt.Sprintf("오전 %d시 %d분", hour, minute)
			got, _, ok = ExtractTime(text)
			require.True(t, ok, text)

			wantHour = hour
			if hour == 12 {
				wantHour = 0
			}
			assert.Equal(t, fmt.Sprintf("%02d:%02d", wantHour, minute), got, text)
		}
	}
}

func TestExtractDate(t *testing.T) {
	now := seoulNow(t)

	tests := []struct {
		text string
		want string
	}{
		{"오늘 회의", "2026-10-17"},
		{"내일 회의", "2026-10-18"},
		{"모레 회의", "2026-10-19"},
		{"12월 25일 파티", "2026-12-25"},
		{"10월 17일 회의", "2026-10-17"},
		{"1월 3일 여행", "2027-01-03"},
		{"10/16 정산", "2027-10-16"},
		{"11/2 면접", "2026-11-02"},
		{"월요일 회의", "2026-10-19"},
		{"토요일 등산", "2026-10-24"},
		{"일요일 예배", "2026-10-18"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, _, ok := ExtractDate(tt.text, now)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, _, ok := ExtractDate("회의 잡아줘", now)
	assert.False(t, ok)
}

func TestExtractDate_WeekdayAlwaysFuture(t *testing.T) {
	base := seoulNow(t)
	names := []string{"일", "월", "화", "수", "목", "금", "토"}

	for i := 0; i < 7; i++ {
		now := base.AddDate(0, 0, i)
		today := now.Format("2006-01-02")
		for _, name := range names {
			got, _, ok := ExtractDate(name+"요일", now)
			require.True(t, ok)
			assert.Greater(t, got, today)

			parsed, err := time.ParseInLocation("2006-01-02", got, now.Location())
			require.NoError(t, err)
			assert.Equal(t, koreanWeekdays[name], parsed.Weekday())
		}
	}
}

func TestResolveMonthDay(t *testing.T) {
	today := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC), ResolveMonthDay(today, time.October, 17))
	assert.Equal(t, time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC), ResolveMonthDay(today, time.October, 18))
	assert.Equal(t, time.Date(2027, 10, 16, 0, 0, 0, 0, time.UTC), ResolveMonthDay(today, time.October, 16))
	assert.Equal(t, time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC), ResolveMonthDay(today, time.March, 1))
}

func TestParseSchedule(t *testing.T) {
	now := seoulNow(t)

	tests := []struct {
		text string
		want struct{ title, date, time string }
	}{
		{"내일 10시에 회의 등록해줘", struct{ title, date, time string }{"회의", "2026-10-18", "10:00"}},
		{"모레 오후 3시에 치과 예약 추가", struct{ title, date, time string }{"치과 예약", "2026-10-19", "15:00"}},
		{"12월 25일 오후 7시 가족 저녁 일정 저장해줘", struct{ title, date, time string }{"가족 저녁", "2026-12-25", "19:00"}},
		{"금요일 14:30 팀 미팅 등록 좀 해줘", struct{ title, date, time string }{"팀 미팅", "2026-10-23", "14:30"}},
		{"등록해줘", struct{ title, date, time string }{DefaultTitle, "2026-10-17", DefaultTime}},
		{"스터디 일정 추가.", struct{ title, date, time string }{"스터디", "2026-10-17", DefaultTime}},
		{"추가 근무 등록해줘", struct{ title, date, time string }{"추가 근무", "2026-10-17", DefaultTime}},
		{"내일 저장소 정리 추가해줘", struct{ title, date, time string }{"저장소 정리", "2026-10-18", DefaultTime}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := ParseSchedule(tt.text, now)
			assert.Equal(t, tt.want.title, got.Title)
			assert.Equal(t, tt.want.date, got.Date)
			assert.Equal(t, tt.want.time, got.Time)
			assert.Empty(t, got.Description)
		})
	}
}

func TestParseSchedule_FirstMatchOnly(t *testing.T) {
	now := seoulNow(t)

	got := ParseSchedule("내일 10시 회의 그리고 모레 11시 회식 등록", now)
	assert.Equal(t, "2026-10-18", got.Date)
	assert.Equal(t, "10:00", got.Time)
	assert.Contains(t, got.Title, "모레")
	assert.Contains(t, got.Title, "11시")
}
