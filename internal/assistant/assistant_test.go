package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hray3182/secretary/internal/models"
	"github.com/hray3182/secretary/internal/repository"
	"github.com/hray3182/secretary/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedRand int

func (f fixedRand) Intn(n int) int { return int(f) % n }

type brokenBackend struct{ storage.Backend }

func (brokenBackend) Set(ctx context.Context, key string, value []byte) error {
	return errors.New("read-only")
}

type fixture struct {
	assistant *Assistant
	schedules *repository.ScheduleRepository
	memos     *repository.MemoRepository
	now       time.Time
}

func newFixture(t *testing.T, backend storage.Backend) *fixture {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)

	// Saturday
	now := time.Date(2026, 10, 17, 14, 5, 0, 0, loc)
	schedules := repository.NewScheduleRepository(backend)
	memos := repository.NewMemoRepository(backend)

	return &fixture{
		assistant: New(schedules, memos,
			WithClock(func() time.Time { return now }),
			WithLocation(loc),
			WithRand(fixedRand(1)),
		),
		schedules: schedules,
		memos:     memos,
		now:       now,
	}
}

func (f *fixture) addSchedule(t *testing.T, title, date, clock string) {
	t.Helper()
	require.NoError(t, f.schedules.Create(context.Background(), &models.Schedule{Title: title, Date: date, Time: clock}))
}

func TestProcessCommand_TodayEmpty(t *testing.T) {
	f := newFixture(t, storage.NewMemoryBackend())
	f.addSchedule(t, "어제 일", "2026-10-16", "09:00")

	assert.Equal(t, "오늘은 등록된 일정이 없습니다.", f.assistant.ProcessCommand(context.Background(), "오늘 일정 알려줘"))
}

func TestProcessCommand_TodayList(t *testing.T) {
	f := newFixture(t, storage.NewMemoryBackend())
	f.addSchedule(t, "회의", "2026-10-17", "10:00")
	f.addSchedule(t, "치과", "2026-10-17", "16:00")

	got := f.assistant.ProcessCommand(context.Background(), "오늘 스케줄 확인")
	assert.Equal(t, "오늘 일정은 10:00에 회의, 16:00에 치과입니다.", got)
}

func TestProcessCommand_CreateSchedule(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, storage.NewMemoryBackend())

	reply := f.assistant.ProcessCommand(ctx, "내일 10시에 회의 등록해줘")

	stored := f.schedules.List(ctx)
	require.Len(t, stored, 1)
	s := stored[0]
	assert.Equal(t, "2026-10-18", s.Date)
	assert.Equal(t, "10:00", s.Time)
	assert.Equal(t, "회의", s.Title)
	for _, fragment := range []string{"내일", "10시", "등록", "해줘"} {
		assert.NotContains(t, s.Title, fragment)
	}
	assert.Equal(t, f.now.Unix(), s.CreatedAt.Unix())

	assert.Equal(t, "2026-10-18 10:00에 \"회의\" 일정을 등록했습니다.", reply)
	assert.Contains(t, reply, s.Date)
	assert.Contains(t, reply, "10:00")
	assert.Contains(t, reply, s.Title)
}

func TestProcessCommand_CreateScheduleDefaults(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, storage.NewMemoryBackend())

	reply := f.assistant.ProcessCommand(ctx, "일정 추가")
	assert.Equal(t, "2026-10-17 09:00에 \"새 일정\" 일정을 등록했습니다.", reply)
}

func TestProcessCommand_NextSchedule(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, storage.NewMemoryBackend())

	assert.Equal(t, ReplyNoUpcoming, f.assistant.ProcessCommand(ctx, "다음 일정 알려줘"))

	f.addSchedule(t, "too far", "2026-10-30", "09:00")
	f.addSchedule(t, "저녁 약속", "2026-10-19", "19:00")
	f.addSchedule(t, "아침 운동", "2026-10-19", "07:00")

	assert.Equal(t, "다음 일정은 2026. 10. 19. 07:00에 아침 운동입니다.", f.assistant.ProcessCommand(ctx, "다가오는 약속 있어?"))
}

func TestProcessCommand_ScheduleUnclear(t *testing.T) {
	f := newFixture(t, storage.NewMemoryBackend())
	assert.Equal(t, ReplyScheduleUnclear, f.assistant.ProcessCommand(context.Background(), "회의 어땠어"))
}

func TestProcessCommand_SaveMemo(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, storage.NewMemoryBackend())

	reply := f.assistant.ProcessCommand(ctx, "메모해줘 우체국 들르기")

	stored := f.memos.List(ctx)
	require.Len(t, stored, 1)
	assert.Equal(t, "우체국 들르기", stored[0].Content)
	assert.Equal(t, "우체국 들르기", stored[0].Title)
	assert.Equal(t, "\"우체국 들르기\" 메모를 저장했습니다.", reply)
}

func TestProcessCommand_MemoWithoutContent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, storage.NewMemoryBackend())

	assert.Equal(t, ReplyMemoEmpty, f.assistant.ProcessCommand(ctx, "메모해줘"))
	assert.Empty(t, f.memos.List(ctx))
}

func TestProcessCommand_RecentMemos(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, storage.NewMemoryBackend())

	assert.Equal(t, ReplyNoMemos, f.assistant.ProcessCommand(ctx, "최근 노트 읽어줘"))

	for i, title := range []string{"하나", "둘", "셋", "넷"} {
		require.NoError(t, f.memos.Create(ctx, &models.VoiceMemo{
			Title:     title,
			Content:   title,
			CreatedAt: f.now.Add(time.Duration(i) * time.Minute),
		}))
	}

	assert.Equal(t, "최근 메모는 넷, 셋, 둘입니다.", f.assistant.ProcessCommand(ctx, "마지막 노트 뭐였지"))
}

func TestProcessCommand_MemoUnclear(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, storage.NewMemoryBackend())

	for _, text := range []string{"노트 어디 있지", "적어줘", "기억해줘 우유 사기"} {
		assert.Equal(t, ReplyMemoUnclear, f.assistant.ProcessCommand(ctx, text), text)
	}
	assert.Empty(t, f.memos.List(ctx))
}

func TestProcessCommand_SaveCheckedBeforeRecent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, storage.NewMemoryBackend())

	reply := f.assistant.ProcessCommand(ctx, "최근 메모 보여줘")

	stored := f.memos.List(ctx)
	require.Len(t, stored, 1)
	assert.Equal(t, "최근 메모 보여줘", stored[0].Content)
	assert.Equal(t, "\"최근 메모 보여줘\" 메모를 저장했습니다.", reply)
}

func TestProcessCommand_ScheduleBeatsMemo(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, storage.NewMemoryBackend())

	// "저장해줘" matches both tables; the schedule branch stores it
	f.assistant.ProcessCommand(ctx, "회의록 메모 저장해줘")
	assert.Len(t, f.schedules.List(ctx), 1)
	assert.Empty(t, f.memos.List(ctx))
}

func TestProcessCommand_GreetingAndFallback(t *testing.T) {
	f := newFixture(t, storage.NewMemoryBackend())
	ctx := context.Background()

	assert.Equal(t, greetingReplies[1], f.assistant.ProcessCommand(ctx, "안녕"))
	assert.Equal(t, fallbackReplies[1], f.assistant.ProcessCommand(ctx, "날씨 어때"))

	seen := map[string]bool{}
	for i := 0; i < 4; i++ {
		a := New(f.schedules, f.memos, WithRand(fixedRand(i)))
		seen[a.ProcessCommand(ctx, "반가워")] = true
	}
	assert.Len(t, seen, len(greetingReplies))
}

func TestProcessCommand_TimeQuery(t *testing.T) {
	f := newFixture(t, storage.NewMemoryBackend())
	ctx := context.Background()

	assert.Equal(t, "현재 시간은 14:05입니다.", f.assistant.ProcessCommand(ctx, "지금 몇시야"))
	assert.Equal(t, "오늘은 2026년 10월 17일 토요일입니다.", f.assistant.ProcessCommand(ctx, "오늘 날짜가 뭐야"))
	assert.Equal(t, ReplyTimeUnclear, f.assistant.ProcessCommand(ctx, "언제였더라"))
}

func TestProcessCommand_StorageFailure(t *testing.T) {
	f := newFixture(t, brokenBackend{storage.NewMemoryBackend()})
	ctx := context.Background()

	assert.Equal(t, ReplyError, f.assistant.ProcessCommand(ctx, "내일 회의 등록"))
	assert.Equal(t, ReplyError, f.assistant.ProcessCommand(ctx, "메모해줘 우유"))
	// reads still work
	assert.Equal(t, ReplyNoTodaySchedule, f.assistant.ProcessCommand(ctx, "오늘 일정"))
}

func TestProcessCommand_AlwaysNonEmpty(t *testing.T) {
	f := newFixture(t, storage.NewMemoryBackend())
	for _, text := range []string{"", "   ", "?", "오늘", "다음", "최근"} {
		assert.NotEmpty(t, strings.TrimSpace(f.assistant.ProcessCommand(context.Background(), text)), text)
	}
}

func TestBriefing(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t, storage.NewMemoryBackend())
	assert.Equal(t, "좋은 아침입니다! 오늘은 10월 17일 토요일입니다. 오늘은 등록된 일정이 없습니다. 좋은 하루 되세요!", f.assistant.Briefing(ctx))

	f.addSchedule(t, "회의", "2026-10-17", "10:00")
	f.addSchedule(t, "등산", "2026-10-18", "07:00")
	f.addSchedule(t, "저녁", "2026-10-18", "19:00")
	f.addSchedule(t, "다음주", "2026-10-20", "19:00")

	assert.Equal(t,
		"좋은 아침입니다! 오늘은 10월 17일 토요일입니다. 오늘 일정은 10:00에 회의입니다. 내일은 2개의 일정이 있습니다. 좋은 하루 되세요!",
		f.assistant.Briefing(ctx))
}

func TestGenerateMemoTitle(t *testing.T) {
	now := time.Date(2026, 3, 5, 8, 7, 0, 0, time.UTC)

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"short", "우체국 들르기", "우체국 들르기"},
		{"five words", "a b c d e f g", "a b c d e"},
		{"collapses whitespace", "  우유   사기 \n 잊지 말기 ", "우유 사기 잊지 말기"},
		{"long", "abcdefghij abcdefghij abcdefghij", "abcdefghij abcdefghij abcde..."},
		{"exactly thirty", "abcdefghijklmn abcdefghijklmno", "abcdefghijklmn abcdefghijklmno"},
		{"korean long", "가나다라마바사아자차 가나다라마바사아자차 가나다라마바사아자차", "가나다라마바사아자차 가나다라마바사아자차 가나다라마..."},
		{"empty", "   ", "메모 3/5 8:07"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateMemoTitle(tt.content, now)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len([]rune(got)), 30)
		})
	}
}
