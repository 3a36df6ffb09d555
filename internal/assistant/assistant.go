// Package assistant turns a recognized utterance into a spoken reply.
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/hray3182/secretary/internal/intent"
	"github.com/hray3182/secretary/internal/repository"
)

// Randomizer picks an index in [0, n). *rand.Rand satisfies it.
type Randomizer interface {
	Intn(n int) int
}

type globalRand struct{}

func (globalRand) Intn(n int) int { return rand.Intn(n) }

type Assistant struct {
	schedules *repository.ScheduleRepository
	memos     *repository.MemoRepository
	now       func() time.Time
	loc       *time.Location
	rand      Randomizer
}

type Option func(*Assistant)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *Assistant) { a.now = now }
}

// WithLocation sets the zone used for "today" and for reported times.
func WithLocation(loc *time.Location) Option {
	return func(a *Assistant) { a.loc = loc }
}

// WithRand sets the source used to pick canned replies.
func WithRand(r Randomizer) Option {
	return func(a *Assistant) { a.rand = r }
}

func New(schedules *repository.ScheduleRepository, memos *repository.MemoRepository, opts ...Option) *Assistant {
	a := &Assistant{
		schedules: schedules,
		memos:     memos,
		now:       time.Now,
		loc:       time.Local,
		rand:      globalRand{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Assistant) clock() time.Time {
	return a.now().In(a.loc)
}

// ProcessCommand answers one utterance. It always returns a non-empty reply;
// failures inside a branch turn into ReplyError.
func (a *Assistant) ProcessCommand(ctx context.Context, utterance string) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic while processing command", "utterance", utterance, "panic", r)
			reply = ReplyError
		}
	}()

	reply, err := a.dispatch(ctx, utterance)
	if err != nil {
		slog.Error("Failed to process command", "utterance", utterance, "err", err)
		return ReplyError
	}
	if reply == "" {
		return ReplyError
	}
	return reply
}

func (a *Assistant) dispatch(ctx context.Context, utterance string) (string, error) {
	lower := intent.Normalize(utterance)
	kind := intent.Classify(lower)
	slog.Debug("Classified utterance", "intent", kind.String(), "text", utterance)

	switch kind {
	case intent.Schedule:
		return a.handleSchedule(ctx, lower, utterance)
	case intent.Memo:
		return a.handleMemo(ctx, lower, utterance)
	case intent.Greeting:
		return a.pick(greetingReplies), nil
	case intent.TimeQuery:
		return a.handleTimeQuery(lower), nil
	default:
		return a.pick(fallbackReplies), nil
	}
}

func (a *Assistant) pick(replies []string) string {
	return replies[a.rand.Intn(len(replies))]
}

func (a *Assistant) handleTimeQuery(lower string) string {
	now := a.clock()

	if intent.ContainsAny(lower, "시간", "몇시") {
		return fmt.Sprintf("현재 시간은 %s입니다.", now.Format("15:04"))
	}
	if intent.ContainsAny(lower, "날짜", "오늘") {
		return fmt.Sprintf("오늘은 %s입니다.", LongDate(now))
	}
	return ReplyTimeUnclear
}
