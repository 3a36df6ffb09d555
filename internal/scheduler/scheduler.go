package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/hray3182/secretary/internal/format"
	"github.com/hray3182/secretary/internal/models"
)

// Sender delivers a message. *tgbotapi.BotAPI satisfies it.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Briefer produces the morning briefing text.
type Briefer interface {
	Briefing(ctx context.Context) string
}

// Scheduler pushes the daily briefing to a fixed list of chats once per day,
// at or after the configured time.
type Scheduler struct {
	api           Sender
	briefer       Briefer
	chatIDs       []int64
	briefingTime  string
	loc           *time.Location
	now           func() time.Time
	checkInterval time.Duration

	mu       sync.Mutex
	lastSent map[int64]string // chat -> YYYY-MM-DD
}

func New(api Sender, briefer Briefer, chatIDs []int64, briefingTime string, loc *time.Location) *Scheduler {
	return &Scheduler{
		api:           api,
		briefer:       briefer,
		chatIDs:       chatIDs,
		briefingTime:  briefingTime,
		loc:           loc,
		now:           time.Now,
		checkInterval: 1 * time.Minute,
		lastSent:      make(map[int64]string),
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	if len(s.chatIDs) == 0 {
		slog.Info("No briefing chats configured, scheduler idle")
		return
	}

	slog.Info("Scheduler started", "briefing_time", s.briefingTime, "chats", len(s.chatIDs))
	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	s.check(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Scheduler stopped")
			return
		case <-ticker.C:
			s.check(ctx)
		}
	}
}

func (s *Scheduler) check(ctx context.Context) {
	now := s.now().In(s.loc)

	var due []int64
	for _, chatID := range s.chatIDs {
		if s.shouldSendBriefing(chatID, now) {
			due = append(due, chatID)
		}
	}
	if len(due) == 0 {
		return
	}

	text := s.briefer.Briefing(ctx)
	parsed := format.ParseMarkdown("☀️ **오늘의 브리핑**\n\n" + format.Escape(text))

	for _, chatID := range due {
		msg := tgbotapi.NewMessage(chatID, parsed.Text)
		msg.Entities = parsed.Entities
		if _, err := s.api.Send(msg); err != nil {
			slog.Error("Failed to send briefing", "chat", chatID, "err", err)
			continue
		}
		s.markSent(chatID, now)
		slog.Info("Sent briefing", "chat", chatID)
	}
}

// shouldSendBriefing is true once the local briefing time has passed today
// and nothing has been sent to chatID yet today.
func (s *Scheduler) shouldSendBriefing(chatID int64, now time.Time) bool {
	today := now.Format(models.DateLayout)

	s.mu.Lock()
	last := s.lastSent[chatID]
	s.mu.Unlock()
	if last == today {
		return false
	}

	at, err := time.ParseInLocation(models.TimeLayout, s.briefingTime, now.Location())
	if err != nil {
		return false
	}
	sendAt := time.Date(now.Year(), now.Month(), now.Day(), at.Hour(), at.Minute(), 0, 0, now.Location())
	return !now.Before(sendAt)
}

func (s *Scheduler) markSent(chatID int64, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSent[chatID] = now.Format(models.DateLayout)
}
