package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/hray3182/secretary/internal/app"
	"github.com/hray3182/secretary/internal/format"
	"github.com/hray3182/secretary/internal/speech"
)

// BusyReply answers an utterance that arrives while the previous one in the
// same chat is still being handled.
const BusyReply = "잠시만요, 이전 요청을 처리하고 있습니다."

// API is the part of *tgbotapi.BotAPI the handlers use.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
}

type Handlers struct {
	api        API
	app        *app.App
	synth      speech.Synthesizer
	httpClient *http.Client

	mu       sync.Mutex
	gates    map[int64]*sync.Mutex
	speakers map[int64]*speech.Speaker
}

func New(api API, a *app.App) *Handlers {
	return &Handlers{
		api:        api,
		app:        a,
		synth:      a.Synthesizer,
		httpClient: http.DefaultClient,
		gates:      make(map[int64]*sync.Mutex),
		speakers:   make(map[int64]*speech.Speaker),
	}
}

func (h *Handlers) HandleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		h.handleStart(msg)
	case "help":
		h.handleHelp(msg)
	case "briefing":
		h.handleBriefing(ctx, msg)
	case "schedules":
		h.handleScheduleList(ctx, msg)
	case "memos":
		h.handleMemoList(ctx, msg)
	case "delete_schedule":
		h.handleDeleteSchedule(ctx, msg)
	case "delete_memo":
		h.handleDeleteMemo(ctx, msg)
	default:
		h.sendMessage(msg.Chat.ID, "알 수 없는 명령입니다. /help 로 사용 가능한 명령을 확인하세요.")
	}
}

// tryLock claims the chat's processing gate.
func (h *Handlers) tryLock(chatID int64) (unlock func(), ok bool) {
	h.mu.Lock()
	gate, exists := h.gates[chatID]
	if !exists {
		gate = &sync.Mutex{}
		h.gates[chatID] = gate
	}
	h.mu.Unlock()

	if !gate.TryLock() {
		return nil, false
	}
	return gate.Unlock, true
}

// speakerFor returns the chat's speaker. A new reply cancels only the same
// chat's unfinished one.
func (h *Handlers) speakerFor(chatID int64) *speech.Speaker {
	h.mu.Lock()
	defer h.mu.Unlock()

	sp, ok := h.speakers[chatID]
	if !ok {
		sp = speech.NewSpeaker(h.synth, speech.SpeakOptions{})
		h.speakers[chatID] = sp
	}
	return sp
}

func (h *Handlers) sendMessage(chatID int64, text string) {
	parsed := format.ParseMarkdown(text)
	msg := tgbotapi.NewMessage(chatID, parsed.Text)
	msg.Entities = parsed.Entities
	if _, err := h.api.Send(msg); err != nil {
		slog.Error("Failed to send message", "chat", chatID, "err", err)
	}
}

// sendVoice speaks text into the chat when a synthesizer is configured.
func (h *Handlers) sendVoice(ctx context.Context, chatID int64, text string) {
	if h.synth == nil {
		return
	}

	audio, err := h.speakerFor(chatID).Speak(ctx, text, speech.SpeakOptions{})
	if err != nil {
		slog.Warn("Failed to synthesize reply", "chat", chatID, "err", err)
		return
	}

	voice := tgbotapi.NewVoice(chatID, tgbotapi.FileBytes{Name: "reply.ogg", Bytes: audio})
	if _, err := h.api.Send(voice); err != nil {
		slog.Error("Failed to send voice", "chat", chatID, "err", err)
	}
}

func (h *Handlers) handleStart(msg *tgbotapi.Message) {
	name := "사용자"
	if msg.From != nil && msg.From.FirstName != "" {
		name = msg.From.FirstName
	}

	h.sendMessage(msg.Chat.ID, "👋 안녕하세요, "+format.Escape(name)+"님!\n\n"+
		"저는 음성 비서입니다. 일정과 메모를 관리해 드려요.\n\n"+
		"말하거나 입력해 보세요:\n"+
		"• 내일 10시에 회의 등록해줘\n"+
		"• 오늘 일정 알려줘\n"+
		"• 메모해줘 우체국 들르기\n\n"+
		"/help 로 전체 명령을 볼 수 있습니다.")
}

func (h *Handlers) handleHelp(msg *tgbotapi.Message) {
	h.sendMessage(msg.Chat.ID, `📖 **명령 목록**

/briefing - 오늘의 브리핑
/schedules - 일정 목록
/memos - 최근 메모
/delete_schedule <ID> - 일정 삭제
/delete_memo <ID> - 메모 삭제

**음성 또는 문장으로**
• 내일 오후 3시 치과 예약 등록해줘
• 다음 일정 알려줘
• 지금 몇시야
• 기록해줘 주차 위치 B2
• 최근 노트 보여줘`)
}

func (h *Handlers) handleBriefing(ctx context.Context, msg *tgbotapi.Message) {
	text := h.app.Assistant.Briefing(ctx)
	h.sendMessage(msg.Chat.ID, "☀️ **오늘의 브리핑**\n\n"+format.Escape(text))
	h.sendVoice(ctx, msg.Chat.ID, text)
}
