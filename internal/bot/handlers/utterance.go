package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/hray3182/secretary/internal/format"
	"github.com/hray3182/secretary/internal/speech"
)

const noSpeechReply = "음성을 알아듣지 못했습니다. 다시 말씀해 주세요."

// HandleMessage answers a text or voice utterance. One utterance per chat is
// processed at a time; others get BusyReply.
func (h *Handlers) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if msg.Voice == nil && strings.TrimSpace(msg.Text) == "" {
		return
	}

	unlock, ok := h.tryLock(chatID)
	if !ok {
		h.sendMessage(chatID, BusyReply)
		return
	}
	defer unlock()

	text := msg.Text
	if msg.Voice != nil {
		transcript, err := h.transcribeVoice(ctx, msg.Voice)
		if err != nil {
			slog.Warn("Failed to transcribe voice", "chat", chatID, "err", err)
			h.sendMessage(chatID, format.Escape(speechErrorText(err)))
			return
		}
		if transcript == "" {
			h.sendMessage(chatID, noSpeechReply)
			return
		}
		h.sendMessage(chatID, "🎤 "+format.Escape(transcript))
		text = transcript
	}

	reply := h.app.Assistant.ProcessCommand(ctx, text)
	h.sendMessage(chatID, format.Escape(reply))
	h.sendVoice(ctx, chatID, reply)
}

func (h *Handlers) transcribeVoice(ctx context.Context, voice *tgbotapi.Voice) (string, error) {
	if h.app.Recognizer == nil {
		return "", speech.ErrUnsupported
	}

	url, err := h.api.GetFileDirectURL(voice.FileID)
	if err != nil {
		return "", fmt.Errorf("failed to get voice file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := h.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download voice: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download voice: status %d", resp.StatusCode)
	}

	text, err := h.app.Recognizer.Transcribe(ctx, resp.Body, "voice.ogg")
	if err != nil {
		return "", &speech.RecognitionError{Err: err}
	}
	return strings.TrimSpace(text), nil
}

func speechErrorText(err error) string {
	var recErr *speech.RecognitionError
	switch {
	case errors.Is(err, speech.ErrUnsupported):
		return speech.NoticeNoRecognizer
	case errors.As(err, &recErr):
		return recErr.Error()
	default:
		return "음성 메시지를 받지 못했습니다. 다시 보내 주세요."
	}
}
