package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/hray3182/secretary/internal/app"
	"github.com/hray3182/secretary/internal/speech"
)

const (
	frameCommand  = "command"
	frameBriefing = "briefing"
	frameStart    = "start"
	frameStop     = "stop"
	frameAbort    = "abort"

	frameReply      = "reply"
	frameTranscript = "transcript"
	frameError      = "error"
	frameNotice     = "notice"
)

const (
	noticeListening = "듣고 있습니다."
	noticeNoSpeech  = "음성을 알아듣지 못했습니다. 다시 말씀해 주세요."
	errAlreadyOn    = "이미 음성을 듣고 있습니다."
	errBadFrame     = "알 수 없는 요청입니다."
)

type clientFrame struct {
	Type   string `json:"type"`
	Text   string `json:"text,omitempty"`
	Format string `json:"format,omitempty"`
}

type serverFrame struct {
	Type  string `json:"type"`
	Text  string `json:"text,omitempty"`
	Final bool   `json:"final,omitempty"`
	Audio string `json:"audio,omitempty"`
}

// session serves one connection. Frames are handled one at a time on the
// reading goroutine, which is also the only writer.
type session struct {
	conn    *websocket.Conn
	app     *app.App
	capture *speech.Capture
	speaker *speech.Speaker
}

func newSession(conn *websocket.Conn, a *app.App) *session {
	s := &session{
		conn:    conn,
		app:     a,
		capture: speech.NewCapture(a.Recognizer, "clip.webm"),
		speaker: speech.NewSpeaker(a.Synthesizer, speech.SpeakOptions{}),
	}
	s.capture.OnTranscript = func(text string, final bool) {
		s.write(serverFrame{Type: frameTranscript, Text: text, Final: final})
	}
	s.capture.OnError = s.writeError
	s.speaker.OnError = s.writeError
	return s
}

func (s *session) run(ctx context.Context) {
	if !s.capture.Supported() {
		s.write(serverFrame{Type: frameNotice, Text: speech.NoticeNoRecognizer})
	}
	if !s.speaker.Supported() {
		s.write(serverFrame{Type: frameNotice, Text: speech.NoticeNoSynthesizer})
	}

	for {
		kind, data, err := s.conn.ReadMessage()
		if err != nil {
			if !isClosed(err) {
				slog.Warn("Failed to read frame", "err", err)
			}
			s.speaker.Cancel()
			return
		}

		switch kind {
		case websocket.BinaryMessage:
			if _, err := s.capture.Write(data); err != nil {
				slog.Debug("Dropped audio outside capture", "bytes", len(data))
			}
		case websocket.TextMessage:
			var frame clientFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				s.write(serverFrame{Type: frameError, Text: errBadFrame})
				continue
			}
			s.handle(ctx, frame)
		}
	}
}

func (s *session) handle(ctx context.Context, frame clientFrame) {
	switch frame.Type {
	case frameCommand:
		s.reply(ctx, s.app.Assistant.ProcessCommand(ctx, frame.Text))
	case frameBriefing:
		s.reply(ctx, s.app.Assistant.Briefing(ctx))
	case frameStart:
		s.start(frame.Format)
	case frameStop:
		s.stop(ctx)
	case frameAbort:
		s.capture.Abort()
		s.speaker.Cancel()
	default:
		s.write(serverFrame{Type: frameError, Text: errBadFrame})
	}
}

func (s *session) start(format string) {
	if format != "" && !s.capture.Active() {
		s.capture.SetFilename("clip." + strings.TrimPrefix(format, "."))
	}

	switch err := s.capture.Start(); {
	case errors.Is(err, speech.ErrUnsupported):
		s.write(serverFrame{Type: frameNotice, Text: speech.NoticeNoRecognizer})
	case errors.Is(err, speech.ErrBusy):
		s.write(serverFrame{Type: frameError, Text: errAlreadyOn})
	case err == nil:
		s.speaker.Cancel()
		s.write(serverFrame{Type: frameNotice, Text: noticeListening})
	}
}

func (s *session) stop(ctx context.Context) {
	text, err := s.capture.Stop(ctx)
	if err != nil {
		// recognizer failures were already reported through OnError
		return
	}
	if strings.TrimSpace(text) == "" {
		s.write(serverFrame{Type: frameNotice, Text: noticeNoSpeech})
		return
	}
	s.reply(ctx, s.app.Assistant.ProcessCommand(ctx, text))
}

func (s *session) reply(ctx context.Context, text string) {
	frame := serverFrame{Type: frameReply, Text: text}
	if s.speaker.Supported() {
		if audio, err := s.speaker.Speak(ctx, text, speech.SpeakOptions{}); err == nil {
			frame.Audio = base64.StdEncoding.EncodeToString(audio)
		}
	}
	s.write(frame)
}

func (s *session) writeError(err error) {
	s.write(serverFrame{Type: frameError, Text: err.Error()})
}

func (s *session) write(frame serverFrame) {
	if err := s.conn.WriteJSON(frame); err != nil {
		slog.Warn("Failed to write frame", "type", frame.Type, "err", err)
	}
}
