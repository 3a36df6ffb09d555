// Package server exposes the assistant to browser clients over a WebSocket.
//
// Client frames are JSON text messages:
//
//	{"type": "command", "text": "오늘 일정 알려줘"}
//	{"type": "briefing"}
//	{"type": "start", "format": "webm"}
//	{"type": "stop"}
//	{"type": "abort"}
//
// Between start and stop, binary messages carry recorded audio. The server
// answers with reply, transcript, error and notice frames; replies carry
// base64 Ogg/Opus audio when a synthesizer is configured.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hray3182/secretary/internal/app"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	app      *app.App
	upgrader websocket.Upgrader
}

func New(a *app.App) *Server {
	return &Server{
		app: a,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// ListenAndServe serves until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to shut down server", "err", err)
		}
	}()

	slog.Info("Listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("Failed to upgrade connection", "remote", r.RemoteAddr, "err", err)
		return
	}
	defer conn.Close()

	slog.Debug("Session opened", "remote", r.RemoteAddr)
	newSession(conn, s.app).run(r.Context())
	slog.Debug("Session closed", "remote", r.RemoteAddr)
}

func isClosed(err error) bool {
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure)
}
