// Package app holds the state shared by every front end: the store, the
// repositories, the dispatcher and the optional speech engines.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/hray3182/secretary/internal/assistant"
	"github.com/hray3182/secretary/internal/config"
	"github.com/hray3182/secretary/internal/database"
	"github.com/hray3182/secretary/internal/repository"
	"github.com/hray3182/secretary/internal/speech"
	"github.com/hray3182/secretary/internal/storage"
)

type App struct {
	Config    *config.Config
	Location  *time.Location
	Store     storage.Backend
	Schedules *repository.ScheduleRepository
	Memos     *repository.MemoRepository
	Assistant *assistant.Assistant

	// nil when no speech API key is configured
	Recognizer  speech.Recognizer
	Synthesizer speech.Synthesizer
}

// New opens the configured store and builds the application around it.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	a := NewWithStore(cfg, store)
	if cfg.AIAPIKey != "" {
		client := speech.NewOpenAI(cfg.AIAPIKey, cfg.AIBaseURL, cfg.STTModel, cfg.TTSModel, cfg.TTSVoice, cfg.TTSSpeed)
		a.Recognizer = client
		a.Synthesizer = client
		slog.Info("Speech enabled", "stt", cfg.STTModel, "tts", cfg.TTSModel, "voice", cfg.TTSVoice)
	} else {
		slog.Info("Speech API not configured, voice features disabled")
	}
	return a, nil
}

// NewWithStore wires repositories and the dispatcher on an already open store.
// Speech engines are left unset.
func NewWithStore(cfg *config.Config, store storage.Backend, opts ...assistant.Option) *App {
	loc := cfg.Location()
	schedules := repository.NewScheduleRepository(store)
	memos := repository.NewMemoRepository(store)

	opts = append([]assistant.Option{assistant.WithLocation(loc)}, opts...)

	return &App{
		Config:    cfg,
		Location:  loc,
		Store:     store,
		Schedules: schedules,
		Memos:     memos,
		Assistant: assistant.New(schedules, memos, opts...),
	}
}

func (a *App) Close() error {
	return a.Store.Close()
}

// Now is the current time in the configured zone.
func (a *App) Now() time.Time {
	return time.Now().In(a.Location)
}

// OpenStore picks the storage backend named by STORE_DRIVER.
func OpenStore(ctx context.Context, cfg *config.Config) (storage.Backend, error) {
	switch strings.ToLower(cfg.StoreDriver) {
	case "", "file":
		slog.Info("Using file store", "dir", cfg.StorePath)
		return storage.NewFileBackend(cfg.StorePath)
	case "memory":
		slog.Warn("Using in-memory store, data is lost on exit")
		return storage.NewMemoryBackend(), nil
	case "sqlite":
		path := cfg.StorePath
		if filepath.Ext(path) == "" {
			path = filepath.Join(path, "secretary.db")
		}
		slog.Info("Using sqlite store", "path", path)
		return database.NewSQLite(path)
	case "postgres":
		if cfg.DatabaseURI == "" {
			return nil, fmt.Errorf("DATABASE_URI is required for the postgres store")
		}
		db, err := database.New(ctx, cfg.DatabaseURI)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		slog.Info("Using postgres store")
		return db, nil
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}
