package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	StoreDriver     string
	StorePath       string
	DatabaseURI     string
	TelegramToken   string
	AIAPIKey        string
	AIBaseURL       string
	STTModel        string
	TTSModel        string
	TTSVoice        string
	TTSSpeed        float64
	Timezone        string
	LogLevel        string
	ListenAddr      string
	BriefingTime    string // HH:MM
	BriefingChatIDs []int64
}

// Load reads envFile (optional) and the process environment.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		// .env file is optional in production
	}

	cfg := &Config{
		StoreDriver:   getEnvOrDefault("STORE_DRIVER", "file"),
		StorePath:     getEnvOrDefault("STORE_PATH", "./data"),
		DatabaseURI:   os.Getenv("DATABASE_URI"),
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		AIAPIKey:      os.Getenv("AI_API_KEY"),
		AIBaseURL:     getEnvOrDefault("AI_BASE_URL", "https://api.openai.com/v1"),
		STTModel:      getEnvOrDefault("STT_MODEL", "whisper-1"),
		TTSModel:      getEnvOrDefault("TTS_MODEL", "tts-1"),
		TTSVoice:      getEnvOrDefault("TTS_VOICE", "alloy"),
		Timezone:      getEnvOrDefault("TZ_NAME", "Asia/Seoul"),
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "info"),
		ListenAddr:    getEnvOrDefault("LISTEN_ADDR", ":8080"),
		BriefingTime:  getEnvOrDefault("BRIEFING_TIME", "08:00"),
	}

	speed, err := strconv.ParseFloat(getEnvOrDefault("TTS_SPEED", "1.0"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid TTS_SPEED: %w", err)
	}
	cfg.TTSSpeed = speed

	if _, err := time.Parse("15:04", cfg.BriefingTime); err != nil {
		return nil, fmt.Errorf("invalid BRIEFING_TIME %q: %w", cfg.BriefingTime, err)
	}

	ids, err := parseChatIDs(os.Getenv("BRIEFING_CHAT_IDS"))
	if err != nil {
		return nil, err
	}
	cfg.BriefingChatIDs = ids

	return cfg, nil
}

// Location resolves Timezone, falling back to the local zone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func parseChatIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid chat id %q in BRIEFING_CHAT_IDS: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
