package speech

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"
)

const (
	minSpeed = 0.25
	maxSpeed = 4.0
)

// Voices accepted by the OpenAI speech endpoint. All of them read Korean.
var Voices = []string{"alloy", "ash", "coral", "echo", "fable", "onyx", "nova", "sage", "shimmer"}

// OpenAI implements Recognizer and Synthesizer on an OpenAI-compatible API.
type OpenAI struct {
	client   *openai.Client
	sttModel string
	ttsModel string
	voice    string
	speed    float64
}

func NewOpenAI(apiKey, baseURL, sttModel, ttsModel, voice string, speed float64) *OpenAI {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL

	return &OpenAI{
		client:   openai.NewClientWithConfig(config),
		sttModel: sttModel,
		ttsModel: ttsModel,
		voice:    voice,
		speed:    speed,
	}
}

func (c *OpenAI) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.sttModel,
		FilePath: filename,
		Reader:   audio,
		Language: "ko",
	})
	if err != nil {
		return "", fmt.Errorf("failed to call transcription API: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

// Synthesize returns Ogg/Opus audio.
func (c *OpenAI) Synthesize(ctx context.Context, text string, opts SpeakOptions) ([]byte, error) {
	resp, err := c.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(c.ttsModel),
		Input:          text,
		Voice:          openai.SpeechVoice(c.selectVoice(opts.Voice)),
		ResponseFormat: openai.SpeechResponseFormatOpus,
		Speed:          c.speedFor(opts.Rate),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to call speech API: %w", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read speech audio: %w", err)
	}
	return audio, nil
}

// selectVoice prefers the requested voice, then the configured one, then the
// first known voice.
func (c *OpenAI) selectVoice(requested string) string {
	for _, candidate := range []string{requested, c.voice} {
		if voice, ok := knownVoice(candidate); ok {
			return voice
		}
	}
	return Voices[0]
}

func (c *OpenAI) speedFor(rate float64) float64 {
	speed := c.speed
	if rate > 0 {
		speed = rate
	}
	if speed <= 0 {
		return 1.0
	}
	return min(max(speed, minSpeed), maxSpeed)
}

func knownVoice(name string) (string, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, v := range Voices {
		if v == name {
			return v, true
		}
	}
	return "", false
}
