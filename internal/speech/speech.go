// Package speech adapts speech-to-text and text-to-speech engines for the
// assistant. Everything here speaks Korean.
package speech

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrUnsupported means the engine for that direction is not configured.
	ErrUnsupported = errors.New("speech capability not available")
	// ErrBusy is returned by Capture.Start while a turn is already open.
	ErrBusy = errors.New("speech capture already running")
)

// Notices shown to a user when a capability is missing.
const (
	NoticeNoRecognizer  = "이 환경에서는 음성 인식을 지원하지 않습니다."
	NoticeNoSynthesizer = "이 환경에서는 음성 합성을 지원하지 않습니다."
)

// Recognizer turns one recorded clip into text. filename carries the
// container format (voice.ogg, clip.webm) for engines that sniff it.
type Recognizer interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

// Synthesizer renders text to an encoded audio clip.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, opts SpeakOptions) ([]byte, error)
}

// SpeakOptions are hints; zero values mean engine defaults. Engines ignore
// fields they cannot honor.
type SpeakOptions struct {
	Rate   float64
	Pitch  float64
	Volume float64
	Voice  string
}

// RecognitionError wraps a failure from the recognizer for display.
type RecognitionError struct{ Err error }

func (e *RecognitionError) Error() string { return "음성 인식 오류: " + e.Err.Error() }
func (e *RecognitionError) Unwrap() error { return e.Err }

// SynthesisError wraps a failure from the synthesizer for display.
type SynthesisError struct{ Err error }

func (e *SynthesisError) Error() string { return "음성 합성 오류: " + e.Err.Error() }
func (e *SynthesisError) Unwrap() error { return e.Err }
