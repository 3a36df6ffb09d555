package speech

import (
	"bytes"
	"context"
	"errors"
	"sync"
)

var errNotCapturing = errors.New("no capture in progress")

// Capture collects audio for one utterance at a time and hands it to a
// Recognizer when the turn ends. There is no silence detection or timeout;
// the caller decides when to Stop.
type Capture struct {
	recognizer Recognizer
	filename   string

	// OnTranscript receives the recognized text. Only final transcripts are
	// produced.
	OnTranscript func(text string, final bool)
	// OnError receives a *RecognitionError when transcription fails.
	OnError func(err error)

	mu     sync.Mutex
	buf    bytes.Buffer
	active bool
}

func NewCapture(recognizer Recognizer, filename string) *Capture {
	return &Capture{recognizer: recognizer, filename: filename}
}

// Supported reports whether a recognizer is configured.
func (c *Capture) Supported() bool {
	return c.recognizer != nil
}

func (c *Capture) Start() error {
	if c.recognizer == nil {
		return ErrUnsupported
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active {
		return ErrBusy
	}
	c.buf.Reset()
	c.active = true
	return nil
}

// SetFilename changes the name passed to the recognizer for later turns.
func (c *Capture) SetFilename(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filename = name
}

func (c *Capture) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Write appends a chunk of the current recording.
func (c *Capture) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return 0, errNotCapturing
	}
	return c.buf.Write(p)
}

// Stop closes the turn and transcribes what was recorded. An empty recording
// yields an empty transcript without calling the recognizer.
func (c *Capture) Stop(ctx context.Context) (string, error) {
	c.mu.Lock()
	if !c.active {
		c.mu.Unlock()
		return "", errNotCapturing
	}
	audio := bytes.Clone(c.buf.Bytes())
	filename := c.filename
	c.buf.Reset()
	c.active = false
	c.mu.Unlock()

	if len(audio) == 0 {
		return "", nil
	}

	text, err := c.recognizer.Transcribe(ctx, bytes.NewReader(audio), filename)
	if err != nil {
		err = &RecognitionError{Err: err}
		if c.OnError != nil {
			c.OnError(err)
		}
		return "", err
	}

	if c.OnTranscript != nil {
		c.OnTranscript(text, true)
	}
	return text, nil
}

// Abort drops the current turn without transcribing it.
func (c *Capture) Abort() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buf.Reset()
	c.active = false
}
