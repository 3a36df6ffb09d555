package speech

import (
	"context"
	"errors"
	"sync"
)

// Speaker synthesizes replies one at a time. Starting a new Speak cancels
// the one still in flight.
type Speaker struct {
	synth Synthesizer
	opts  SpeakOptions

	OnStart func(text string)
	OnEnd   func(audio []byte)
	OnError func(err error)

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// NewSpeaker uses defaults for any Speak call that passes zero options.
func NewSpeaker(synth Synthesizer, defaults SpeakOptions) *Speaker {
	return &Speaker{synth: synth, opts: defaults}
}

func (s *Speaker) Supported() bool {
	return s.synth != nil
}

// Speak renders text and returns the audio. A call interrupted by a later
// Speak or Cancel returns the context error and fires no OnError.
func (s *Speaker) Speak(ctx context.Context, text string, opts SpeakOptions) ([]byte, error) {
	if s.synth == nil {
		return nil, ErrUnsupported
	}

	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	s.cancel = cancel
	s.mu.Unlock()
	defer s.release(gen, cancel)

	if s.OnStart != nil {
		s.OnStart(text)
	}

	audio, err := s.synth.Synthesize(ctx, text, s.merge(opts))
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err != nil {
		err = &SynthesisError{Err: err}
		if s.OnError != nil {
			s.OnError(err)
		}
		return nil, err
	}

	if s.OnEnd != nil {
		s.OnEnd(audio)
	}
	return audio, nil
}

// Cancel stops whatever Speak is in flight.
func (s *Speaker) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Speaker) release(gen uint64, cancel context.CancelFunc) {
	cancel()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen == gen {
		s.cancel = nil
	}
}

func (s *Speaker) merge(opts SpeakOptions) SpeakOptions {
	if opts.Rate == 0 {
		opts.Rate = s.opts.Rate
	}
	if opts.Pitch == 0 {
		opts.Pitch = s.opts.Pitch
	}
	if opts.Volume == 0 {
		opts.Volume = s.opts.Volume
	}
	if opts.Voice == "" {
		opts.Voice = s.opts.Voice
	}
	return opts
}

// IsCanceled reports whether err came from an interrupted Speak.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
