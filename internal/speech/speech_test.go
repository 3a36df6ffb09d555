package speech

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecognizer struct {
	text  string
	err   error
	calls int
	got   []byte
	name  string
}

func (f *fakeRecognizer) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	f.calls++
	f.got, _ = io.ReadAll(audio)
	f.name = filename
	return f.text, f.err
}

type fakeSynth struct {
	mu    sync.Mutex
	opts  []SpeakOptions
	block chan struct{}
	err   error
}

func (f *fakeSynth) Synthesize(ctx context.Context, text string, opts SpeakOptions) ([]byte, error) {
	f.mu.Lock()
	f.opts = append(f.opts, opts)
	f.mu.Unlock()

	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return []byte("audio:" + text), nil
}

func TestCapture_Turn(t *testing.T) {
	rec := &fakeRecognizer{text: "오늘 일정 알려줘"}
	c := NewCapture(rec, "clip.webm")

	var transcripts []string
	c.OnTranscript = func(text string, final bool) {
		assert.True(t, final)
		transcripts = append(transcripts, text)
	}

	require.NoError(t, c.Start())
	assert.True(t, c.Active())
	assert.ErrorIs(t, c.Start(), ErrBusy)

	_, err := c.Write([]byte("abc"))
	require.NoError(t, err)
	_, err = c.Write([]byte("def"))
	require.NoError(t, err)

	text, err := c.Stop(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "오늘 일정 알려줘", text)
	assert.Equal(t, []string{"오늘 일정 알려줘"}, transcripts)
	assert.Equal(t, "abcdef", string(rec.got))
	assert.Equal(t, "clip.webm", rec.name)
	assert.False(t, c.Active())

	// a new turn is allowed after stop
	require.NoError(t, c.Start())
}

func TestCapture_AbortDiscards(t *testing.T) {
	rec := &fakeRecognizer{text: "x"}
	c := NewCapture(rec, "clip.webm")

	require.NoError(t, c.Start())
	_, _ = c.Write([]byte("abc"))
	c.Abort()

	_, err := c.Write([]byte("late"))
	assert.Error(t, err)
	_, err = c.Stop(context.Background())
	assert.Error(t, err)
	assert.Zero(t, rec.calls)
}

func TestCapture_EmptyRecording(t *testing.T) {
	rec := &fakeRecognizer{text: "x"}
	c := NewCapture(rec, "clip.webm")

	require.NoError(t, c.Start())
	text, err := c.Stop(context.Background())
	require.NoError(t, err)
	assert.Empty(t, text)
	assert.Zero(t, rec.calls)
}

func TestCapture_RecognizerError(t *testing.T) {
	rec := &fakeRecognizer{err: errors.New("network down")}
	c := NewCapture(rec, "clip.webm")

	var signaled error
	c.OnError = func(err error) { signaled = err }

	require.NoError(t, c.Start())
	_, _ = c.Write([]byte("abc"))
	_, err := c.Stop(context.Background())

	var recErr *RecognitionError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, "음성 인식 오류: network down", err.Error())
	assert.Equal(t, err, signaled)
}

func TestCapture_Unsupported(t *testing.T) {
	c := NewCapture(nil, "clip.webm")
	assert.False(t, c.Supported())
	assert.ErrorIs(t, c.Start(), ErrUnsupported)
}

func TestSpeaker_Signals(t *testing.T) {
	synth := &fakeSynth{}
	s := NewSpeaker(synth, SpeakOptions{Rate: 1.2, Voice: "nova"})

	var started string
	var ended []byte
	s.OnStart = func(text string) { started = text }
	s.OnEnd = func(audio []byte) { ended = audio }

	audio, err := s.Speak(context.Background(), "안녕하세요", SpeakOptions{Pitch: 1.5})
	require.NoError(t, err)
	assert.Equal(t, "audio:안녕하세요", string(audio))
	assert.Equal(t, "안녕하세요", started)
	assert.Equal(t, audio, ended)
	assert.Equal(t, SpeakOptions{Rate: 1.2, Pitch: 1.5, Voice: "nova"}, synth.opts[0])
}

func TestSpeaker_NewSpeechCancelsPrevious(t *testing.T) {
	synth := &fakeSynth{block: make(chan struct{})}
	s := NewSpeaker(synth, SpeakOptions{})

	var errs []error
	s.OnError = func(err error) { errs = append(errs, err) }

	firstDone := make(chan error, 1)
	go func() {
		_, err := s.Speak(context.Background(), "first", SpeakOptions{})
		firstDone <- err
	}()

	require.Eventually(t, func() bool {
		synth.mu.Lock()
		defer synth.mu.Unlock()
		return len(synth.opts) == 1
	}, time.Second, 5*time.Millisecond)

	secondDone := make(chan error, 1)
	go func() {
		_, err := s.Speak(context.Background(), "second", SpeakOptions{})
		secondDone <- err
	}()

	select {
	case err := <-firstDone:
		assert.True(t, IsCanceled(err))
	case <-time.After(time.Second):
		t.Fatal("first speech was not canceled")
	}

	close(synth.block)
	require.NoError(t, <-secondDone)
	assert.Empty(t, errs)
}

func TestSpeaker_Error(t *testing.T) {
	s := NewSpeaker(&fakeSynth{err: errors.New("quota")}, SpeakOptions{})

	var signaled error
	s.OnError = func(err error) { signaled = err }

	_, err := s.Speak(context.Background(), "x", SpeakOptions{})
	require.Error(t, err)
	assert.Equal(t, "음성 합성 오류: quota", err.Error())
	assert.Equal(t, err, signaled)
}

func TestSpeaker_Unsupported(t *testing.T) {
	s := NewSpeaker(nil, SpeakOptions{})
	assert.False(t, s.Supported())
	_, err := s.Speak(context.Background(), "x", SpeakOptions{})
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestOpenAI_Transcribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/transcriptions", r.URL.Path)
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		assert.Equal(t, "ko", r.FormValue("language"))
		assert.Equal(t, "whisper-1", r.FormValue("model"))

		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		assert.Equal(t, "voice.ogg", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":" 메모해줘 우체국 들르기 "}`))
	}))
	defer srv.Close()

	c := NewOpenAI("test-key", srv.URL+"/v1", "whisper-1", "tts-1", "alloy", 1.0)
	text, err := c.Transcribe(context.Background(), strings.NewReader("OggS"), "voice.ogg")
	require.NoError(t, err)
	assert.Equal(t, "메모해줘 우체국 들르기", text)
}

func TestOpenAI_Synthesize(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/speech", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte("OggS-audio"))
	}))
	defer srv.Close()

	c := NewOpenAI("test-key", srv.URL+"/v1", "whisper-1", "tts-1", "nova", 1.0)
	audio, err := c.Synthesize(context.Background(), "안녕하세요", SpeakOptions{Rate: 9, Voice: "ko-KR-Standard-A"})
	require.NoError(t, err)
	assert.Equal(t, "OggS-audio", string(audio))
	assert.Equal(t, "안녕하세요", body["input"])
	assert.Equal(t, "nova", body["voice"])
	assert.Equal(t, "opus", body["response_format"])
	assert.Equal(t, 4.0, body["speed"])
}

func TestOpenAI_VoiceAndSpeed(t *testing.T) {
	c := NewOpenAI("k", "http://localhost", "whisper-1", "tts-1", "unknown", 1.1)

	assert.Equal(t, "shimmer", c.selectVoice("Shimmer"))
	assert.Equal(t, "alloy", c.selectVoice(""))

	c.voice = "echo"
	assert.Equal(t, "echo", c.selectVoice("robot"))

	assert.Equal(t, 1.1, c.speedFor(0))
	assert.Equal(t, 0.25, c.speedFor(0.1))
	assert.Equal(t, 2.0, c.speedFor(2))

	c.speed = 0
	assert.Equal(t, 1.0, c.speedFor(0))
}

