package stt

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhilbhutani/voicedeck/internal/apperr"
	"github.com/nikhilbhutani/voicedeck/internal/config"
)

type whisperCall struct {
	path     string
	auth     string
	model    string
	format   string
	fileName string
	audio    string
}

func initWhisperServer(t *testing.T, code int, resp string) (string, *[]whisperCall) {
	t.Helper()
	calls := make([]whisperCall, 0)
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		c := whisperCall{path: req.URL.Path, auth: req.Header.Get("Authorization")}
		if err := req.ParseMultipartForm(1 << 20); err == nil {
			c.model = req.FormValue("model")
			c.format = req.FormValue("response_format")
			if f, h, err := req.FormFile("file"); err == nil {
				b, _ := io.ReadAll(f)
				c.fileName = h.Filename
				c.audio = string(b)
				f.Close()
			}
		}
		calls = append(calls, c)
		rw.WriteHeader(code)
		rw.Write([]byte(resp))
	}))
	t.Cleanup(server.Close)
	return server.URL, &calls
}

func TestOpenAISTT_Transcribe(t *testing.T) {
	url, calls := initWhisperServer(t, 200, `{"text":"hello deck","language":"english","duration":3.2}`)
	p := NewOpenAISTT(OpenAISTTConfig{APIKey: "sk", BaseURL: url})

	r, err := p.Transcribe(context.Background(), TranscriptionRequest{Audio: []byte("mp3data"), FileName: "/tmp/x/note.mp3"})

	require.NoError(t, err)
	assert.Equal(t, "hello deck", r.Text)
	assert.Equal(t, "english", r.Language)
	require.Len(t, *calls, 1)
	c := (*calls)[0]
	assert.Equal(t, "/audio/transcriptions", c.path)
	assert.Equal(t, "Bearer sk", c.auth)
	assert.Equal(t, "whisper-1", c.model)
	assert.Equal(t, "verbose_json", c.format)
	assert.Equal(t, "note.mp3", c.fileName)
	assert.Equal(t, "mp3data", c.audio)
}

func TestOpenAISTT_MissingText_Malformed(t *testing.T) {
	url, _ := initWhisperServer(t, 200, `{"language":"english"}`)
	p := NewOpenAISTT(OpenAISTTConfig{BaseURL: url})

	_, err := p.Transcribe(context.Background(), TranscriptionRequest{Audio: []byte("a")})

	assert.ErrorIs(t, err, apperr.ErrMalformedResponse)
}

func TestOpenAISTT_WrongCode_Fails(t *testing.T) {
	url, _ := initWhisperServer(t, 429, `{"error":{"message":"slow down"}}`)
	p := NewOpenAISTT(OpenAISTTConfig{BaseURL: url})

	_, err := p.Transcribe(context.Background(), TranscriptionRequest{Audio: []byte("a")})

	assert.ErrorIs(t, err, apperr.ErrHTTP)
	assert.Contains(t, err.Error(), "429")
}

func TestLocalSTT_NoAuthHeader(t *testing.T) {
	url, calls := initWhisperServer(t, 200, `{"text":"local"}`)
	p := NewLocalSTT(LocalSTTConfig{BaseURL: url})

	r, err := p.Transcribe(context.Background(), TranscriptionRequest{Audio: []byte("a"), FileName: "a.wav"})

	require.NoError(t, err)
	assert.Equal(t, "local", r.Text)
	assert.Equal(t, "local-whisper", p.Name())
	assert.Empty(t, (*calls)[0].auth)
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(config.STTConfig{Backend: "deepgram", DeepgramKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "deepgram", p.Name())

	p, err = NewProvider(config.STTConfig{Backend: "openai"})
	require.NoError(t, err)
	assert.Equal(t, "openai-whisper", p.Name())

	p, err = NewProvider(config.STTConfig{Backend: "local"})
	require.NoError(t, err)
	assert.Equal(t, "local-whisper", p.Name())

	_, err = NewProvider(config.STTConfig{Backend: "fax"})
	assert.Error(t, err)
}
