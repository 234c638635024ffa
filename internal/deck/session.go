package deck

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nikhilbhutani/voicedeck/internal/apperr"
	"github.com/nikhilbhutani/voicedeck/internal/stt"
)

type State string

const (
	StateIdle          State = "idle"
	StateTranscribing  State = "transcribing"
	StateSynthesizing  State = "synthesizing"
	StateDisplayed     State = "displayed"
	StatePublishing    State = "publishing"
	StatePublished     State = "published"
	StatePublishFailed State = "publish_failed"
)

// Session is one user's walk through the pipeline. Each transition happens
// only on an explicit call. A Session is not safe for concurrent use.
type Session struct {
	id         uuid.UUID
	svc        *Service
	state      State
	transcript string
	summary    string
	def        *Definition
	result     *PublishResult
}

func newSession(svc *Service) *Session {
	return &Session{
		id:    uuid.New(),
		svc:   svc,
		state: StateIdle,
	}
}

func (s *Session) ID() uuid.UUID { return s.id }

func (s *Session) State() State { return s.state }

// Transcript returns the last transcript the session worked on.
func (s *Session) Transcript() string { return s.transcript }

// Summary is the speech-to-text summary of the last audio, if any.
func (s *Session) Summary() string { return s.summary }

// Definition returns the synthesized definition; ok is false until one exists.
func (s *Session) Definition() (Definition, bool) {
	if s.def == nil {
		return "", false
	}
	return *s.def, true
}

// PublishResult returns the last publish outcome, if any.
func (s *Session) PublishResult() (PublishResult, bool) {
	if s.result == nil {
		return PublishResult{}, false
	}
	return *s.result, true
}

// SubmitAudio transcribes req and, only if that succeeds, synthesizes a
// definition from the transcript.
func (s *Session) SubmitAudio(ctx context.Context, req stt.TranscriptionRequest) (Definition, error) {
	s.state = StateTranscribing
	start := time.Now()
	slog.Info("transcribing", "run_id", s.id, "file", req.FileName, "bytes", len(req.Audio))

	resp, err := s.svc.Transcribe(ctx, req)
	if err != nil {
		s.state = StateIdle
		slog.Error("transcription failed", "run_id", s.id, "error", err)
		return "", err
	}
	s.summary = resp.Summary
	slog.Info("transcribed", "run_id", s.id, "chars", len(resp.Text), "duration_ms", time.Since(start).Milliseconds())

	return s.synthesize(ctx, resp.Text)
}

// SubmitTranscript synthesizes a definition from text the user supplied.
func (s *Session) SubmitTranscript(ctx context.Context, transcript string) (Definition, error) {
	s.summary = ""
	return s.synthesize(ctx, transcript)
}

func (s *Session) synthesize(ctx context.Context, transcript string) (Definition, error) {
	s.transcript = transcript
	s.state = StateSynthesizing
	start := time.Now()

	def, err := s.svc.Synthesize(ctx, transcript)
	if err != nil {
		s.state = StateIdle
		slog.Error("synthesis failed", "run_id", s.id, "error", err)
		return "", err
	}

	s.def = &def
	s.result = nil
	s.state = StateDisplayed
	sum := Inspect(def)
	slog.Info("deck ready", "run_id", s.id, "valid_json", sum.ValidJSON, "slides", sum.Slides,
		"duration_ms", time.Since(start).Milliseconds())
	return def, nil
}

// Publish posts the session's definition to the default endpoint.
func (s *Session) Publish(ctx context.Context) (PublishResult, error) {
	return s.PublishTo(ctx, "")
}

// PublishTo posts the session's definition to endpoint. Without a
// definition it fails with apperr.ErrEmptyInput and makes no call.
func (s *Session) PublishTo(ctx context.Context, endpoint string) (PublishResult, error) {
	def, ok := s.Definition()
	if !ok {
		return PublishResult{}, fmt.Errorf("publish: no deck definition yet: %w", apperr.ErrEmptyInput)
	}

	s.state = StatePublishing
	res, err := s.svc.Publish(ctx, def, endpoint)
	s.result = &res
	if err != nil {
		s.state = StatePublishFailed
		slog.Error("publish failed", "run_id", s.id, "status", res.StatusCode, "error", err)
		return res, err
	}
	s.state = StatePublished
	slog.Info("deck published", "run_id", s.id, "status", res.StatusCode)
	return res, nil
}
