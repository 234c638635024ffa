package deck

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nikhilbhutani/voicedeck/internal/apperr"
	"github.com/nikhilbhutani/voicedeck/internal/stt"
)

// Stage names reported to a StageObserver.
const (
	StageTranscribe = "transcribe"
	StageSynthesize = "synthesize"
	StagePublish    = "publish"
)

type DefinitionSynthesizer interface {
	Synthesize(ctx context.Context, transcript string) (Definition, error)
}

type DefinitionPublisher interface {
	Publish(ctx context.Context, def Definition) (PublishResult, error)
	PublishTo(ctx context.Context, def Definition, endpoint string) (PublishResult, error)
}

// StageObserver is told how long each stage took and whether it failed.
type StageObserver interface {
	ObserveStage(stage string, d time.Duration, err error)
}

type Option func(*Service)

func WithObserver(o StageObserver) Option {
	return func(s *Service) { s.observer = o }
}

// Service wires the three pipeline stages. It holds no per-run state.
type Service struct {
	transcriber stt.STTProvider
	synth       DefinitionSynthesizer
	publisher   DefinitionPublisher
	observer    StageObserver
}

func NewService(transcriber stt.STTProvider, synth DefinitionSynthesizer, publisher DefinitionPublisher, opts ...Option) *Service {
	s := &Service{
		transcriber: transcriber,
		synth:       synth,
		publisher:   publisher,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Transcribe runs the speech-to-text stage alone.
func (s *Service) Transcribe(ctx context.Context, req stt.TranscriptionRequest) (*stt.TranscriptionResponse, error) {
	if len(req.Audio) == 0 {
		return nil, fmt.Errorf("transcribe: %w", apperr.ErrEmptyInput)
	}
	if s.transcriber == nil {
		return nil, fmt.Errorf("transcribe: no speech-to-text backend configured")
	}
	var resp *stt.TranscriptionResponse
	err := s.observe(StageTranscribe, func() error {
		var err error
		resp, err = s.transcriber.Transcribe(ctx, req)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("transcribe: %w", err)
	}
	return resp, nil
}

// Synthesize runs the synthesis stage alone.
func (s *Service) Synthesize(ctx context.Context, transcript string) (Definition, error) {
	if strings.TrimSpace(transcript) == "" {
		return "", fmt.Errorf("synthesize: %w", apperr.ErrEmptyInput)
	}
	var def Definition
	err := s.observe(StageSynthesize, func() error {
		var err error
		def, err = s.synth.Synthesize(ctx, transcript)
		return err
	})
	return def, err
}

// Publish posts def to endpoint, or to the publisher's own endpoint when
// endpoint is empty.
func (s *Service) Publish(ctx context.Context, def Definition, endpoint string) (PublishResult, error) {
	if strings.TrimSpace(string(def)) == "" {
		return PublishResult{}, fmt.Errorf("publish: %w", apperr.ErrEmptyInput)
	}
	var res PublishResult
	err := s.observe(StagePublish, func() error {
		var err error
		if endpoint == "" {
			res, err = s.publisher.Publish(ctx, def)
		} else {
			res, err = s.publisher.PublishTo(ctx, def, endpoint)
		}
		return err
	})
	return res, err
}

// NewSession starts an idle session bound to s.
func (s *Service) NewSession() *Session {
	return newSession(s)
}

func (s *Service) observe(stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	if s.observer != nil {
		s.observer.ObserveStage(stage, time.Since(start), err)
	}
	if err != nil {
		slog.Debug("stage failed", "stage", stage, "error", err)
	}
	return err
}
