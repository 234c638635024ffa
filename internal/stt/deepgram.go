package stt

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"github.com/nikhilbhutani/voicedeck/internal/apperr"
)

const (
	deepgramService = "deepgram"

	transcriptPath = "results.channels.0.alternatives.0.transcript"
	summaryPath    = "results.summary.short"
	durationPath   = "metadata.duration"
)

// DeepgramConfig holds configuration for the Deepgram prerecorded backend.
type DeepgramConfig struct {
	APIKey     string
	BaseURL    string // default: "https://api.deepgram.com/v1"
	HTTPClient *http.Client
}

// DeepgramSTT transcribes uploaded recordings with Deepgram's /listen endpoint.
type DeepgramSTT struct {
	cfg        DeepgramConfig
	httpClient *http.Client
}

func NewDeepgramSTT(cfg DeepgramConfig) *DeepgramSTT {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.deepgram.com/v1"
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}
	return &DeepgramSTT{cfg: cfg, httpClient: client}
}

func (d *DeepgramSTT) Name() string { return deepgramService }

// listenParams selects the nova tier, keeps filler words out and asks for a
// summary. language is only sent when the caller gives one.
func listenParams(language string) url.Values {
	q := url.Values{}
	q.Set("tier", "nova")
	q.Set("filler_words", "false")
	q.Set("summarize", "v2")
	if language != "" {
		q.Set("language", language)
	}
	return q
}

// Transcribe sends the raw audio as the request body and pulls the first
// alternative of the first channel out of the response envelope.
func (d *DeepgramSTT) Transcribe(ctx context.Context, req TranscriptionRequest) (*TranscriptionResponse, error) {
	endpoint := d.cfg.BaseURL + "/listen?" + listenParams(req.Language).Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(req.Audio))
	if err != nil {
		return nil, fmt.Errorf("build deepgram request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Token "+d.cfg.APIKey)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(httpReq)
	if err != nil {
		return nil, apperr.Transport(deepgramService, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Transport(deepgramService, fmt.Errorf("read response: %w", err))
	}

	if !apperr.IsSuccess(resp.StatusCode) {
		return nil, apperr.Status(deepgramService, resp.StatusCode, body)
	}

	return parseDeepgramResponse(body)
}

func parseDeepgramResponse(body []byte) (*TranscriptionResponse, error) {
	if !gjson.ValidBytes(body) {
		return nil, apperr.Malformed(deepgramService, "response is not JSON")
	}

	transcript := gjson.GetBytes(body, transcriptPath)
	if !transcript.Exists() {
		return nil, apperr.Malformed(deepgramService, "missing "+transcriptPath)
	}
	if transcript.Type != gjson.String {
		return nil, apperr.Malformed(deepgramService, transcriptPath+" is not a string")
	}

	return &TranscriptionResponse{
		Text:     transcript.String(),
		Summary:  gjson.GetBytes(body, summaryPath).String(),
		Duration: gjson.GetBytes(body, durationPath).Float(),
	}, nil
}
