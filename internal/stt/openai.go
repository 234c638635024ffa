package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"time"

	"github.com/nikhilbhutani/voicedeck/internal/apperr"
)

// OpenAISTTConfig holds configuration for the OpenAI STT backend.
type OpenAISTTConfig struct {
	APIKey     string
	BaseURL    string // default: "https://api.openai.com/v1"
	Model      string // default: "whisper-1"
	HTTPClient *http.Client
}

// OpenAISTT transcribes audio using OpenAI's Whisper API (or a compatible endpoint).
type OpenAISTT struct {
	cfg        OpenAISTTConfig
	httpClient *http.Client
	service    string
}

// NewOpenAISTT creates an OpenAISTT with sensible defaults applied.
func NewOpenAISTT(cfg OpenAISTTConfig) *OpenAISTT {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "whisper-1"
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 300 * time.Second}
	}
	return &OpenAISTT{cfg: cfg, httpClient: client, service: "openai-whisper"}
}

func (o *OpenAISTT) Name() string { return o.service }

// Transcribe uploads the recording as multipart form data.
func (o *OpenAISTT) Transcribe(ctx context.Context, req TranscriptionRequest) (*TranscriptionResponse, error) {
	name := filepath.Base(req.FileName)
	if name == "." || name == "/" {
		name = "audio"
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err = fw.Write(req.Audio); err != nil {
		return nil, fmt.Errorf("copy audio data: %w", err)
	}

	_ = mw.WriteField("model", o.cfg.Model)
	_ = mw.WriteField("response_format", "verbose_json")
	if req.Language != "" {
		_ = mw.WriteField("language", req.Language)
	}

	if err = mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.cfg.BaseURL+"/audio/transcriptions", &body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	if o.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+o.cfg.APIKey)
	}

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return nil, apperr.Transport(o.service, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Transport(o.service, fmt.Errorf("read response: %w", err))
	}

	if !apperr.IsSuccess(resp.StatusCode) {
		return nil, apperr.Status(o.service, resp.StatusCode, respBody)
	}

	var apiResp struct {
		Text     *string `json:"text"`
		Language string  `json:"language"`
		Duration float64 `json:"duration"`
	}
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, apperr.Malformed(o.service, "parse response: "+err.Error())
	}
	if apiResp.Text == nil {
		return nil, apperr.Malformed(o.service, "missing text")
	}

	return &TranscriptionResponse{
		Text:     *apiResp.Text,
		Language: apiResp.Language,
		Duration: apiResp.Duration,
	}, nil
}
