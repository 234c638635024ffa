package deck

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nikhilbhutani/voicedeck/internal/apperr"
)

const publishService = "publish"

// PublishResult is the outcome of one publish call.
type PublishResult struct {
	Published  bool `json:"published"`
	StatusCode int  `json:"status_code,omitempty"`
}

type Publisher struct {
	endpoint   string
	httpClient *http.Client
}

// NewPublisher posts to endpoint. A nil client gets a 30s timeout.
func NewPublisher(endpoint string, httpClient *http.Client) *Publisher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Publisher{endpoint: endpoint, httpClient: httpClient}
}

func (p *Publisher) Endpoint() string { return p.endpoint }

func (p *Publisher) Publish(ctx context.Context, def Definition) (PublishResult, error) {
	return p.PublishTo(ctx, def, p.endpoint)
}

// PublishTo posts def as the form field "definition". Any status outside
// [200,299] is a failure; the response body is ignored.
func (p *Publisher) PublishTo(ctx context.Context, def Definition, endpoint string) (PublishResult, error) {
	if strings.TrimSpace(string(def)) == "" {
		return PublishResult{}, fmt.Errorf("publish: %w", apperr.ErrEmptyInput)
	}

	form := url.Values{}
	form.Set("definition", string(def))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return PublishResult{}, fmt.Errorf("publish request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return PublishResult{}, apperr.Transport(publishService, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	res := PublishResult{StatusCode: resp.StatusCode}
	if !apperr.IsSuccess(resp.StatusCode) {
		slog.Warn("publish received non-success response", "status", resp.StatusCode, "endpoint", endpoint)
		return res, apperr.Status(publishService, resp.StatusCode, nil)
	}
	res.Published = true
	return res, nil
}
