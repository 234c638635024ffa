package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/nikhilbhutani/voicedeck/internal/apperr"
)

func TestObserveStage(t *testing.T) {
	r := NewRecorder()

	r.ObserveStage("transcribe", time.Second, nil)
	r.ObserveStage("transcribe", time.Second, apperr.Status("deepgram", 500, nil))
	r.ObserveStage("synthesize", time.Second, nil)

	assert.Equal(t, 2, testutil.CollectAndCount(r.stageDur))
	assert.Equal(t, 3, testutil.CollectAndCount(r.stageTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.stageTotal.WithLabelValues("transcribe", "http_error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.stageTotal.WithLabelValues("transcribe", "ok")))
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", Outcome(nil))
	assert.Equal(t, "empty_input", Outcome(apperr.ErrEmptyInput))
	assert.Equal(t, "malformed_response", Outcome(apperr.Malformed("deepgram", "x")))
	assert.Equal(t, "empty_reply", Outcome(apperr.ErrEmptyReply))
	assert.Equal(t, "http_error", Outcome(apperr.Transport("openai", errors.New("refused"))))
	assert.Equal(t, "error", Outcome(errors.New("other")))
}

func TestHandler(t *testing.T) {
	r := NewRecorder()
	h := r.InstrumentHandler("ping", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))

	resp := httptest.NewRecorder()
	r.Handler().ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, resp.Code)
	body := resp.Body.String()
	assert.True(t, strings.Contains(body, `voicedeck_http_response_duration_seconds_count{code="418",handler="ping",method="get"} 1`), body)
}
