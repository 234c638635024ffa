// Package metrics exposes pipeline and HTTP metrics in Prometheus format.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nikhilbhutani/voicedeck/internal/apperr"
)

const namespace = "voicedeck"

// Recorder owns its own registry so tests can create as many as they like.
type Recorder struct {
	registry    *prometheus.Registry
	stageDur    *prometheus.HistogramVec
	stageTotal  *prometheus.CounterVec
	responseDur *prometheus.HistogramVec
}

func NewRecorder() *Recorder {
	r := &Recorder{registry: prometheus.NewRegistry()}

	r.stageDur = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of pipeline stages",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 12),
		},
		[]string{"stage"},
	)
	r.stageTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_total",
			Help:      "Pipeline stages by outcome",
		},
		[]string{"stage", "outcome"},
	)
	r.responseDur = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "response_duration_seconds",
			Help:      "Duration of HTTP handlers",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"handler", "method", "code"},
	)

	r.registry.MustRegister(
		r.stageDur, r.stageTotal, r.responseDur,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveStage records one finished stage.
func (r *Recorder) ObserveStage(stage string, d time.Duration, err error) {
	r.stageDur.WithLabelValues(stage).Observe(d.Seconds())
	r.stageTotal.WithLabelValues(stage, Outcome(err)).Inc()
}

// InstrumentHandler wraps h with a duration histogram labelled by name.
func (r *Recorder) InstrumentHandler(name string, h http.Handler) http.Handler {
	return promhttp.InstrumentHandlerDuration(
		r.responseDur.MustCurryWith(prometheus.Labels{"handler": name}), h)
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Outcome names the error kind of err for the outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, apperr.ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, apperr.ErrMalformedResponse):
		return "malformed_response"
	case errors.Is(err, apperr.ErrEmptyReply):
		return "empty_reply"
	case errors.Is(err, apperr.ErrHTTP):
		return "http_error"
	default:
		return "error"
	}
}
