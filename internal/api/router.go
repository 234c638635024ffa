package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/nikhilbhutani/voicedeck/internal/api/handlers"
	"github.com/nikhilbhutani/voicedeck/internal/api/middleware"
	"github.com/nikhilbhutani/voicedeck/internal/config"
	"github.com/nikhilbhutani/voicedeck/internal/deck"
	"github.com/nikhilbhutani/voicedeck/internal/llm"
	"github.com/nikhilbhutani/voicedeck/internal/metrics"
)

type Router struct {
	mux        *chi.Mux
	cfg        *config.Config
	svc        *deck.Service
	llmGW      llm.Gateway
	sttBackend string
	metrics    *metrics.Recorder
}

func NewRouter(cfg *config.Config, svc *deck.Service, gw llm.Gateway, sttBackend string, rec *metrics.Recorder) *Router {
	return &Router{
		mux:        chi.NewRouter(),
		cfg:        cfg,
		svc:        svc,
		llmGW:      gw,
		sttBackend: sttBackend,
		metrics:    rec,
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(rt.cfg.Server.AllowedOrigins))

	// Health and metrics endpoints, not rate limited
	health := handlers.NewHealthHandler(rt.sttBackend, rt.llmGW, rt.cfg.LLM.DefaultProvider)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)
	r.Method(http.MethodGet, "/metrics", rt.metrics.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(rt.cfg.Server.RateLimitRPM))

		deckH := handlers.NewDeckHandler(rt.svc, rt.cfg.MaxUploadBytes())
		r.Post("/transcriptions", rt.instrument("transcriptions", deckH.Transcribe))
		r.Route("/decks", func(r chi.Router) {
			r.Post("/", rt.instrument("decks", deckH.Create))
			r.Post("/synthesize", rt.instrument("decks_synthesize", deckH.Synthesize))
			r.Post("/publish", rt.instrument("decks_publish", deckH.Publish))
		})

		llmH := handlers.NewLLMHandler(rt.llmGW)
		r.Get("/llm/models", rt.instrument("llm_models", llmH.Models))
	})

	return r
}

func (rt *Router) instrument(name string, h http.HandlerFunc) http.HandlerFunc {
	return rt.metrics.InstrumentHandler(name, h).ServeHTTP
}
