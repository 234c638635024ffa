package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/nikhilbhutani/voicedeck/internal/llm"
)

type HealthHandler struct {
	sttBackend      string
	gateway         llm.Gateway
	defaultProvider string
}

// NewHealthHandler reports on the configured speech-to-text backend and the
// default chat provider. No upstream is called.
func NewHealthHandler(sttBackend string, gw llm.Gateway, defaultProvider string) *HealthHandler {
	return &HealthHandler{sttBackend: sttBackend, gateway: gw, defaultProvider: defaultProvider}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{}

	if h.sttBackend == "" {
		checks["stt"] = "unhealthy: not configured"
	} else {
		checks["stt"] = "ok"
	}

	if _, err := h.gateway.Provider(h.defaultProvider); err != nil {
		checks["llm"] = "unhealthy: " + err.Error()
	} else {
		checks["llm"] = "ok"
	}

	status := http.StatusOK
	for _, v := range checks {
		if v != "ok" {
			status = http.StatusServiceUnavailable
			break
		}
	}

	writeJSON(w, status, map[string]interface{}{
		"status":       statusStr(status),
		"checks":       checks,
		"stt_backend":  h.sttBackend,
		"llm_provider": h.defaultProvider,
	})
}

func statusStr(code int) string {
	if code == http.StatusOK {
		return "ok"
	}
	return "unhealthy"
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
