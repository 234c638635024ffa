package handlers

import (
	"net/http"

	"github.com/nikhilbhutani/voicedeck/internal/llm"
)

type LLMHandler struct {
	gateway llm.Gateway
}

func NewLLMHandler(gw llm.Gateway) *LLMHandler {
	return &LLMHandler{gateway: gw}
}

// Models lists the models of every configured chat provider.
func (h *LLMHandler) Models(w http.ResponseWriter, r *http.Request) {
	models := h.gateway.ListModels()
	if models == nil {
		models = []llm.ModelInfo{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"models": models})
}
