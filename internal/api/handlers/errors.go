package handlers

import (
	"log/slog"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/nikhilbhutani/voicedeck/internal/apperr"
)

const (
	msgCreateFailed  = apperr.MsgCreateFailed
	msgPublishFailed = apperr.MsgPublishFailed
)

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// writeError answers with the status for err's kind. Blank input always gets
// the transcript prompt; other failures get failMsg.
func writeError(w http.ResponseWriter, r *http.Request, failMsg string, err error) {
	status := apperr.HTTPStatus(err)
	msg := apperr.UserMessage(err, failMsg)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "request_id", chimiddleware.GetReqID(r.Context()), "status", status, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: msg, Detail: err.Error()})
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}
