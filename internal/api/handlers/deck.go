package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nikhilbhutani/voicedeck/internal/apperr"
	"github.com/nikhilbhutani/voicedeck/internal/deck"
	"github.com/nikhilbhutani/voicedeck/internal/stt"
	"github.com/nikhilbhutani/voicedeck/pkg/textextract"
)

const (
	prmFile           = "file"
	prmTranscript     = "transcript"
	prmTranscriptFile = "transcript_file"
	prmPublish        = "publish"
	prmDefinition     = "definition"
	prmLanguage       = "language"

	multipartMemory = 32 << 20
)

var audioExtensions = map[string]bool{".mp3": true, ".wav": true, ".mp4": true, ".avi": true}

type DeckHandler struct {
	svc            *deck.Service
	maxUploadBytes int64
}

func NewDeckHandler(svc *deck.Service, maxUploadBytes int64) *DeckHandler {
	return &DeckHandler{svc: svc, maxUploadBytes: maxUploadBytes}
}

type deckResponse struct {
	RunID      string              `json:"run_id"`
	State      deck.State          `json:"state"`
	Transcript string              `json:"transcript"`
	Summary    string              `json:"summary,omitempty"`
	Definition string              `json:"definition"`
	Inspect    deck.Summary        `json:"inspect"`
	Publish    *deck.PublishResult `json:"publish,omitempty"`
}

// Transcribe returns the transcript of an uploaded recording. An optional
// "language" field is passed to the speech-to-text backend as a hint.
func (h *DeckHandler) Transcribe(w http.ResponseWriter, r *http.Request) {
	if !h.parseMultipart(w, r) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	req, ok := h.takeAudio(w, r)
	if !ok {
		return
	}
	if req == nil {
		writeBadRequest(w, "no file")
		return
	}

	resp, err := h.svc.Transcribe(r.Context(), *req)
	if err != nil {
		writeError(w, r, msgCreateFailed, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create runs the whole pipeline for one upload. The input is the first
// present of: audio "file", "transcript_file", "transcript". With
// publish=true the definition is also published.
func (h *DeckHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.parseMultipart(w, r) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	publish := false
	if v := r.FormValue(prmPublish); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeBadRequest(w, "publish must be true or false")
			return
		}
		publish = b
	}

	audio, ok := h.takeAudio(w, r)
	if !ok {
		return
	}

	session := h.svc.NewSession()
	var err error
	switch {
	case audio != nil:
		_, err = session.SubmitAudio(r.Context(), *audio)
	default:
		transcript, ok := h.takeTranscript(w, r)
		if !ok {
			return
		}
		_, err = session.SubmitTranscript(r.Context(), transcript)
	}
	if err != nil {
		writeError(w, r, msgCreateFailed, err)
		return
	}

	if publish {
		if _, err := session.Publish(r.Context()); err != nil {
			// the deck itself was created; hand it back with the failure
			writeJSON(w, apperr.HTTPStatus(err), deckErrorResponse{
				errorResponse: errorResponse{Error: msgPublishFailed, Detail: err.Error()},
				Deck:          sessionResponse(session),
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, sessionResponse(session))
}

type deckErrorResponse struct {
	errorResponse
	Deck deckResponse `json:"deck"`
}

type synthesizeRequest struct {
	Transcript string `json:"transcript"`
}

// Synthesize turns a JSON transcript into a deck definition.
func (h *DeckHandler) Synthesize(w http.ResponseWriter, r *http.Request) {
	h.limitBody(w, r)
	var req synthesizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeBodyError(w, err, "invalid request body")
		return
	}

	session := h.svc.NewSession()
	if _, err := session.SubmitTranscript(r.Context(), req.Transcript); err != nil {
		writeError(w, r, msgCreateFailed, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(session))
}

type publishRequest struct {
	Definition string `json:"definition"`
}

// Publish posts a definition given as JSON or as the form field
// "definition" to the configured endpoint.
func (h *DeckHandler) Publish(w http.ResponseWriter, r *http.Request) {
	h.limitBody(w, r)
	var def string
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			h.writeBodyError(w, err, "can't parse form")
			return
		}
		def = r.PostFormValue(prmDefinition)
	case "multipart/form-data":
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			h.writeBodyError(w, err, "can't parse multipart form")
			return
		}
		defer r.MultipartForm.RemoveAll()
		def = r.PostFormValue(prmDefinition)
	default:
		var req publishRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			h.writeBodyError(w, err, "invalid request body")
			return
		}
		def = req.Definition
	}

	res, err := h.svc.Publish(r.Context(), deck.Definition(def), "")
	if err != nil {
		writeError(w, r, msgPublishFailed, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *DeckHandler) parseMultipart(w http.ResponseWriter, r *http.Request) bool {
	if h.maxUploadBytes > 0 && r.ContentLength > h.maxUploadBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "file is too large"})
		return false
	}
	h.limitBody(w, r)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.writeBodyError(w, err, "can't parse multipart form")
		return false
	}
	return true
}

// limitBody caps the request body at the configured upload size.
func (h *DeckHandler) limitBody(w http.ResponseWriter, r *http.Request) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}
}

// writeBodyError answers 413 when err came from an over-limit body and 400
// with msg otherwise.
func (h *DeckHandler) writeBodyError(w http.ResponseWriter, err error, msg string) {
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body is too large", Detail: err.Error()})
		return
	}
	writeBadRequest(w, msg)
}

// takeAudio reads the optional audio part. It returns nil when there is none.
func (h *DeckHandler) takeAudio(w http.ResponseWriter, r *http.Request) (*stt.TranscriptionRequest, bool) {
	data, fh, err := readPart(r, prmFile)
	if err != nil {
		writeBadRequest(w, "wrong input form")
		return nil, false
	}
	if fh == nil {
		return nil, true
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !audioExtensions[ext] {
		writeBadRequest(w, fmt.Sprintf("wrong file type %q, expected one of .mp3, .wav, .mp4, .avi", ext))
		return nil, false
	}
	return &stt.TranscriptionRequest{
		Audio:       data,
		FileName:    filepath.Base(fh.Filename),
		ContentType: fh.Header.Get("Content-Type"),
		Language:    strings.TrimSpace(r.FormValue(prmLanguage)),
	}, true
}

func (h *DeckHandler) takeTranscript(w http.ResponseWriter, r *http.Request) (string, bool) {
	data, fh, err := readPart(r, prmTranscriptFile)
	if err != nil {
		writeBadRequest(w, "wrong input form")
		return "", false
	}
	if fh == nil {
		return r.FormValue(prmTranscript), true
	}
	doc, err := textextract.FromBytes(fh.Filename, data)
	if err != nil {
		if errors.Is(err, textextract.ErrUnsupportedType) {
			writeBadRequest(w, fmt.Sprintf("wrong transcript file type, expected one of %s", strings.Join(textextract.SupportedTypes(), ", ")))
			return "", false
		}
		writeBadRequest(w, "can't read transcript file")
		return "", false
	}
	return doc.Content, true
}

func readPart(r *http.Request, name string) ([]byte, *multipart.FileHeader, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[name]) == 0 {
		return nil, nil, nil
	}
	if len(r.MultipartForm.File[name]) > 1 {
		return nil, nil, fmt.Errorf("multiple files in %q", name)
	}
	fh := r.MultipartForm.File[name][0]
	f, err := fh.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("open %q: %w", name, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, nil, fmt.Errorf("read %q: %w", name, err)
	}
	return data, fh, nil
}

func sessionResponse(s *deck.Session) deckResponse {
	def, _ := s.Definition()
	resp := deckResponse{
		RunID:      s.ID().String(),
		State:      s.State(),
		Transcript: s.Transcript(),
		Summary:    s.Summary(),
		Definition: def.String(),
		Inspect:    deck.Inspect(def),
	}
	if res, ok := s.PublishResult(); ok {
		resp.Publish = &res
	}
	return resp
}
