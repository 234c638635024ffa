// Package apperr defines the error kinds shared by the pipeline stages and
// maps them to HTTP statuses and short user-facing messages.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrHTTP covers transport failures and non-2xx upstream responses.
	ErrHTTP = errors.New("upstream request failed")
	// ErrMalformedResponse means an upstream answered but an expected field was missing.
	ErrMalformedResponse = errors.New("malformed upstream response")
	// ErrEmptyInput is returned before any network call when the input is blank.
	ErrEmptyInput = errors.New("empty input")
	// ErrEmptyReply means the chat model answered without any content.
	ErrEmptyReply = errors.New("empty model reply")
)

// Messages shown to a person when a pipeline step fails.
const (
	MsgEnterTranscript = "please enter your transcript"
	MsgCreateFailed    = "there was an error creating your deck"
	MsgPublishFailed   = "there was an error publishing your deck"
)

const maxBodyInError = 512

// StatusError is a non-2xx upstream response.
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned status %d", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Service, e.StatusCode, e.Body)
}

func (e *StatusError) Is(target error) bool { return target == ErrHTTP }

// Status builds a StatusError, keeping at most a short prefix of the body.
func Status(service string, code int, body []byte) error {
	b := string(body)
	if len(b) > maxBodyInError {
		b = b[:maxBodyInError] + "..."
	}
	return &StatusError{Service: service, StatusCode: code, Body: b}
}

// Transport wraps a failure to reach the upstream at all.
func Transport(service string, err error) error {
	return fmt.Errorf("%s request: %w: %w", service, ErrHTTP, err)
}

// Malformed reports a missing field in an otherwise successful response.
func Malformed(service, detail string) error {
	return fmt.Errorf("%s: %w: %s", service, ErrMalformedResponse, detail)
}

// IsSuccess reports whether code is in [200,299].
func IsSuccess(code int) bool {
	return code >= 200 && code <= 299
}

// HTTPStatus picks the status a handler should answer with for err.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrEmptyInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrHTTP), errors.Is(err, ErrMalformedResponse), errors.Is(err, ErrEmptyReply):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage picks the message to show for err. Blank input always asks
// for the transcript; any other failure gets failMsg.
func UserMessage(err error, failMsg string) string {
	if errors.Is(err, ErrEmptyInput) {
		return MsgEnterTranscript
	}
	return failMsg
}

// UserError pairs a user-facing message with the error behind it.
type UserError struct {
	Msg string
	Err error
}

// User wraps err with the message UserMessage picks for it.
func User(err error, failMsg string) error {
	if err == nil {
		return nil
	}
	return &UserError{Msg: UserMessage(err, failMsg), Err: err}
}

func (e *UserError) Error() string { return e.Msg + " (" + e.Err.Error() + ")" }

func (e *UserError) Unwrap() error { return e.Err }
