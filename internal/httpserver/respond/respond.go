// Package respond writes the JSON envelope every endpoint answers with:
// {"code": <int>, "msg": <string>, "data": <optional>}.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/inbox/internal/domain"
	"github.com/MrSnakeDoc/inbox/internal/logger"
	"github.com/MrSnakeDoc/inbox/internal/store"
)

// Code is the stable numeric error kind carried by the envelope.
type Code int

const (
	CodeSuccess        Code = 0
	CodeInvalidRequest Code = 1
	CodeUnauthorized   Code = 2
	CodeNotFound       Code = 3
	CodeInternal       Code = 4
	CodeValidation     Code = 5
	CodeDatabase       Code = 6
)

// MsgSuccess is the default message of a successful envelope.
const MsgSuccess = "success"

// Envelope is the response body shape.
type Envelope struct {
	Code Code   `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

// ErrInvalidRequest marks a body that could not be decoded.
var ErrInvalidRequest = errors.New("invalid request body")

// JSON writes an envelope with the given HTTP status.
func JSON(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// OK writes a 200 success envelope.
func OK(w http.ResponseWriter, msg string, data any) {
	JSON(w, http.StatusOK, Envelope{Code: CodeSuccess, Msg: msg, Data: data})
}

// Fail writes an error envelope without data.
func Fail(w http.ResponseWriter, status int, code Code, msg string) {
	JSON(w, status, Envelope{Code: code, Msg: msg})
}

// Error maps err to a status and code. Validation messages are returned to
// the caller as is; store and unexpected failures are logged in full and
// answered with a generic message.
func Error(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		Fail(w, http.StatusBadRequest, CodeValidation, ve.Msg)

	case errors.Is(err, ErrInvalidRequest):
		Fail(w, http.StatusBadRequest, CodeInvalidRequest, "Invalid request")

	case errors.Is(err, store.ErrNotFound):
		Fail(w, http.StatusNotFound, CodeNotFound, "Shorthand not found")

	case errors.Is(err, store.ErrStore):
		log.Error("record store failure",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.String("request_id", middleware.GetReqID(r.Context())),
			logger.Error(err))
		Fail(w, http.StatusInternalServerError, CodeDatabase, "Database operation failed")

	default:
		log.Error("unexpected error",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.String("request_id", middleware.GetReqID(r.Context())),
			logger.Error(err))
		Fail(w, http.StatusInternalServerError, CodeInternal, "Internal server error")
	}
}
