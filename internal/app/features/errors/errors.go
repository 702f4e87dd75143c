// internal/app/features/errors/errors.go

// Package errors renders API errors as a uniform JSON envelope and maps
// lifecycle failures to HTTP status codes.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/boubskouk/dossiervault/internal/app/lifecycle"
	"github.com/boubskouk/dossiervault/internal/app/stats"
	"go.uber.org/zap"
)

// Envelope is the wire shape of every API error:
//
//	{ "error": { "code": "not_found", "message": "dossier not found" } }
type Envelope struct {
	Error Detail `json:"error"`
}

// Detail carries the machine-readable code and human-readable message.
type Detail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes returned by the API.
const (
	CodeValidation    = "validation_failed"
	CodeNotFound      = "not_found"
	CodeAlreadyLocked = "already_locked"
	CodeLocked        = "locked"
	CodeExpired       = "recovery_expired"
	CodeSelfShare     = "self_share"
	CodeAggregation   = "aggregation_failed"
	CodeInternal      = "internal_error"
)

// Write sends the envelope with the given status.
func Write(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{Error: Detail{Code: code, Message: message}})
}

// WriteFromError maps a lifecycle or aggregation error to its status and
// code. Unrecognized errors become 500 internal_error with a generic
// message so internals never leak to clients.
func WriteFromError(w http.ResponseWriter, err error) {
	switch {
	case stderrors.Is(err, lifecycle.ErrValidation):
		Write(w, http.StatusBadRequest, CodeValidation, err.Error())
	case stderrors.Is(err, lifecycle.ErrNotFound):
		Write(w, http.StatusNotFound, CodeNotFound, err.Error())
	case stderrors.Is(err, lifecycle.ErrAlreadyLocked):
		Write(w, http.StatusConflict, CodeAlreadyLocked, err.Error())
	case stderrors.Is(err, lifecycle.ErrLocked):
		Write(w, http.StatusConflict, CodeLocked, err.Error())
	case stderrors.Is(err, lifecycle.ErrExpired):
		Write(w, http.StatusGone, CodeExpired, err.Error())
	case stderrors.Is(err, lifecycle.ErrSelfShare):
		Write(w, http.StatusBadRequest, CodeSelfShare, err.Error())
	default:
		var aggErr *stats.AggregationError
		if stderrors.As(err, &aggErr) {
			Write(w, http.StatusInternalServerError, CodeAggregation, "report aggregation failed")
			return
		}
		Write(w, http.StatusInternalServerError, CodeInternal, "internal error")
	}
}

// ErrorLogger logs handler-side errors with request context before they
// are rendered to the client.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// LogError records a handler error with the operation name.
func (l *ErrorLogger) LogError(r *http.Request, operation string, err error) {
	if l == nil || l.log == nil {
		return
	}
	l.log.Error("handler error",
		zap.String("operation", operation),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
}
