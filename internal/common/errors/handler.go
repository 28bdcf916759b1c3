package errors

import (
	"encoding/json"
	"net/http"
	"time"
)

// HTTPHandler translates StandardError values into HTTP responses.
type HTTPHandler struct {
	logger      Logger
	development bool
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewHTTPHandler(logger Logger, development bool) *HTTPHandler {
	return &HTTPHandler{logger: logger, development: development}
}

// errorResponse is the wire shape for every error the API returns.
type errorResponse struct {
	Success   bool             `json:"success"`
	Message   string           `json:"message"`
	Code      ErrorCode        `json:"code"`
	Errors    []FieldViolation `json:"errors,omitempty"`
	Details   string           `json:"details,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// WriteError normalizes err and writes the matching status and JSON body.
func (h *HTTPHandler) WriteError(w http.ResponseWriter, err error) {
	stdErr := h.normalizeError(err)

	h.logger.Error("request failed", map[string]interface{}{
		"errorCode": string(stdErr.Code),
		"message":   stdErr.Message,
		"details":   stdErr.Details,
	})

	resp := errorResponse{
		Success:   false,
		Message:   stdErr.Message,
		Code:      stdErr.Code,
		Errors:    stdErr.Violations,
		Timestamp: stdErr.Timestamp,
	}
	// Internal details are only exposed outside production.
	if h.development {
		resp.Details = stdErr.Details
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusFor(stdErr.Code))
	_ = json.NewEncoder(w).Encode(resp)
}

// StatusFor maps an error code to its HTTP status.
func StatusFor(code ErrorCode) int {
	switch code {
	case ErrCodeFormatNotRecognized, ErrCodeValidationFailed:
		return http.StatusBadRequest
	case ErrCodeCandidatureNotFound:
		return http.StatusNotFound
	case ErrCodeDuplicateCandidature:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// normalizeError ensures we always have a StandardError
func (h *HTTPHandler) normalizeError(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return NewInternalError(err)
}
