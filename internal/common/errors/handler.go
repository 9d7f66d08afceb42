// internal/common/errors/handler.go
package errors

import (
	"context"
	stderrors "errors"
	"time"
)

// ErrorHandler turns pipeline errors into API-boundary responses.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

// ErrorResponse is what callers outside the pipeline see instead of a raw error.
type ErrorResponse struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Status    int       `json:"-"`
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle normalizes err, logs it under operation and returns the response
// to hand back to the caller.
func (h *ErrorHandler) Handle(operation string, err error) *ErrorResponse {
	stdErr := h.normalizeError(err)
	h.logError(operation, stdErr)

	return &ErrorResponse{
		Code:      stdErr.Code,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Status:    httpStatus(stdErr.Code),
	}
}

// normalizeError ensures we always have a StandardError
func (h *ErrorHandler) normalizeError(err error) *StandardError {
	if stdErr, ok := AsStandardError(err); ok {
		return stdErr
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return newError(ErrCodeFeedTimeout, "Operation timed out", err.Error(), true, err)
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

func (h *ErrorHandler) logError(operation string, stdErr *StandardError) {
	if h.logger == nil {
		return
	}
	h.logger.Error("Operation failed", map[string]interface{}{
		"operation":     operation,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"retries":       GetRetryCount(stdErr.Code),
		"errorCategory": GetErrorCategory(stdErr.Code),
	})
}

func httpStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidQueryParams, ErrCodeMatchScoreFailed:
		return 400
	case ErrCodeFeedFetchFailed, ErrCodeFeedTimeout, ErrCodeFeedStructure:
		return 502
	case ErrCodeCacheUnavailable, ErrCodeStoreReadFailed:
		return 503
	default:
		return 500
	}
}
