// Package errors provides standardized error handling for the job pipeline.
package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeFeedFetchFailed     ErrorCode = "FEED_FETCH_FAILED"
	ErrCodeFeedTimeout         ErrorCode = "FEED_TIMEOUT"
	ErrCodeFeedStructure       ErrorCode = "FEED_STRUCTURE_INVALID"
	ErrCodeJobProcessingFailed ErrorCode = "JOB_PROCESSING_FAILED"

	ErrCodeCacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"

	ErrCodeInvalidQueryParams ErrorCode = "INVALID_QUERY_PARAMS"

	ErrCodeStoreWriteFailed ErrorCode = "STORE_WRITE_FAILED"
	ErrCodeStoreReadFailed  ErrorCode = "STORE_READ_FAILED"
	ErrCodeIndexWriteFailed ErrorCode = "INDEX_WRITE_FAILED"

	ErrCodeMatchScoreFailed ErrorCode = "MATCH_SCORE_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause so errors.Is keeps working through
// a StandardError.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata returns e with key set in its metadata.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithCause returns e with err as its unwrap target.
func (e *StandardError) WithCause(err error) *StandardError {
	e.cause = err
	return e
}

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewFeedFetchFailedError creates a retryable network error for the feed fetch.
func NewFeedFetchFailedError(url string, err error) *StandardError {
	return newError(ErrCodeFeedFetchFailed, "Failed to fetch job feed",
		fmt.Sprintf("url: %s, error: %s", url, err.Error()), true, err)
}

// NewFeedTimeoutError creates a retryable timeout error for the feed fetch.
func NewFeedTimeoutError(url string, timeout time.Duration) *StandardError {
	return newError(ErrCodeFeedTimeout, "Job feed fetch timed out",
		fmt.Sprintf("url: %s, timeout: %s", url, timeout), true, context.DeadlineExceeded)
}

// NewFeedStructureError creates a non-retryable error for a feed without the
// expected root or job collection.
func NewFeedStructureError(details string, err error) *StandardError {
	return newError(ErrCodeFeedStructure, "Invalid feed structure", details, false, err)
}

// NewJobProcessingError describes a single job that could not be mapped.
func NewJobProcessingError(ref string, err error) *StandardError {
	return newError(ErrCodeJobProcessingFailed, "Failed to process job",
		fmt.Sprintf("job: %s, error: %s", ref, err.Error()), false, err).
		WithMetadata("job", ref)
}

// NewCacheUnavailableError creates a retryable cache error.
func NewCacheUnavailableError(op string, err error) *StandardError {
	return newError(ErrCodeCacheUnavailable, "Job cache unavailable",
		fmt.Sprintf("op: %s, error: %s", op, err.Error()), true, err)
}

// NewInvalidQueryParamsError creates a non-retryable validation error.
func NewInvalidQueryParamsError(details string) *StandardError {
	return newError(ErrCodeInvalidQueryParams, "Invalid query parameters", details, false, nil)
}

// NewStoreWriteFailedError creates a retryable durable store error.
func NewStoreWriteFailedError(err error) *StandardError {
	return newError(ErrCodeStoreWriteFailed, "Job store write failed", err.Error(), true, err)
}

// NewStoreReadFailedError creates a retryable durable store error.
func NewStoreReadFailedError(err error) *StandardError {
	return newError(ErrCodeStoreReadFailed, "Job store read failed", err.Error(), true, err)
}

// NewIndexWriteFailedError creates a retryable search index error.
func NewIndexWriteFailedError(index string, err error) *StandardError {
	return newError(ErrCodeIndexWriteFailed, "Search index write failed",
		fmt.Sprintf("index: %s, error: %s", index, err.Error()), true, err)
}

// NewMatchScoreFailedError creates a non-retryable scoring error.
func NewMatchScoreFailedError(details string) *StandardError {
	return newError(ErrCodeMatchScoreFailed, "Failed to score match", details, false, nil)
}

// AsStandardError returns err as a *StandardError if one is in its chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// GetRetryCount returns how many times an operation failing with code
// should be retried.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeFeedFetchFailed, ErrCodeFeedTimeout:
		return 3
	case ErrCodeStoreWriteFailed, ErrCodeStoreReadFailed, ErrCodeIndexWriteFailed:
		return 2
	case ErrCodeCacheUnavailable:
		return 1
	default:
		return 0
	}
}

// IsRetryableErrorCode reports whether code is worth retrying.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory groups codes for logging and metrics.
func GetErrorCategory(code ErrorCode) string {
	c := string(code)
	switch {
	case strings.HasPrefix(c, "FEED_"):
		return "FEED"
	case strings.Contains(c, "JOB_"):
		return "PARSING"
	case strings.Contains(c, "CACHE"):
		return "CACHE"
	case strings.Contains(c, "STORE"), strings.Contains(c, "INDEX"):
		return "PERSISTENCE"
	case strings.Contains(c, "QUERY"):
		return "VALIDATION"
	case strings.Contains(c, "MATCH"):
		return "MATCHING"
	default:
		return "UNKNOWN"
	}
}
