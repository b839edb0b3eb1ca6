// Package errors provides the structured error type shared by the enrichment
// producers and request adapters, and its conversion to BPMN errors for the
// Zeebe job worker.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Request
	ErrCodePayloadInvalid         ErrorCode = "PAYLOAD_INVALID"
	ErrCodeSchemaValidationFailed ErrorCode = "SCHEMA_VALIDATION_FAILED"
	ErrCodeInternal               ErrorCode = "INTERNAL_ERROR"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	// Producers
	ErrCodeProducerFailed       ErrorCode = "PRODUCER_FAILED"
	ErrCodeProducerTimeout      ErrorCode = "PRODUCER_TIMEOUT"
	ErrCodeCacheUnavailable     ErrorCode = "CACHE_UNAVAILABLE"
	ErrCodeBenchmarkQueryFailed ErrorCode = "BENCHMARK_QUERY_FAILED"
	ErrCodeEventSearchFailed    ErrorCode = "EVENT_SEARCH_FAILED"
	ErrCodeTrendsAPIFailed      ErrorCode = "TRENDS_API_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause, if any.
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

// AsStandardError extracts a StandardError from err's chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// HasCode reports whether err carries a StandardError with code.
func HasCode(err error, code ErrorCode) bool {
	stdErr, ok := AsStandardError(err)
	return ok && stdErr.Code == code
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

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

// NewPayloadInvalidError reports a request whose outer payload cannot be decoded.
func NewPayloadInvalidError(err error) *StandardError {
	return newError(ErrCodePayloadInvalid, err.Error(), "request body is not a JSON object", false, err)
}

// NewSchemaValidationFailedError reports a response that does not match its output schema.
func NewSchemaValidationFailedError(details string) *StandardError {
	return newError(ErrCodeSchemaValidationFailed, "Response failed schema validation", details, false, nil)
}

// NewProducerFailedError wraps an error returned by an enrichment producer.
func NewProducerFailedError(producer string, err error) *StandardError {
	return newError(ErrCodeProducerFailed,
		fmt.Sprintf("Producer '%s' failed", producer),
		err.Error(), false, err).WithMetadata("producer", producer)
}

// NewProducerTimeoutError reports a producer that missed its deadline.
func NewProducerTimeoutError(producer string, timeout time.Duration) *StandardError {
	return newError(ErrCodeProducerTimeout,
		fmt.Sprintf("Producer '%s' timed out", producer),
		fmt.Sprintf("timeout: %s", timeout), false, nil).WithMetadata("producer", producer)
}

// NewCacheUnavailableError reports a Redis failure. Callers continue uncached.
func NewCacheUnavailableError(err error) *StandardError {
	return newError(ErrCodeCacheUnavailable, "Benchmark cache unavailable", err.Error(), true, err)
}

// NewBenchmarkQueryFailedError reports a failed ad_benchmarks lookup.
func NewBenchmarkQueryFailedError(industry string, err error) *StandardError {
	return newError(ErrCodeBenchmarkQueryFailed, "Benchmark query failed",
		fmt.Sprintf("industry: %s, error: %s", industry, err.Error()), true, err)
}

// NewEventSearchFailedError reports a failed calendar event search.
func NewEventSearchFailedError(index string, err error) *StandardError {
	return newError(ErrCodeEventSearchFailed, "Event search failed",
		fmt.Sprintf("index: %s, error: %s", index, err.Error()), true, err)
}

// NewTrendsAPIFailedError reports a failed call to the search trends API.
func NewTrendsAPIFailedError(err error) *StandardError {
	return newError(ErrCodeTrendsAPIFailed, "Search trends API error", err.Error(), true, err)
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, "Notification delivery failed",
		fmt.Sprintf("type: %s, error: %s", notificationType, err.Error()), true, err)
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false, err)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodePayloadInvalid:         "PAYLOAD_INVALID",
	ErrCodeSchemaValidationFailed: "SCHEMA_VALIDATION_FAILED",
	ErrCodeInternal:               "INTERNAL_ERROR",
	ErrCodeNotificationSendFailed: "NOTIFICATION_SEND_FAILED",
	ErrCodeProducerFailed:         "PRODUCER_FAILED",
	ErrCodeProducerTimeout:        "PRODUCER_TIMEOUT",
	ErrCodeCacheUnavailable:       "CACHE_UNAVAILABLE",
	ErrCodeBenchmarkQueryFailed:   "BENCHMARK_QUERY_FAILED",
	ErrCodeEventSearchFailed:      "EVENT_SEARCH_FAILED",
	ErrCodeTrendsAPIFailed:        "TRENDS_API_FAILED",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeCacheUnavailable,
		ErrCodeBenchmarkQueryFailed,
		ErrCodeEventSearchFailed,
		ErrCodeNotificationSendFailed:
		return 3
	case ErrCodeTrendsAPIFailed:
		return 2
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "PAYLOAD") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "PRODUCER"):
		return "PRODUCER"
	case strings.Contains(codeStr, "CACHE") || strings.Contains(codeStr, "BENCHMARK"):
		return "DATABASE"
	case strings.Contains(codeStr, "SEARCH") || strings.Contains(codeStr, "TRENDS"):
		return "SEARCH"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	default:
		return "OTHER"
	}
}
