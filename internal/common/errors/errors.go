// Package errors provides standardized error handling for the lead
// generation pipeline and its external service clients.
package errors

import (
	"errors"
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
	// Company directory (Apollo) errors
	ErrCodeDirectorySearchFailed ErrorCode = "DIRECTORY_SEARCH_FAILED"
	ErrCodeDirectoryAuthFailed   ErrorCode = "DIRECTORY_AUTH_FAILED"
	ErrCodeDirectoryRateLimited  ErrorCode = "DIRECTORY_RATE_LIMITED"
	ErrCodeInvalidSizeRange      ErrorCode = "INVALID_SIZE_RANGE"

	// Contact directory (Hunter) errors
	ErrCodeContactLookupFailed ErrorCode = "CONTACT_LOOKUP_FAILED"
	ErrCodeContactAuthFailed   ErrorCode = "CONTACT_AUTH_FAILED"
	ErrCodeContactRateLimited  ErrorCode = "CONTACT_RATE_LIMITED"

	// Insight extraction errors (absorbed into fallbacks by the extractor)
	ErrCodeScrapeFetchFailed     ErrorCode = "SCRAPE_FETCH_FAILED"
	ErrCodeInsightAnalysisFailed ErrorCode = "INSIGHT_ANALYSIS_FAILED"
	ErrCodeInsightInvalidJSON    ErrorCode = "INSIGHT_INVALID_JSON"

	// Message composition errors (absorbed into fallbacks by the composer)
	ErrCodeMessageGenerationFailed ErrorCode = "MESSAGE_GENERATION_FAILED"

	// Persistence errors
	ErrCodeSheetsAppendFailed ErrorCode = "SHEETS_APPEND_FAILED"
	ErrCodeLocalWriteFailed   ErrorCode = "LOCAL_WRITE_FAILED"

	// Notification errors
	ErrCodeNotifySendFailed ErrorCode = "NOTIFY_SEND_FAILED"

	// General errors
	ErrCodeConfigInvalid  ErrorCode = "CONFIG_INVALID"
	ErrCodePipelineFailed ErrorCode = "PIPELINE_FAILED"
	ErrCodeInternal       ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithRetryable returns a copy with the retryable flag overridden. Call sites
// use it when status-code classification refines a constructor's default.
func (e *StandardError) WithRetryable(retryable bool) *StandardError {
	clone := *e
	clone.Retryable = retryable
	return &clone
}

// ==========================
// 2. Error Constructors
// ==========================

// NewDirectorySearchFailedError creates a retryable company search error.
func NewDirectorySearchFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDirectorySearchFailed,
		Message:   "Company directory search failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDirectoryAuthFailedError creates a non-retryable directory auth error.
func NewDirectoryAuthFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDirectoryAuthFailed,
		Message:   "Company directory rejected the API key",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDirectoryRateLimitedError creates a retryable directory rate-limit error.
func NewDirectoryRateLimitedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDirectoryRateLimited,
		Message:   "Company directory rate limit exceeded",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidSizeRangeError creates a non-retryable criteria validation error.
func NewInvalidSizeRangeError(sizeRange string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidSizeRange,
		Message:   "Invalid company size format, expected 'min-max'",
		Details:   fmt.Sprintf("sizeRange: %s", sizeRange),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewContactLookupFailedError creates a retryable contact discovery error.
func NewContactLookupFailedError(domain string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeContactLookupFailed,
		Message:   "Contact discovery failed",
		Details:   fmt.Sprintf("domain: %s, error: %s", domain, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewContactAuthFailedError creates a non-retryable contact provider auth error.
func NewContactAuthFailedError() *StandardError {
	return &StandardError{
		Code:      ErrCodeContactAuthFailed,
		Message:   "Invalid Hunter.io API key",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewContactRateLimitedError creates a retryable contact provider rate-limit error.
func NewContactRateLimitedError() *StandardError {
	return &StandardError{
		Code:      ErrCodeContactRateLimited,
		Message:   "Hunter.io API rate limit exceeded",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewScrapeFetchFailedError creates a retryable website fetch error.
func NewScrapeFetchFailedError(url string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeScrapeFetchFailed,
		Message:   "Website fetch failed",
		Details:   fmt.Sprintf("url: %s, error: %s", url, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInsightAnalysisFailedError creates a retryable model analysis error.
func NewInsightAnalysisFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInsightAnalysisFailed,
		Message:   "Website insight analysis failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInsightInvalidJSONError creates a non-retryable model output error.
// Malformed model output is not transient; the caller substitutes a fallback.
func NewInsightInvalidJSONError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInsightInvalidJSON,
		Message:   "Insight analysis returned invalid JSON",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMessageGenerationFailedError creates a retryable message generation error.
func NewMessageGenerationFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMessageGenerationFailed,
		Message:   "Outreach message generation failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSheetsAppendFailedError creates a non-fatal remote persistence error.
func NewSheetsAppendFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSheetsAppendFailed,
		Message:   "Google Sheets append failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewLocalWriteFailedError creates a fatal local persistence error.
func NewLocalWriteFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeLocalWriteFailed,
		Message:   "Local lead file write failed",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotifySendFailedError creates a non-fatal notification error.
func NewNotifySendFailedError(transport string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotifySendFailed,
		Message:   "Run notification delivery failed",
		Details:   fmt.Sprintf("transport: %s, error: %s", transport, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewConfigInvalidError creates a non-retryable configuration error.
func NewConfigInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigInvalid,
		Message:   "Invalid configuration",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPipelineFailedError wraps the only fatal pipeline-level failure: the
// directory lookup stage erroring out after its own retries.
func NewPipelineFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePipelineFailed,
		Message:   "Pipeline failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// AsStandardError normalizes any error to a StandardError.
func AsStandardError(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// IsRetryable reports whether an error is worth another attempt. Only
// transient network and rate-limit conditions are marked retryable by the
// constructors above; anything unrecognized is treated as permanent.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Retryable
	}
	return false
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "DIRECTORY") || strings.Contains(codeStr, "SIZE_RANGE"):
		return "DIRECTORY"
	case strings.Contains(codeStr, "CONTACT"):
		return "CONTACTS"
	case strings.Contains(codeStr, "SCRAPE") || strings.Contains(codeStr, "INSIGHT"):
		return "INSIGHTS"
	case strings.Contains(codeStr, "MESSAGE"):
		return "OUTREACH"
	case strings.Contains(codeStr, "SHEETS") || strings.Contains(codeStr, "LOCAL_WRITE"):
		return "PERSISTENCE"
	case strings.Contains(codeStr, "NOTIFY"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "CONFIG"):
		return "CONFIG"
	default:
		return "OTHER"
	}
}
