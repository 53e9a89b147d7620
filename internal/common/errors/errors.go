// Package errors provides standardized error handling for the HTTP API and
// the BPMN job workers.
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
	ErrCodeInvalidIndustry        ErrorCode = "INVALID_INDUSTRY"
	ErrCodeInputValidationFailed  ErrorCode = "INPUT_VALIDATION_FAILED"
	ErrCodeInvalidPayload         ErrorCode = "INVALID_PAYLOAD"
	ErrCodeSessionNotFound        ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeInvalidTransition      ErrorCode = "INVALID_TRANSITION"
	ErrCodeRateLimited            ErrorCode = "RATE_LIMITED"
	ErrCodeCacheUnavailable       ErrorCode = "CACHE_UNAVAILABLE"
	ErrCodeCRMAPIError            ErrorCode = "CRM_API_ERROR"
	ErrCodeCRMTimeout             ErrorCode = "CRM_TIMEOUT"
	ErrCodeLeadStoreFailed        ErrorCode = "LEAD_STORE_FAILED"
	ErrCodeDuplicateLead          ErrorCode = "DUPLICATE_LEAD"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeWorkflowStartFailed    ErrorCode = "WORKFLOW_START_FAILED"
	ErrCodeDatabaseConnection     ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeInternal               ErrorCode = "INTERNAL_ERROR"
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

// WithMetadata attaches a key to the error and returns it.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// AsStandardError unwraps err into a StandardError, if it is one.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
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

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidIndustryError creates a non-retryable error for an unknown industry tag.
func NewInvalidIndustryError(industry string) *StandardError {
	return newError(ErrCodeInvalidIndustry, "Unknown industry", fmt.Sprintf("industry: %q", industry), false)
}

// NewInputValidationError creates a non-retryable input validation error.
func NewInputValidationError(details string) *StandardError {
	return newError(ErrCodeInputValidationFailed, "Input validation failed", details, false)
}

func NewInvalidPayloadError(err error) *StandardError {
	return newError(ErrCodeInvalidPayload, "Malformed request body", err.Error(), false)
}

func NewSessionNotFoundError(id string) *StandardError {
	return newError(ErrCodeSessionNotFound, "Lead-capture session not found", fmt.Sprintf("sessionId: %s", id), false)
}

// NewInvalidTransitionError reports an action the session's current stage
// does not allow.
func NewInvalidTransitionError(action, state string) *StandardError {
	return newError(ErrCodeInvalidTransition, "Action not allowed in current stage",
		fmt.Sprintf("action: %s, state: %s", action, state), false)
}

func NewRateLimitedError() *StandardError {
	return newError(ErrCodeRateLimited, "Too many requests", "", true)
}

// NewCacheUnavailableError creates a retryable cache error. Callers usually
// degrade instead of surfacing it.
func NewCacheUnavailableError(err error) *StandardError {
	return newError(ErrCodeCacheUnavailable, "Cache unavailable", err.Error(), true)
}

// NewCRMAPIError creates a retryable CRM API error.
func NewCRMAPIError(operation string, err error) *StandardError {
	return newError(ErrCodeCRMAPIError, "CRM API error",
		fmt.Sprintf("operation: %s, error: %s", operation, err.Error()), true)
}

func NewCRMTimeoutError(operation string) *StandardError {
	return newError(ErrCodeCRMTimeout, "CRM API timeout", fmt.Sprintf("operation: %s", operation), true)
}

// NewLeadStoreFailedError creates a retryable database write error.
func NewLeadStoreFailedError(err error) *StandardError {
	return newError(ErrCodeLeadStoreFailed, "Failed to store lead", err.Error(), true)
}

func NewDuplicateLeadError(submissionID string) *StandardError {
	return newError(ErrCodeDuplicateLead, "Lead already registered", fmt.Sprintf("submissionId: %s", submissionID), false)
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, "Failed to send notification",
		fmt.Sprintf("channel: %s, error: %s", channel, err.Error()), true)
}

func NewWorkflowStartFailedError(processID string, err error) *StandardError {
	return newError(ErrCodeWorkflowStartFailed, "Failed to start workflow",
		fmt.Sprintf("processId: %s, error: %s", processID, err.Error()), true)
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnection, "Database connection error", err.Error(), true)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to the error codes caught by
// boundary events in the lead process.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidIndustry:        "INVALID_INDUSTRY",
	ErrCodeInputValidationFailed:  "INPUT_VALIDATION_FAILED",
	ErrCodeInvalidPayload:         "INPUT_VALIDATION_FAILED",
	ErrCodeCRMAPIError:            "CRM_API_ERROR",
	ErrCodeCRMTimeout:             "CRM_API_ERROR",
	ErrCodeLeadStoreFailed:        "LEAD_STORE_FAILED",
	ErrCodeDuplicateLead:          "DUPLICATE_LEAD",
	ErrCodeNotificationSendFailed: "NOTIFICATION_SEND_FAILED",
	ErrCodeDatabaseConnection:     "DATABASE_CONNECTION_FAILED",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeCRMAPIError,
		ErrCodeLeadStoreFailed,
		ErrCodeDatabaseConnection,
		ErrCodeNotificationSendFailed,
		ErrCodeWorkflowStartFailed:
		return 3

	case ErrCodeCRMTimeout,
		ErrCodeCacheUnavailable:
		return 2

	default:
		return 0 // Business errors: no retry
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

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
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
	case strings.Contains(codeStr, "CRM"):
		return "CRM"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "STORE") || strings.Contains(codeStr, "CACHE"):
		return "STORAGE"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "WORKFLOW"):
		return "WORKFLOW"
	case strings.Contains(codeStr, "SESSION") || strings.Contains(codeStr, "TRANSITION"):
		return "LEAD_CAPTURE"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "DUPLICATE"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
