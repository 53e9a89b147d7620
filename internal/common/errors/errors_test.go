package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToBPMNError(t *testing.T) {
	bpmn := ConvertToBPMNError(NewCRMTimeoutError("searchLeads"))

	assert.Equal(t, "CRM_API_ERROR", bpmn.Code)
	assert.True(t, bpmn.Retryable)
	assert.Equal(t, 2, bpmn.Retries)
	assert.Equal(t, "CRM_TIMEOUT", bpmn.ToErrorVariables()["originalErrorCode"])

	bpmn = ConvertToBPMNError(NewInvalidIndustryError("retail"))
	assert.Equal(t, "INVALID_INDUSTRY", bpmn.Code)
	assert.Equal(t, 0, bpmn.Retries)

	bpmn = ConvertToBPMNError(NewSessionNotFoundError("x"))
	assert.Equal(t, "SESSION_NOT_FOUND", bpmn.Code, "unmapped codes pass through")
}

func TestAsStandardError(t *testing.T) {
	wrapped := fmt.Errorf("register: %w", NewLeadStoreFailedError(fmt.Errorf("conn reset")))

	stdErr, ok := AsStandardError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrCodeLeadStoreFailed, stdErr.Code)

	_, ok = AsStandardError(fmt.Errorf("plain"))
	assert.False(t, ok)
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(ErrCodeInvalidIndustry))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(ErrCodeSessionNotFound))
	assert.Equal(t, http.StatusConflict, HTTPStatus(ErrCodeInvalidTransition))
	assert.Equal(t, http.StatusTooManyRequests, HTTPStatus(ErrCodeRateLimited))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(ErrCodeCRMAPIError))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(ErrCodeInternal))
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "CRM", GetErrorCategory(ErrCodeCRMAPIError))
	assert.Equal(t, "STORAGE", GetErrorCategory(ErrCodeLeadStoreFailed))
	assert.Equal(t, "LEAD_CAPTURE", GetErrorCategory(ErrCodeInvalidTransition))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInputValidationFailed))
	assert.True(t, IsRetryableErrorCode(ErrCodeNotificationSendFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeDuplicateLead))
}

func TestDecideJobAction(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		jobRetries int32
		action     JobAction
		retries    int
		bpmnCode   string
	}{
		{"invalid industry throws", NewInvalidIndustryError("retail"), 3, ActionThrow, 0, "INVALID_INDUSTRY"},
		{"validation throws", NewInputValidationError("email required"), 3, ActionThrow, 0, "INPUT_VALIDATION_FAILED"},
		{"payload maps to validation", NewInvalidPayloadError(fmt.Errorf("eof")), 3, ActionThrow, 0, "INPUT_VALIDATION_FAILED"},
		{"duplicate throws", NewDuplicateLeadError("sub-1"), 3, ActionThrow, 0, "DUPLICATE_LEAD"},
		{"crm retries", NewCRMAPIError("createLead", fmt.Errorf("502")), 3, ActionRetry, 2, "CRM_API_ERROR"},
		{"crm retries capped by code", NewCRMTimeoutError("searchLeads"), 10, ActionRetry, 2, "CRM_API_ERROR"},
		{"crm exhausted escalates", NewCRMAPIError("createLead", fmt.Errorf("502")), 1, ActionThrow, 0, "CRM_API_ERROR"},
		{"store exhausted escalates", NewLeadStoreFailedError(fmt.Errorf("conn reset")), 0, ActionThrow, 0, "LEAD_STORE_FAILED"},
		{"store retries", fmt.Errorf("insert: %w", NewLeadStoreFailedError(fmt.Errorf("conn reset"))), 2, ActionRetry, 1, "LEAD_STORE_FAILED"},
		{"db connection exhausted is an incident", NewDatabaseConnectionFailedError(fmt.Errorf("refused")), 1, ActionIncident, 0, "DATABASE_CONNECTION_FAILED"},
		{"cache exhausted is an incident", NewCacheUnavailableError(fmt.Errorf("down")), 1, ActionIncident, 0, "CACHE_UNAVAILABLE"},
		{"plain error is an incident", fmt.Errorf("nil pointer"), 3, ActionIncident, 0, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DecideJobAction(tt.err, tt.jobRetries)
			assert.Equal(t, tt.action, d.Action)
			assert.Equal(t, tt.retries, d.Retries)
			require.NotNil(t, d.BPMN)
			assert.Equal(t, tt.bpmnCode, d.BPMN.Code)
		})
	}
}
