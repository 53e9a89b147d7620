package errors

import "net/http"

// HTTPStatus maps an error code to the status the API responds with.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidIndustry, ErrCodeInputValidationFailed, ErrCodeInvalidPayload:
		return http.StatusBadRequest
	case ErrCodeSessionNotFound:
		return http.StatusNotFound
	case ErrCodeInvalidTransition, ErrCodeDuplicateLead:
		return http.StatusConflict
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrCodeCRMAPIError, ErrCodeCRMTimeout, ErrCodeNotificationSendFailed, ErrCodeWorkflowStartFailed:
		return http.StatusBadGateway
	case ErrCodeCacheUnavailable, ErrCodeDatabaseConnection, ErrCodeLeadStoreFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
