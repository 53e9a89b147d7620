package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"leadflow/internal/common/errors"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error     errorDetail `json:"error"`
	RequestID string      `json:"requestId,omitempty"`
}

type errorDetail struct {
	Code      errors.ErrorCode `json:"code"`
	Message   string           `json:"message"`
	Details   string           `json:"details,omitempty"`
	Retryable bool             `json:"retryable"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders err with the status mapped from its code. Anything
// that is not a StandardError is reported as an internal error.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	stdErr, ok := errors.AsStandardError(err)
	if !ok {
		stdErr = errors.NewInternalError(err)
	}
	status := errors.HTTPStatus(stdErr.Code)

	fields := map[string]interface{}{
		"errorCode": stdErr.Code,
		"status":    status,
		"path":      r.URL.Path,
		"requestId": requestIDFrom(r.Context()),
	}
	if status >= http.StatusInternalServerError {
		s.logger.WithError(err).Error("Request failed", fields)
	} else {
		s.logger.Debug("Request rejected", fields)
	}

	body := errorBody{
		Error: errorDetail{
			Code:      stdErr.Code,
			Message:   stdErr.Message,
			Details:   stdErr.Details,
			Retryable: stdErr.Retryable,
		},
		RequestID: requestIDFrom(r.Context()),
	}
	if status >= http.StatusInternalServerError && stdErr.Code == errors.ErrCodeInternal {
		body.Error.Details = ""
	}
	writeJSON(w, status, body)
}

// decodeJSON reads a bounded JSON body into dst. An empty body leaves dst
// untouched when allowEmpty is set.
func decodeJSON(r *http.Request, dst interface{}, allowEmpty bool) error {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return errors.NewInvalidPayloadError(err)
	}
	if len(raw) > maxBodyBytes {
		return errors.NewInvalidPayloadError(fmt.Errorf("body exceeds %d bytes", maxBodyBytes))
	}
	if len(raw) == 0 {
		if allowEmpty {
			return nil
		}
		return errors.NewInvalidPayloadError(fmt.Errorf("empty body"))
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return errors.NewInvalidPayloadError(err)
	}
	return nil
}
