package api

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"leadflow/internal/common/config"
	"leadflow/internal/common/errors"
	leadregister "leadflow/internal/workers/crm/lead-register"
)

func tallyPayload() map[string]interface{} {
	return map[string]interface{}{
		"eventId":   "evt-1",
		"eventType": "FORM_RESPONSE",
		"createdAt": "2025-06-01T12:00:00Z",
		"data": map[string]interface{}{
			"responseId":   "resp-1",
			"submissionId": "sub-1",
			"formId":       "mOxAWa",
			"fields": []interface{}{
				map[string]interface{}{"key": "question_1", "label": "Full name", "type": "INPUT_TEXT", "value": "Jane Q Doe"},
				map[string]interface{}{"key": "question_2", "label": "Work email", "type": "INPUT_EMAIL", "value": " jane@example.com "},
				map[string]interface{}{"key": "question_3", "label": "Phone number", "type": "INPUT_PHONE_NUMBER", "value": "+1 555 010 2030"},
				map[string]interface{}{"key": "question_4", "label": "Company name", "type": "INPUT_TEXT", "value": "Doe Dental"},
				map[string]interface{}{
					"key":   "question_5",
					"label": "Industry",
					"type":  "DROPDOWN",
					"value": []interface{}{"opt-hc"},
					"options": []interface{}{
						map[string]interface{}{"id": "opt-hc", "text": "Healthcare"},
						map[string]interface{}{"id": "opt-legal", "text": "Legal"},
					},
				},
				map[string]interface{}{"key": "question_6", "label": "Anything else?", "type": "TEXTAREA", "value": "Missed calls"},
				map[string]interface{}{"key": "question_7", "label": "Team size", "type": "INPUT_NUMBER", "value": 12},
				map[string]interface{}{"key": "question_8", "label": "Referral", "type": "INPUT_TEXT", "value": nil},
			},
		},
	}
}

func TestLeadFromWebhook(t *testing.T) {
	payload := &formWebhook{EventID: "evt-9"}
	payload.Data.FormID = "form-1"
	payload.Data.Fields = []formField{
		{Label: "First name", Value: "Ana"},
		{Label: "Last name", Value: "Lopez"},
		{Label: "Name", Value: "Ignored Because Split Fields Exist"},
		{Label: "Email", Value: "ana@example.com"},
		{Label: "Email", Value: "second@example.com"},
		{Label: "", Key: "company", Value: "Lopez Law"},
		{Label: "Budget", Value: 5000.0},
	}

	in := leadFromWebhook(payload)
	assert.Equal(t, "Ana", in.FirstName)
	assert.Equal(t, "Lopez", in.LastName)
	assert.Equal(t, "ana@example.com", in.Email)
	assert.Equal(t, "Lopez Law", in.Company)
	assert.Equal(t, "form-1", in.FormID)
	assert.Equal(t, "evt-9", in.SubmissionID)
	assert.Equal(t, webhookSource, in.Source)
}

func TestWebhook_RegistersInline(t *testing.T) {
	env := newTestEnv(t, nil)

	env.leads.On("Execute", mock.Anything, mock.MatchedBy(func(in *leadregister.Input) bool {
		return in.Email == "jane@example.com" &&
			in.FirstName == "Jane" &&
			in.LastName == "Q Doe" &&
			in.Phone == "+1 555 010 2030" &&
			in.Company == "Doe Dental" &&
			in.Industry == "Healthcare" &&
			in.Message == "Missed calls" &&
			in.SubmissionID == "sub-1" &&
			in.FormID == "mOxAWa"
	})).Return(&leadregister.Output{
		Success:      true,
		Message:      "Lead registered",
		SubmissionID: "sub-1",
		LeadRecordID: 7,
		CRMLeadID:    "zoho-1",
		RegisteredAt: time.Now(),
	}, nil).Once()

	rec := env.do(t, http.MethodPost, "/api/v1/leads/webhook", tallyPayload())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.Equal(t, "sub-1", body["submissionId"])
	assert.Equal(t, "zoho-1", body["crmLeadId"])
	env.leads.AssertExpectations(t)
	env.workflow.AssertNotCalled(t, "StartProcess", mock.Anything, mock.Anything, mock.Anything)
}

func TestWebhook_DuplicateIsOK(t *testing.T) {
	env := newTestEnv(t, nil)
	env.leads.On("Execute", mock.Anything, mock.Anything).Return(&leadregister.Output{
		Success:      true,
		Duplicate:    true,
		SubmissionID: "sub-1",
	}, nil).Once()

	rec := env.do(t, http.MethodPost, "/api/v1/leads/webhook", tallyPayload())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["duplicate"])
}

func TestWebhook_RegistrationErrorMapsStatus(t *testing.T) {
	env := newTestEnv(t, nil)
	env.leads.On("Execute", mock.Anything, mock.Anything).
		Return(nil, errors.NewCRMAPIError("create lead", fmt.Errorf("502 from upstream"))).Once()

	rec := env.do(t, http.MethodPost, "/api/v1/leads/webhook", tallyPayload())
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "CRM_API_ERROR", errorCode(t, rec))
}

func TestWebhook_StartsProcessWhenCamundaEnabled(t *testing.T) {
	env := newTestEnv(t, func(cfg *config.Config, deps *Dependencies) {
		cfg.Camunda.Enabled = true
	})

	env.workflow.On("StartProcess", mock.Anything, "strategy-call-lead", mock.MatchedBy(func(vars map[string]interface{}) bool {
		_, hasReferral := vars["referral"]
		return vars["email"] == "jane@example.com" &&
			vars["submissionId"] == "sub-1" &&
			vars["source"] == webhookSource &&
			vars["industry"] == "Healthcare" &&
			!hasReferral
	})).Return(int64(2251799813685249), nil).Once()

	rec := env.do(t, http.MethodPost, "/api/v1/leads/webhook", tallyPayload())
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["accepted"])
	assert.Equal(t, "sub-1", body["submissionId"])
	assert.Equal(t, 2251799813685249.0, body["processInstanceKey"])
	env.workflow.AssertExpectations(t)
	env.leads.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestLeadFromWebhook_MintsSubmissionIDWhenPayloadHasNone(t *testing.T) {
	payload := &formWebhook{}
	payload.Data.Fields = []formField{{Label: "Email", Value: "ana@example.com"}}

	first := leadFromWebhook(payload)
	_, err := uuid.Parse(first.SubmissionID)
	require.NoError(t, err)
	assert.NotEqual(t, first.SubmissionID, leadFromWebhook(payload).SubmissionID)
}

func TestWebhook_StartsProcessWithSubmissionIDWhenPayloadHasNone(t *testing.T) {
	env := newTestEnv(t, func(cfg *config.Config, deps *Dependencies) {
		cfg.Camunda.Enabled = true
	})

	payload := tallyPayload()
	delete(payload, "eventId")
	data := payload["data"].(map[string]interface{})
	delete(data, "responseId")
	delete(data, "submissionId")

	var started string
	env.workflow.On("StartProcess", mock.Anything, "strategy-call-lead", mock.MatchedBy(func(vars map[string]interface{}) bool {
		id, _ := vars["submissionId"].(string)
		if _, err := uuid.Parse(id); err != nil {
			return false
		}
		started = id
		return true
	})).Return(int64(42), nil).Once()

	rec := env.do(t, http.MethodPost, "/api/v1/leads/webhook", payload)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	assert.Equal(t, started, decodeBody(t, rec)["submissionId"])
	env.workflow.AssertExpectations(t)
}

func TestWebhook_ProcessStartFailure(t *testing.T) {
	env := newTestEnv(t, func(cfg *config.Config, deps *Dependencies) {
		cfg.Camunda.Enabled = true
	})
	env.workflow.On("StartProcess", mock.Anything, mock.Anything, mock.Anything).
		Return(int64(0), fmt.Errorf("broker unavailable")).Once()

	rec := env.do(t, http.MethodPost, "/api/v1/leads/webhook", tallyPayload())
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "WORKFLOW_START_FAILED", errorCode(t, rec))
}

func TestWebhook_Rejections(t *testing.T) {
	env := newTestEnv(t, nil)

	noEmail := tallyPayload()
	data := noEmail["data"].(map[string]interface{})
	data["fields"] = []interface{}{
		map[string]interface{}{"key": "q1", "label": "Full name", "value": "Jane"},
	}

	tests := []struct {
		name string
		body interface{}
		code string
	}{
		{"not json", "{", "INVALID_PAYLOAD"},
		{"missing data", map[string]interface{}{"eventId": "x"}, "INPUT_VALIDATION_FAILED"},
		{"fields not array", map[string]interface{}{"data": map[string]interface{}{"fields": "x"}}, "INPUT_VALIDATION_FAILED"},
		{"no email", noEmail, "INPUT_VALIDATION_FAILED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/v1/leads/webhook", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.code, errorCode(t, rec))
		})
	}
	env.leads.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestWebhook_NotConfigured(t *testing.T) {
	env := newTestEnv(t, func(cfg *config.Config, deps *Dependencies) {
		deps.Leads = nil
	})

	rec := env.do(t, http.MethodPost, "/api/v1/leads/webhook", tallyPayload())
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
