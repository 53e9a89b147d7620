package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"

	"leadflow/internal/common/errors"
	"leadflow/internal/common/validation"
	leadregister "leadflow/internal/workers/crm/lead-register"
)

const webhookSource = "form_webhook"

// webhookSchema is the part of the form provider's FORM_RESPONSE payload the
// handler relies on.
const webhookSchema = `{
	"type": "object",
	"required": ["data"],
	"properties": {
		"eventId": {"type": "string"},
		"eventType": {"type": "string"},
		"data": {
			"type": "object",
			"required": ["fields"],
			"properties": {
				"responseId": {"type": "string"},
				"submissionId": {"type": "string"},
				"formId": {"type": "string"},
				"fields": {
					"type": "array",
					"items": {
						"type": "object",
						"required": ["label"],
						"properties": {
							"key": {"type": "string"},
							"label": {"type": "string"},
							"type": {"type": "string"}
						}
					}
				}
			}
		}
	}
}`

type formWebhook struct {
	EventID   string `json:"eventId"`
	EventType string `json:"eventType"`
	Data      struct {
		ResponseID   string      `json:"responseId"`
		SubmissionID string      `json:"submissionId"`
		FormID       string      `json:"formId"`
		Fields       []formField `json:"fields"`
	} `json:"data"`
}

type formField struct {
	Key     string        `json:"key"`
	Label   string        `json:"label"`
	Type    string        `json:"type"`
	Value   interface{}   `json:"value"`
	Options []fieldOption `json:"options,omitempty"`
}

type fieldOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type webhookAccepted struct {
	Accepted           bool   `json:"accepted"`
	SubmissionID       string `json:"submissionId"`
	ProcessInstanceKey int64  `json:"processInstanceKey"`
}

// normalized field labels and the lead attribute they fill
var labelTargets = map[string]string{
	"email":        "email",
	"emailaddress": "email",
	"workemail":    "email",
	"firstname":    "firstName",
	"lastname":     "lastName",
	"name":         "name",
	"fullname":     "name",
	"yourname":     "name",
	"phone":        "phone",
	"phonenumber":  "phone",
	"company":      "company",
	"companyname":  "company",
	"business":     "company",
	"businessname": "company",
	"industry":     "industry",
	"message":      "message",
	"notes":        "message",
	"anythingelse": "message",
}

// handleLeadWebhook turns a form submission into a lead. With Zeebe enabled
// the lead process is started and the workers do the rest; otherwise the
// registration runs inline.
func (s *Server) handleLeadWebhook(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := decodeJSON(r, &raw, false); err != nil {
		s.writeError(w, r, err)
		return
	}

	result := validation.ValidateDocument(webhookSchema, []byte(raw))
	if !result.Valid {
		s.writeError(w, r, errors.NewInputValidationError(fmt.Sprintf("Validation errors: %v", result.GetErrorMessages())))
		return
	}

	var payload formWebhook
	if err := json.Unmarshal(raw, &payload); err != nil {
		s.writeError(w, r, errors.NewInvalidPayloadError(err))
		return
	}

	input := leadFromWebhook(&payload)
	if input.Email == "" {
		s.writeError(w, r, errors.NewInputValidationError("submission has no email field"))
		return
	}

	if s.workflow != nil {
		processID := s.cfg.Camunda.LeadProcessID
		key, err := s.workflow.StartProcess(r.Context(), processID, processVariables(input))
		if err != nil {
			s.writeError(w, r, errors.NewWorkflowStartFailedError(processID, err))
			return
		}
		s.logger.Info("Lead process started", map[string]interface{}{
			"processId":          processID,
			"processInstanceKey": key,
			"submissionId":       input.SubmissionID,
		})
		writeJSON(w, http.StatusAccepted, webhookAccepted{
			Accepted:           true,
			SubmissionID:       input.SubmissionID,
			ProcessInstanceKey: key,
		})
		return
	}

	if s.leads == nil {
		s.writeError(w, r, errors.NewLeadStoreFailedError(fmt.Errorf("lead registration is not configured")))
		return
	}

	out, err := s.leads.Execute(r.Context(), input)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	status := http.StatusCreated
	if out.Duplicate {
		status = http.StatusOK
	}
	writeJSON(w, status, out)
}

func leadFromWebhook(p *formWebhook) *leadregister.Input {
	in := &leadregister.Input{
		FormID: p.Data.FormID,
		Source: webhookSource,
	}
	switch {
	case p.Data.SubmissionID != "":
		in.SubmissionID = p.Data.SubmissionID
	case p.Data.ResponseID != "":
		in.SubmissionID = p.Data.ResponseID
	case p.EventID != "":
		in.SubmissionID = p.EventID
	default:
		// Minted here so every job retry of the started process dedupes on it.
		in.SubmissionID = uuid.New().String()
	}

	var fullName string
	for _, f := range p.Data.Fields {
		value := fieldText(f)
		if value == "" {
			continue
		}
		switch fieldTarget(f) {
		case "email":
			setOnce(&in.Email, value)
		case "firstName":
			setOnce(&in.FirstName, value)
		case "lastName":
			setOnce(&in.LastName, value)
		case "name":
			setOnce(&fullName, value)
		case "phone":
			setOnce(&in.Phone, value)
		case "company":
			setOnce(&in.Company, value)
		case "industry":
			setOnce(&in.Industry, value)
		case "message":
			setOnce(&in.Message, value)
		}
	}

	if fullName != "" && in.FirstName == "" && in.LastName == "" {
		parts := strings.Fields(fullName)
		in.FirstName = parts[0]
		if len(parts) > 1 {
			in.LastName = strings.Join(parts[1:], " ")
		}
	}
	return in
}

func fieldTarget(f formField) string {
	switch f.Type {
	case "INPUT_EMAIL":
		return "email"
	case "INPUT_PHONE_NUMBER":
		return "phone"
	}
	if target, ok := labelTargets[normalizeLabel(f.Label)]; ok {
		return target
	}
	return labelTargets[normalizeLabel(f.Key)]
}

func normalizeLabel(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// fieldText renders a field value as text. Choice fields carry option ids
// which are resolved to their display text.
func fieldText(f formField) string {
	switch v := f.Value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(f.optionText(v))
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				parts = append(parts, f.optionText(s))
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

func (f formField) optionText(id string) string {
	for _, o := range f.Options {
		if o.ID == id {
			return o.Text
		}
	}
	return id
}

func setOnce(dst *string, value string) {
	if *dst == "" {
		*dst = value
	}
}

// processVariables are the lead fields as the lead process expects them.
func processVariables(in *leadregister.Input) map[string]interface{} {
	vars := map[string]interface{}{
		"email":  in.Email,
		"source": in.Source,
	}
	optional := map[string]string{
		"firstName":    in.FirstName,
		"lastName":     in.LastName,
		"phone":        in.Phone,
		"company":      in.Company,
		"industry":     in.Industry,
		"message":      in.Message,
		"formId":       in.FormID,
		"submissionId": in.SubmissionID,
	}
	for k, v := range optional {
		if v != "" {
			vars[k] = v
		}
	}
	return vars
}
