package errors

import (
	"context"
	"encoding/json"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// JobAction is what a worker does with a failed job.
type JobAction string

const (
	// ActionRetry fails the job with retries left so the engine runs it again.
	ActionRetry JobAction = "retry"
	// ActionThrow throws a BPMN error for a boundary event in the lead
	// process to catch.
	ActionThrow JobAction = "throw"
	// ActionIncident fails the job with no retries, raising an incident.
	ActionIncident JobAction = "incident"
)

// JobDecision is the outcome of classifying a job error.
type JobDecision struct {
	Action  JobAction
	Retries int
	BPMN    *BPMNError
}

// escalateOnExhaustion lists transient codes the lead process models with a
// boundary event (manual follow-up). Once retries run out they are thrown
// instead of left as incidents.
var escalateOnExhaustion = map[ErrorCode]bool{
	ErrCodeCRMAPIError:            true,
	ErrCodeCRMTimeout:             true,
	ErrCodeLeadStoreFailed:        true,
	ErrCodeNotificationSendFailed: true,
}

// DecideJobAction classifies err for a job that has jobRetries left.
//
// Input problems (bad industry, failed validation, duplicates) are thrown
// right away. CRM, store and notification failures retry while the job has
// retries, then escalate to their boundary event. Anything else, including
// cache and connection failures that outlived their retries, ends as an
// incident.
func DecideJobAction(err error, jobRetries int32) JobDecision {
	stdErr := normalizeError(err)
	bpmnErr := ConvertToBPMNError(stdErr)

	if bpmnErr.Retries > 0 && jobRetries > 1 {
		// job.Retries is what the engine has left; each failure spends one
		retries := int(jobRetries) - 1
		if retries > bpmnErr.Retries {
			retries = bpmnErr.Retries
		}
		return JobDecision{Action: ActionRetry, Retries: retries, BPMN: bpmnErr}
	}

	_, mapped := BPMNErrorMapping[stdErr.Code]
	switch {
	case bpmnErr.Retries == 0 && mapped:
		return JobDecision{Action: ActionThrow, BPMN: bpmnErr}
	case escalateOnExhaustion[stdErr.Code]:
		return JobDecision{Action: ActionThrow, BPMN: bpmnErr}
	default:
		return JobDecision{Action: ActionIncident, BPMN: bpmnErr}
	}
}

// ErrorHandler fails or throws Zeebe jobs from worker errors.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleJobError reports err for job back to the engine.
func (h *ErrorHandler) HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	decision := DecideJobAction(err, job.Retries)
	h.logError(job, err, decision)

	bpmnErr := decision.BPMN
	vars := encodeVariables(bpmnErr.ToErrorVariables())

	switch decision.Action {
	case ActionThrow:
		cmd := client.NewThrowErrorCommand().
			JobKey(job.Key).
			ErrorCode(bpmnErr.Code).
			ErrorMessage(bpmnErr.Message)
		if vars != "" {
			if withVars, err := cmd.VariablesFromString(vars); err == nil {
				_, _ = withVars.Send(ctx)
				return
			}
		}
		_, _ = cmd.Send(ctx)

	default:
		cmd := client.NewFailJobCommand().
			JobKey(job.Key).
			Retries(int32(decision.Retries)).
			ErrorMessage(bpmnErr.Message)
		if vars != "" {
			if withVars, err := cmd.VariablesFromString(vars); err == nil {
				_, _ = withVars.Send(ctx)
				return
			}
		}
		_, _ = cmd.Send(ctx)
	}
}

func normalizeError(err error) *StandardError {
	if stdErr, ok := AsStandardError(err); ok {
		return stdErr
	}
	return NewInternalError(err)
}

func encodeVariables(vars map[string]interface{}) string {
	if len(vars) == 0 {
		return ""
	}
	raw, err := json.Marshal(vars)
	if err != nil {
		return ""
	}
	return string(raw)
}

func (h *ErrorHandler) logError(job entities.Job, err error, decision JobDecision) {
	stdErr := normalizeError(err)
	h.logger.Error("Job failed", map[string]interface{}{
		"jobKey":           job.Key,
		"jobType":          job.Type,
		"action":           string(decision.Action),
		"retriesLeft":      decision.Retries,
		"errorCode":        string(stdErr.Code),
		"bpmnErrorCode":    decision.BPMN.Code,
		"message":          decision.BPMN.Message,
		"details":          stdErr.Details,
		"errorCategory":    GetErrorCategory(stdErr.Code),
		"workflowInstance": job.ProcessInstanceKey,
	})
}
