package leadregister

import (
	"context"
	"fmt"
	"time"

	"leadflow/internal/common/camunda"
	"leadflow/internal/common/config"
	"leadflow/internal/common/errors"
	"leadflow/internal/common/logger"
	"leadflow/internal/common/metrics"
	"leadflow/internal/common/observability"
	"leadflow/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "crm.lead.register"

type Handler struct {
	config    *Config
	logger    logger.Logger
	camunda   *camunda.Client
	service   Executor
	errors    *errors.ErrorHandler
	obs       *observability.Observability
	jobWorker *camunda.Worker
}

type HandlerOptions struct {
	AppConfig     *config.Config
	Camunda       *camunda.Client
	CustomConfig  *Config
	Logger        logger.Logger
	Dependencies  ServiceDependencies
	Observability *observability.Observability
	Service       Executor
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)

	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for crm-lead-register: %w", err)
	}

	loggerInstance := opts.Logger
	if loggerInstance == nil {
		loggerInstance = logger.NewStructured("info", "json")
	}
	loggerInstance = loggerInstance.WithFields(map[string]interface{}{"worker": TaskType})

	obs := opts.Observability
	if obs == nil {
		obs = observability.NewNoop()
	}

	handler := &Handler{
		config:  workerConfig,
		logger:  loggerInstance,
		camunda: opts.Camunda,
		errors:  errors.NewErrorHandler(loggerInstance),
		obs:     obs,
		service: opts.Service,
	}

	if handler.service == nil {
		deps := opts.Dependencies
		deps.Logger = loggerInstance
		handler.service = NewService(deps, workerConfig)
	}

	return handler, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("Processing lead registration", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	input, err := h.parseInput(job)
	if err == nil {
		var output *Output
		output, err = h.Execute(ctx, input)
		if err == nil {
			h.completeJob(ctx, client, job, output)
			metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
			metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
			h.obs.RecordJobProcessed(ctx, TaskType, "completed")
			h.obs.RecordJobDuration(ctx, TaskType, time.Since(startTime), "completed")
			return
		}
	}

	metrics.WorkerJobsFailed.WithLabelValues(TaskType, extractErrorCode(err)).Inc()
	h.obs.RecordJobProcessed(ctx, TaskType, "failed")
	h.errors.HandleJobError(ctx, client, job, err)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, errors.NewInvalidPayloadError(err)
	}

	result := validation.ValidateInput(variables, GetInputSchema())
	if !result.Valid {
		return nil, errors.NewInputValidationError(fmt.Sprintf("Validation errors: %v", result.GetErrorMessages()))
	}

	str := func(key string) string {
		v, _ := variables[key].(string)
		return v
	}

	return &Input{
		Email:        str("email"),
		FirstName:    str("firstName"),
		LastName:     str("lastName"),
		Phone:        str("phone"),
		Company:      str("company"),
		Industry:     str("industry"),
		Message:      str("message"),
		FormID:       str("formId"),
		SubmissionID: str("submissionId"),
		Source:       str("source"),
	}, nil
}

func outputVariables(output *Output) map[string]interface{} {
	variables := map[string]interface{}{
		"leadRegistered":   output.Success,
		"leadMessage":      output.Message,
		"leadSubmissionId": output.SubmissionID,
		"leadDuplicate":    output.Duplicate,
		"leadNotified":     output.Notified,
	}
	if output.LeadRecordID != 0 {
		variables["leadRecordId"] = output.LeadRecordID
	}
	if output.CRMLeadID != "" {
		variables["crmLeadId"] = output.CRMLeadID
		variables["crmProvider"] = output.CRMProvider
		variables["crmExistingLead"] = output.ExistingCRMLead
	}
	return variables
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	request, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromMap(outputVariables(output))
	if err != nil {
		h.logger.Error("Failed to create complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}

	if _, err := request.Send(ctx); err != nil {
		h.logger.Error("Failed to complete job", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}

	h.logger.Info("Completed lead registration", map[string]interface{}{
		"jobKey":       job.GetKey(),
		"submissionId": output.SubmissionID,
		"crmLeadId":    output.CRMLeadID,
		"duplicate":    output.Duplicate,
	})
}

func (h *Handler) Register() error {
	if !h.config.Enabled {
		h.logger.Info("Worker is disabled, skipping registration", nil)
		return nil
	}
	if h.camunda == nil {
		return fmt.Errorf("camunda client is required to register %s", TaskType)
	}

	h.jobWorker = camunda.NewWorker(h.camunda.GetClient(), TaskType, h.config.MaxJobsActive, h.config.Timeout, h, h.logger)
	return nil
}

func (h *Handler) Close(ctx context.Context) {
	if h.jobWorker != nil {
		h.jobWorker.Stop(ctx)
		h.jobWorker = nil
	}
}

func (h *Handler) GetTaskType() string {
	return TaskType
}

func (h *Handler) IsEnabled() bool {
	return h.config.Enabled
}

// Execute implements the standard worker interface for direct execution
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.service.Execute(ctx, input)
}

// Service exposes the registration flow for the webhook's direct path.
func (h *Handler) Service() Executor {
	return h.service
}

func extractErrorCode(err error) string {
	if stdErr, ok := errors.AsStandardError(err); ok {
		return string(stdErr.Code)
	}
	return "UNKNOWN_ERROR"
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()

	if appConfig != nil {
		if workerCfg, exists := appConfig.Workers["crm-lead-register"]; exists {
			cfg.Enabled = workerCfg.Enabled
			if workerCfg.MaxJobsActive > 0 {
				cfg.MaxJobsActive = workerCfg.MaxJobsActive
			}
			if workerCfg.Timeout > 0 {
				cfg.Timeout = time.Duration(workerCfg.Timeout) * time.Millisecond
			}
		}

		aws := appConfig.Integrations.AWS
		if aws.SES.Enabled {
			cfg.FromEmail = aws.SES.FromEmail
			cfg.SalesTo = aws.SES.SalesTo
		}
		if aws.SNS.Enabled {
			cfg.TopicARN = aws.SNS.TopicARN
		}
	}

	return cfg
}
