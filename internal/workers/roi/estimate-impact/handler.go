package estimateimpact

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
	"leadflow/internal/roi"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "roi.estimate-impact"

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
	// Service overrides the default Service, mostly for tests.
	Service Executor
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)

	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for roi-estimate-impact: %w", err)
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

	h.logger.Info("Processing ROI estimate request", map[string]interface{}{
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

	input := &Input{
		Industry: variables["industry"].(string),
	}
	if values, ok := variables["values"].(map[string]interface{}); ok {
		input.Values = roi.ValuesFromMap(values)
	}
	if useDefaults, ok := variables["useDefaults"].(bool); ok {
		input.UseDefaults = useDefaults
	}

	return input, nil
}

// outputVariables is what the process sees after the task completes.
func outputVariables(output *Output) map[string]interface{} {
	return map[string]interface{}{
		"roiIndustry":     string(output.Industry),
		"roiMonthlyTotal": output.Impact.TotalMonthlyImpact,
		"roiAnnualTotal":  output.Impact.AnnualImpact,
		"roiImpact":       output.Impact,
		"roiFormatted":    output.Formatted,
	}
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

	h.logger.Info("Completed ROI estimate", map[string]interface{}{
		"jobKey":       job.GetKey(),
		"industry":     output.Industry,
		"monthlyTotal": output.Impact.TotalMonthlyImpact,
		"cached":       output.Cached,
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

// Service exposes the estimator so the HTTP API shares the cache.
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
		if workerCfg, exists := appConfig.Workers["roi-estimate-impact"]; exists {
			cfg.Enabled = workerCfg.Enabled
			if workerCfg.MaxJobsActive > 0 {
				cfg.MaxJobsActive = workerCfg.MaxJobsActive
			}
			if workerCfg.Timeout > 0 {
				cfg.Timeout = time.Duration(workerCfg.Timeout) * time.Millisecond
			}
		}

		if appConfig.ROI.CacheTTL > 0 {
			cfg.CacheTTL = time.Duration(appConfig.ROI.CacheTTL) * time.Second
		}
		if appConfig.ROI.CachePrefix != "" {
			cfg.CachePrefix = appConfig.ROI.CachePrefix
		}
	}

	return cfg
}
