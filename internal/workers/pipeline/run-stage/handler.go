package runstage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"research-crew/internal/common/config"
	"research-crew/internal/common/errors"
	"research-crew/internal/common/logger"
	"research-crew/internal/common/validation"
	"research-crew/internal/crew"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// Handler runs one pipeline stage per job. Upstream outputs arrive in the
// stageOutputs variable and the job completes with them merged with its own.
type Handler struct {
	config       *Config
	logger       logger.Logger
	executor     *crew.Executor
	stage        string
	taskType     string
	errorHandler *errors.ErrorHandler
}

type HandlerOptions struct {
	AppConfig    *config.Config
	Executor     *crew.Executor
	Stage        string
	CustomConfig *Config
	Logger       logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	if opts.Executor == nil {
		return nil, fmt.Errorf("executor is required")
	}
	if _, ok := opts.Executor.Pipeline().Stage(opts.Stage); !ok {
		return nil, fmt.Errorf("unknown stage %q", opts.Stage)
	}

	taskType := TaskTypeFor(opts.Stage)
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig, taskType)
	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", taskType, err)
	}

	var loggerInstance logger.Logger
	if opts.Logger != nil {
		loggerInstance = opts.Logger
	} else {
		loggerInstance = logger.NewStructured("info", "json")
	}
	loggerInstance = loggerInstance.With(map[string]interface{}{"worker": taskType})

	return &Handler{
		config:       workerConfig,
		logger:       loggerInstance,
		executor:     opts.Executor,
		stage:        opts.Stage,
		taskType:     taskType,
		errorHandler: errors.NewErrorHandler(loggerInstance),
	}, nil
}

// DefaultHandlers builds one handler per stage of the executor's pipeline.
func DefaultHandlers(appConfig *config.Config, executor *crew.Executor, log logger.Logger) ([]*Handler, error) {
	var handlers []*Handler
	for _, stage := range executor.Pipeline().Stages() {
		h, err := NewHandler(HandlerOptions{
			AppConfig: appConfig,
			Executor:  executor,
			Stage:     stage.Name,
			Logger:    log,
		})
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, h)
	}
	return handlers, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("Processing stage job", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
		"stage":              h.stage,
	})

	input, err := parseInput(job)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return err
	}

	if !h.config.Enabled {
		h.logger.Info("Worker disabled by configuration, passing outputs through", nil)
		return h.completeJob(ctx, client, job, &Output{
			StageOutputs: input.StageOutputs,
			LastStage:    h.stage,
		})
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return err
	}
	return h.completeJob(ctx, client, job, output)
}

// Execute runs the stage against the outputs carried by input.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := input.Request.Validate(); err != nil {
		return nil, err
	}

	pc := crew.ContextFromOutputs(input.Request, input.StageOutputs)
	res, err := h.executor.RunStageByName(ctx, h.stage, pc)
	if err != nil {
		return nil, err
	}

	merged := make(map[string]interface{}, len(input.StageOutputs)+1)
	for k, v := range input.StageOutputs {
		merged[k] = v
	}
	merged[h.stage] = res.Output

	return &Output{
		StageOutputs:  merged,
		LastStage:     h.stage,
		StageDegraded: res.Failed,
	}, nil
}

func parseInput(job entities.Job) (*Input, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, &errors.StandardError{
			Code:      "INPUT_PARSING_FAILED",
			Message:   "Failed to parse job variables",
			Details:   err.Error(),
			Retryable: false,
			Timestamp: time.Now().UTC(),
		}
	}

	result, err := validation.Validate(variables, GetInputSchema())
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, errors.NewRequestInvalidError(fmt.Sprintf("Validation errors: %v", result.GetErrorMessages()))
	}

	raw, err := json.Marshal(variables["request"])
	if err != nil {
		return nil, errors.NewRequestInvalidError(err.Error())
	}
	input := &Input{StageOutputs: map[string]interface{}{}}
	if err := json.Unmarshal(raw, &input.Request); err != nil {
		return nil, errors.NewRequestInvalidError(err.Error())
	}
	if outputs, ok := variables["stageOutputs"].(map[string]interface{}); ok {
		input.StageOutputs = outputs
	}
	return input, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) error {
	request, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromObject(output)
	if err != nil {
		h.logger.Error("Failed to create complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return err
	}

	if _, err := request.Send(ctx); err != nil {
		h.logger.Error("Failed to complete job", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return err
	}

	h.logger.Info("Stage job completed", map[string]interface{}{
		"jobKey":   job.GetKey(),
		"degraded": output.StageDegraded,
	})
	return nil
}

func (h *Handler) GetTaskType() string {
	return h.taskType
}

func (h *Handler) IsEnabled() bool {
	return h.config.Enabled
}

func (h *Handler) GetConfig() *Config {
	return h.config
}
