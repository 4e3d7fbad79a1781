package renderreport

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
	"research-crew/internal/models"
	"research-crew/internal/report"
	runstage "research-crew/internal/workers/pipeline/run-stage"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const TaskType = "crew-render-report"

// Handler renders the stage outputs carried by a job into a report file and
// hands the report to the configured sinks.
type Handler struct {
	config       *Config
	logger       logger.Logger
	pipeline     *crew.Pipeline
	sinks        report.Sinks
	errorHandler *errors.ErrorHandler
	now          func() time.Time
	newID        func() string
}

type HandlerOptions struct {
	AppConfig    *config.Config
	Pipeline     *crew.Pipeline
	Sinks        report.Sinks
	CustomConfig *Config
	Logger       logger.Logger
	Clock        func() time.Time
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	if opts.Pipeline == nil {
		return nil, fmt.Errorf("pipeline is required")
	}
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for render-report: %w", err)
	}

	var loggerInstance logger.Logger
	if opts.Logger != nil {
		loggerInstance = opts.Logger
	} else {
		loggerInstance = logger.NewStructured("info", "json")
	}
	loggerInstance = loggerInstance.With(map[string]interface{}{"worker": TaskType})

	now := opts.Clock
	if now == nil {
		now = time.Now
	}

	return &Handler{
		config:       workerConfig,
		logger:       loggerInstance,
		pipeline:     opts.Pipeline,
		sinks:        opts.Sinks,
		errorHandler: errors.NewErrorHandler(loggerInstance),
		now:          now,
		newID:        func() string { return uuid.New().String() },
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("Processing render job", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	if !h.config.Enabled {
		h.logger.Info("Worker disabled by configuration", nil)
		return h.completeJob(ctx, client, job, map[string]interface{}{"reportPath": ""})
	}

	input, err := parseInput(job)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return err
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return err
	}

	vars, err := toMap(output)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return err
	}
	return h.completeJob(ctx, client, job, vars)
}

// Results orders the carried outputs by stage. Stages with no output are left
// out, which the renderer reports as a count mismatch.
func (h *Handler) Results(req models.AnalysisRequest, outputs map[string]interface{}) []models.StageResult {
	var results []models.StageResult
	for _, stage := range h.pipeline.Stages() {
		out, ok := outputs[stage.Name]
		if !ok {
			continue
		}
		results = append(results, models.StageResult{
			StageIndex:  stage.Index,
			StageName:   stage.Name,
			RoleName:    stage.Role,
			Description: stage.Describe(req),
			Output:      out,
		})
	}
	return results
}

// Execute renders, writes and delivers the report. Only a failed write is an
// error.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := input.Request.Validate(); err != nil {
		return nil, err
	}
	runID := input.RunID
	if runID == "" {
		runID = h.newID()
	}

	results := h.Results(input.Request, input.StageOutputs)
	r := report.Build(runID, input.Request, h.pipeline.Stages(), results, h.pipeline.Roster(), h.now())

	path, err := report.Write(h.config.ReportsDir, r.Target, r.Timestamp, r.Content)
	if err != nil {
		return nil, err
	}
	r.FilePath = path
	h.logger.Info("Report written", map[string]interface{}{
		"runId":  runID,
		"path":   path,
		"stages": len(results),
	})

	d := h.sinks.Deliver(ctx, r, h.logger)

	return &Output{
		RunID:           runID,
		ReportPath:      path,
		ReportTimestamp: r.Timestamp,
		Target:          r.Target,
		Industry:        r.Industry,
		GeneratedAt:     r.GeneratedAt.UTC().Format(time.RFC3339),
		StageCount:      len(results),
		Archived:        d.Archived,
		Indexed:         d.Indexed,
		Notified:        d.Notified,
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

	result, err := validation.Validate(variables, runstage.GetInputSchema())
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, errors.NewRequestInvalidError(fmt.Sprintf("Validation errors: %v", result.GetErrorMessages()))
	}

	var input Input
	if err := json.Unmarshal([]byte(job.GetVariables()), &input); err != nil {
		return nil, errors.NewRequestInvalidError(err.Error())
	}
	return &input, nil
}

func toMap(output *Output) (map[string]interface{}, error) {
	raw, err := json.Marshal(output)
	if err != nil {
		return nil, err
	}
	vars := map[string]interface{}{}
	if err := json.Unmarshal(raw, &vars); err != nil {
		return nil, err
	}
	return vars, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, variables map[string]interface{}) error {
	request, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromMap(variables)
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
	return nil
}

func (h *Handler) GetTaskType() string {
	return TaskType
}

func (h *Handler) IsEnabled() bool {
	return h.config.Enabled
}

func (h *Handler) GetConfig() *Config {
	return h.config
}
