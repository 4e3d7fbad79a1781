package emailsend

import (
	"context"
	"fmt"
	"time"

	"research-crew/internal/common/camunda"
	"research-crew/internal/common/config"
	"research-crew/internal/common/errors"
	"research-crew/internal/common/logger"
	"research-crew/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "email.send"

type Handler struct {
	config       *Config
	logger       logger.Logger
	camunda      *camunda.Client
	mailer       *Mailer
	errorHandler *errors.ErrorHandler
}

type HandlerOptions struct {
	AppConfig    *config.Config
	Camunda      *camunda.Client
	CustomConfig *Config
	Transport    Transport
	Logger       logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)

	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for email-send: %w", err)
	}

	var loggerInstance logger.Logger
	if opts.Logger != nil {
		loggerInstance = opts.Logger
	} else {
		loggerInstance = logger.NewStructured("info", "json")
	}
	loggerInstance = loggerInstance.With(map[string]interface{}{"worker": TaskType})

	return &Handler{
		config:       workerConfig,
		logger:       loggerInstance,
		camunda:      opts.Camunda,
		mailer:       NewMailer(workerConfig, opts.Transport, loggerInstance),
		errorHandler: errors.NewErrorHandler(loggerInstance),
	}, nil
}

// Handle mails the report named by the job. Precondition failures complete
// the job with emailSent=false; transport failures are retried.
func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("Processing report email request", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	if !h.config.Enabled {
		h.logger.Info("Worker disabled by configuration", nil)
		return h.completeJob(ctx, client, job, &Output{
			Sent:    false,
			Message: "Report email disabled",
		})
	}

	input, err := h.parseInput(job)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return err
	}

	output, err := h.mailer.Execute(ctx, input)
	if err != nil {
		stdErr, ok := errors.AsStandardError(err)
		if ok && stdErr.Code != errors.ErrCodeMailSendFailed {
			h.logger.Warn("Report email not sent", map[string]interface{}{
				"jobKey":    job.GetKey(),
				"errorCode": string(stdErr.Code),
				"details":   stdErr.Details,
			})
			return h.completeJob(ctx, client, job, &Output{
				Sent:    false,
				Message: fmt.Sprintf("%s: %s", stdErr.Message, stdErr.Details),
			})
		}
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return err
	}

	return h.completeJob(ctx, client, job, output)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
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
		return nil, &errors.StandardError{
			Code:      "VALIDATION_FAILED",
			Message:   "Input validation failed",
			Details:   fmt.Sprintf("Validation errors: %v", result.GetErrorMessages()),
			Retryable: false,
			Timestamp: time.Now().UTC(),
		}
	}

	input := &Input{
		Recipient:  variables["recipient"].(string),
		ReportPath: variables["reportPath"].(string),
	}
	if target, ok := variables["target"].(string); ok {
		input.Target = target
	}
	if ts, ok := variables["reportTimestamp"].(string); ok {
		input.ReportTimestamp = ts
	}
	return input, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) error {
	variables := map[string]interface{}{
		"emailSent":    output.Sent,
		"emailMessage": output.Message,
	}
	if output.Provider != "" {
		variables["emailProvider"] = output.Provider
	}
	if !output.SentAt.IsZero() {
		variables["emailSentAt"] = output.SentAt.Format(time.RFC3339)
	}

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

	h.logger.Info("Completed report email job", map[string]interface{}{
		"jobKey":    job.GetKey(),
		"emailSent": output.Sent,
	})
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
