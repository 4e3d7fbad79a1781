// internal/crew/executor.go
package crew

import (
	"context"
	"fmt"
	"strings"
	"time"

	"research-crew/internal/common/config"
	"research-crew/internal/common/errors"
	"research-crew/internal/common/logger"
	"research-crew/internal/common/metrics"
	"research-crew/internal/models"
	"research-crew/internal/tools"

	"github.com/google/uuid"
)

// RunRecorder receives one observation per finished run.
type RunRecorder interface {
	RecordRun(ctx context.Context, industry, status string, duration time.Duration)
}

// Run is the outcome of one pipeline execution. On abort or cancellation
// Results holds the stages completed so far.
type Run struct {
	ID         string
	Request    models.AnalysisRequest
	Results    []models.StageResult
	Context    PipelineContext
	StartedAt  time.Time
	FinishedAt time.Time
}

// Executor runs a pipeline's stages strictly in order.
type Executor struct {
	pipeline *Pipeline
	policy   string
	logger   logger.Logger
	now      func() time.Time
	newID    func() string
	recorder RunRecorder
}

type Option func(*Executor)

// WithClock replaces time.Now, for reproducible timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Executor) { e.now = now }
}

// WithIDGenerator replaces the uuid run ID source.
func WithIDGenerator(newID func() string) Option {
	return func(e *Executor) { e.newID = newID }
}

func WithRecorder(r RunRecorder) Option {
	return func(e *Executor) { e.recorder = r }
}

// NewExecutor builds an executor. An empty policy means embed.
func NewExecutor(p *Pipeline, policy string, log logger.Logger, opts ...Option) (*Executor, error) {
	if p == nil {
		return nil, errors.NewPipelineInvalidError("pipeline is required")
	}
	switch policy {
	case "":
		policy = config.ErrorPolicyEmbed
	case config.ErrorPolicyEmbed, config.ErrorPolicyAbort:
	default:
		return nil, errors.NewPipelineInvalidError(fmt.Sprintf("unknown error policy %q", policy))
	}

	e := &Executor{
		pipeline: p,
		policy:   policy,
		logger:   log.With(map[string]interface{}{"component": "executor"}),
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Executor) Pipeline() *Pipeline {
	return e.pipeline
}

// Run validates req and executes every stage, feeding each one a snapshot
// restricted to its upstream stages.
func (e *Executor) Run(ctx context.Context, req models.AnalysisRequest) (*Run, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	run := &Run{
		ID:        e.newID(),
		Request:   req,
		Context:   NewPipelineContext(req),
		StartedAt: e.now(),
	}
	log := e.logger.With(map[string]interface{}{
		"runId":    run.ID,
		"target":   req.TargetName,
		"industry": req.Industry,
	})
	log.Info("pipeline started", map[string]interface{}{"stages": e.pipeline.Len(), "policy": e.policy})

	status := "completed"
	defer func() {
		run.FinishedAt = e.now()
		if e.recorder != nil {
			e.recorder.RecordRun(ctx, req.Industry, status, run.FinishedAt.Sub(run.StartedAt))
		}
	}()

	for _, stage := range e.pipeline.stages {
		if err := ctx.Err(); err != nil {
			status = "cancelled"
			log.Warn("pipeline cancelled", map[string]interface{}{"nextStage": stage.Name, "error": err.Error()})
			return run, err
		}

		res, err := e.RunStage(ctx, stage, run.Context)
		if err != nil {
			status = "aborted"
			log.Error("pipeline aborted", map[string]interface{}{"stage": stage.Name, "error": err.Error()})
			return run, err
		}
		run.Results = append(run.Results, res)
		run.Context = run.Context.With(res)
	}

	log.Info("pipeline completed", map[string]interface{}{"stages": len(run.Results)})
	return run, nil
}

// RunStageByName runs the named stage against pc.
func (e *Executor) RunStageByName(ctx context.Context, name string, pc PipelineContext) (models.StageResult, error) {
	stage, ok := e.pipeline.Stage(name)
	if !ok {
		return models.StageResult{}, errors.NewPipelineInvalidError(fmt.Sprintf("unknown stage %q", name))
	}
	return e.RunStage(ctx, stage, pc)
}

// RunStage runs one stage's primary tool and consultations. Under the embed
// policy tool failures become part of the output; under abort the first
// failure is returned as a STAGE_FAILED error.
func (e *Executor) RunStage(ctx context.Context, stage Stage, pc PipelineContext) (models.StageResult, error) {
	started := time.Now()
	snapshot := pc.Restrict(stage.Upstream)

	res := models.StageResult{
		StageIndex:  stage.Index,
		StageName:   stage.Name,
		RoleName:    stage.Role,
		Description: stage.Describe(pc.Request),
		StartedAt:   e.now(),
	}
	log := e.logger.With(map[string]interface{}{"stage": stage.Name, "role": stage.Role})

	resolved := make(map[string]tools.Tool, len(stage.Consultations)+1)
	for _, id := range stage.ToolIDs() {
		tool, ok := e.pipeline.tools.Get(id)
		if !ok {
			return res, errors.NewPipelineInvalidError(fmt.Sprintf("stage %q uses unknown tool %q", stage.Name, id))
		}
		resolved[id] = tool
	}

	var b strings.Builder
	call := func(toolID, input string) (tools.Result, bool) {
		r := tools.Invoke(ctx, resolved[toolID], input)
		if r.Failed() {
			res.Failed = true
			log.Warn("tool call failed", map[string]interface{}{
				"tool":      toolID,
				"errorCode": r.Err.Code,
				"error":     r.Err.Message,
			})
			if e.policy == config.ErrorPolicyAbort {
				return r, false
			}
		}
		return r, true
	}

	primary, ok := call(stage.PrimaryTool, stage.Shape(snapshot))
	if !ok {
		return e.fail(stage, res, started, primary)
	}
	b.WriteString(primary.Text())

	for _, c := range stage.Consultations {
		r, ok := call(c.Tool, c.Shape(snapshot))
		if !ok {
			return e.fail(stage, res, started, r)
		}
		fmt.Fprintf(&b, "\n\n[%s]\n%s", resolved[c.Tool].Name(), r.Text())
	}

	res.Output = b.String()
	res.Duration = e.now().Sub(res.StartedAt).Milliseconds()

	status := "completed"
	if res.Failed {
		status = "degraded"
	}
	metrics.StageRuns.WithLabelValues(stage.Name, status).Inc()
	metrics.StageDuration.WithLabelValues(stage.Name).Observe(time.Since(started).Seconds())
	log.Info("stage finished", map[string]interface{}{"status": status, "outputLength": b.Len()})
	return res, nil
}

func (e *Executor) fail(stage Stage, res models.StageResult, started time.Time, r tools.Result) (models.StageResult, error) {
	res.Output = r.Text()
	res.Duration = e.now().Sub(res.StartedAt).Milliseconds()
	metrics.StageRuns.WithLabelValues(stage.Name, "failed").Inc()
	metrics.StageDuration.WithLabelValues(stage.Name).Observe(time.Since(started).Seconds())
	return res, errors.NewStageFailedError(stage.Name, r.Err)
}
