// internal/crew/context.go
package crew

import (
	"sort"

	"research-crew/internal/models"
)

// PipelineContext is the request plus the results recorded so far. It is a
// value: With returns a new context and never mutates the receiver, so a
// snapshot handed to a stage cannot observe later writes.
type PipelineContext struct {
	Request models.AnalysisRequest
	results map[string]models.StageResult
}

func NewPipelineContext(req models.AnalysisRequest) PipelineContext {
	return PipelineContext{Request: req, results: map[string]models.StageResult{}}
}

// ContextFromOutputs rebuilds a context from stage name -> output pairs, as
// carried in job variables.
func ContextFromOutputs(req models.AnalysisRequest, outputs map[string]interface{}) PipelineContext {
	c := NewPipelineContext(req)
	for name, out := range outputs {
		c.results[name] = models.StageResult{StageName: name, Output: out}
	}
	return c
}

// With returns a copy of c that also holds res.
func (c PipelineContext) With(res models.StageResult) PipelineContext {
	next := PipelineContext{Request: c.Request, results: make(map[string]models.StageResult, len(c.results)+1)}
	for k, v := range c.results {
		next.results[k] = v
	}
	next.results[res.StageName] = res
	return next
}

// Restrict returns a copy of c holding only the named stages.
func (c PipelineContext) Restrict(names []string) PipelineContext {
	next := PipelineContext{Request: c.Request, results: make(map[string]models.StageResult, len(names))}
	for _, name := range names {
		if res, ok := c.results[name]; ok {
			next.results[name] = res
		}
	}
	return next
}

func (c PipelineContext) Result(name string) (models.StageResult, bool) {
	res, ok := c.results[name]
	return res, ok
}

// Output is the text of the named stage, empty when absent.
func (c PipelineContext) Output(name string) string {
	return c.results[name].Text()
}

// Field returns a request field, or fallback when blank.
func (c PipelineContext) Field(name, fallback string) string {
	return c.Request.Field(name, fallback)
}

// Names lists recorded stage names in sorted order.
func (c PipelineContext) Names() []string {
	names := make([]string, 0, len(c.results))
	for name := range c.results {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Outputs flattens the context to stage name -> output.
func (c PipelineContext) Outputs() map[string]interface{} {
	out := make(map[string]interface{}, len(c.results))
	for name, res := range c.results {
		out[name] = res.Output
	}
	return out
}
